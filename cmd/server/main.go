// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"hackreg/internal/admin"
	adminhandler "hackreg/internal/admin/handler"
	"hackreg/internal/admin/session"
	"hackreg/internal/audit"
	"hackreg/internal/identity"
	"hackreg/internal/platform/config"
	"hackreg/internal/platform/httpserver"
	"hackreg/internal/platform/logger"
	"hackreg/internal/platform/otel"
	platformredis "hackreg/internal/platform/redis"
	reghandler "hackreg/internal/registration/handler"
	regmetrics "hackreg/internal/registration/metrics"
	regservice "hackreg/internal/registration/service"
	regstore "hackreg/internal/registration/store"
	"hackreg/internal/stats"
	httptransport "hackreg/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := otel.Setup(ctx, "hackreg")
	if err != nil {
		log.Error("otel setup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Registration store: postgres when configured, in-memory otherwise.
	var store regstore.RegistrationStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := regstore.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("ensure schema", "error", err)
			os.Exit(1)
		}
		store = pg
	} else {
		log.Warn("DATABASE_URL not set, using in-memory registration store")
		store = regstore.NewInMemory()
	}

	// Admin sessions: redis when configured, in-memory otherwise.
	var sessions session.Store = session.NewInMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient.Client)
	}

	// Audit trail: kafka when brokers are configured, otherwise an
	// in-process worker draining to the memory store.
	var auditor audit.Publisher
	var worker *audit.Worker
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic, log)
		if err != nil {
			log.Error("kafka audit publisher setup failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		auditor = kafka
	} else {
		channel := audit.NewChannelPublisher(1024, log)
		worker = audit.NewWorker(audit.NewInMemoryStore(), channel.Outbox())
		auditor = channel
	}

	metrics := regmetrics.New()
	coordinator := regservice.New(store, log,
		regservice.WithMetrics(metrics),
		regservice.WithAuditor(auditor),
	)
	statsSvc := stats.New(store, cfg.InstitutionDomain)
	var gate admin.Authenticator
	if cfg.AdminPasswordHash != "" {
		gate = admin.NewHashedEnvGate(cfg.AdminUsername, cfg.AdminPasswordHash)
	} else {
		gate = admin.NewEnvGate(cfg.AdminUsername, cfg.AdminPassword)
	}
	validator := identity.NewJWTService(cfg.JWTSigningKey, "hackreg", "hackreg")

	router := httptransport.NewRouter(log,
		reghandler.New(coordinator, validator, cfg.InstitutionDomain, log),
		adminhandler.New(gate, sessions, statsSvc, cfg.AdminSessionTTL, log,
			adminhandler.WithAuditor(auditor)),
	)

	srv := httpserver.New(cfg.Addr, router, httpserver.Timeouts{
		Read:  cfg.HTTPReadTimeout,
		Write: cfg.HTTPWriteTimeout,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting hackreg", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
