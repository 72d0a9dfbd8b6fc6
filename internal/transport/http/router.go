package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "hackreg/internal/admin/handler"
	"hackreg/internal/platform/middleware"
	reghandler "hackreg/internal/registration/handler"
)

// NewRouter wires all public endpoints. Handlers stay thin and delegate to
// domain services so transport concerns remain isolated.
func NewRouter(logger *slog.Logger, registration *reghandler.Handler, admin *adminhandler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	registration.Register(r)
	admin.Register(r)

	return r
}
