package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hackreg/internal/admin"
	"hackreg/internal/admin/session"
	"hackreg/internal/audit"
	"hackreg/internal/export"
	"hackreg/internal/platform/middleware"
	"hackreg/internal/stats"
	"hackreg/internal/transport/http/shared"
	dErrors "hackreg/pkg/domain-errors"
	"hackreg/pkg/requestcontext"
)

// StatsService computes the aggregate view served to admins.
type StatsService interface {
	Compute(ctx context.Context) (*stats.Stats, error)
}

// Handler serves the admin surface: credential verification, statistics and
// roster exports.
type Handler struct {
	logger     *slog.Logger
	gate       admin.Authenticator
	sessions   session.Store
	stats      StatsService
	auditor    audit.Publisher
	sessionTTL time.Duration
}

// Option configures the Handler.
type Option func(*Handler)

// WithAuditor records successful admin verifications on the audit trail.
func WithAuditor(p audit.Publisher) Option {
	return func(h *Handler) { h.auditor = p }
}

func New(gate admin.Authenticator, sessions session.Store, statsSvc StatsService, sessionTTL time.Duration, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger:     logger,
		gate:       gate,
		sessions:   sessions,
		stats:      statsSvc,
		sessionTTL: sessionTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/verify", h.handleVerify)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminSession(h.sessions, h.logger))
		r.Get("/admin/stats", h.handleStats)
		r.Get("/admin/export/csv", h.handleExportCSV)
		r.Get("/admin/export/excel", h.handleExportExcel)
		r.Get("/admin/export/teams.json", h.handleExportTeamsJSON)
		r.Get("/admin/export/individuals.json", h.handleExportIndividualsJSON)
		r.Get("/admin/export/contacts.json", h.handleExportContactsJSON)
	})
}

type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyResponse struct {
	IsValid      bool   `json:"isValid"`
	SessionToken string `json:"sessionToken,omitempty"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "username and password required"))
		return
	}

	ok, err := h.gate.Verify(ctx, req.Username, req.Password)
	if err != nil {
		// Misconfiguration is an operator problem; the caller sees the same
		// generic rejection as a wrong password would get.
		h.logger.ErrorContext(ctx, "admin verification unavailable",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "verification failed"))
		return
	}
	if !ok {
		shared.WriteJSON(w, http.StatusOK, verifyResponse{IsValid: false})
		return
	}

	now := requestcontext.Now(ctx)
	sess := session.Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}
	if err := h.sessions.Save(ctx, sess); err != nil {
		h.logger.ErrorContext(ctx, "admin session save failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "verification failed"))
		return
	}

	if h.auditor != nil {
		event := audit.Event{
			Timestamp: now,
			Action:    audit.ActionAdminVerified,
			RequestID: middleware.GetRequestID(ctx),
		}
		if err := h.auditor.Emit(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "audit emit failed", "error", err)
		}
	}

	shared.WriteJSON(w, http.StatusOK, verifyResponse{
		IsValid:      true,
		SessionToken: sess.Token,
		ExpiresAt:    sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Compute(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Compute(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	_, _ = w.Write([]byte(export.CSV(st)))
}

func (h *Handler) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Compute(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.tsv"`)
	_, _ = w.Write([]byte(export.Excel(st)))
}

func (h *Handler) handleExportTeamsJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.stats.Compute(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="teams.json"`)
	shared.WriteJSON(w, http.StatusOK, export.TeamsJSON(st, requestcontext.Now(ctx)))
}

func (h *Handler) handleExportIndividualsJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.stats.Compute(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="individuals.json"`)
	shared.WriteJSON(w, http.StatusOK, export.IndividualsJSON(st, requestcontext.Now(ctx)))
}

func (h *Handler) handleExportContactsJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.stats.Compute(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.json"`)
	shared.WriteJSON(w, http.StatusOK, export.ContactsJSON(st, requestcontext.Now(ctx)))
}
