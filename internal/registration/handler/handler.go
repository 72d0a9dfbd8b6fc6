package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hackreg/internal/identity"
	"hackreg/internal/platform/middleware"
	"hackreg/internal/registration/models"
	"hackreg/internal/transport/http/shared"
	dErrors "hackreg/pkg/domain-errors"
)

// Service defines the coordinator operations the transport needs.
type Service interface {
	Register(ctx context.Context, caller identity.Identity, req models.RegisterRequest) (*models.Registration, error)
	ListOpenTeams(ctx context.Context) ([]models.TeamAvailability, error)
}

// Handler handles registration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator middleware.TokenValidator
	domain    string
}

func New(service Service, validator middleware.TokenValidator, domain string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator,
		domain:    domain,
	}
}

// Register registers the registration routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/api/register", h.handleRegister)
	})
	r.Get("/api/teams/open", h.handleOpenTeams)
}

// registrationResponse is the committed row as shown to the registrant. The
// email is derived from the roll number on the way out, never stored.
type registrationResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RollNumber   string `json:"rollNumber"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	College      string `json:"college"`
	Year         string `json:"year"`
	Experience   string `json:"experience"`
	TeamName     string `json:"teamName,omitempty"`
	TeamSize     int    `json:"teamSize"`
	RegisteredAt string `json:"registeredAt"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := identity.FromContext(ctx)
	if !ok {
		// RequireAuth should make this unreachable; the coordinator still
		// treats a zero identity as identity_required.
		h.logger.ErrorContext(ctx, "identity missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	reg, err := h.service.Register(ctx, caller, req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, registrationResponse{
		ID:           reg.ID,
		Name:         reg.Name,
		RollNumber:   reg.RollNumber.String(),
		Email:        reg.RollNumber.Email(h.domain),
		Phone:        reg.Phone,
		College:      reg.College,
		Year:         string(reg.Year),
		Experience:   string(reg.Experience),
		TeamName:     reg.TeamName,
		TeamSize:     reg.TeamSize,
		RegisteredAt: reg.RegisteredAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleOpenTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.ListOpenTeams(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams})
}
