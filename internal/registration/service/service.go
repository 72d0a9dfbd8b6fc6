// Package service holds the registration coordinator: the one component that
// validates registration intents and commits them atomically against the
// store while preserving uniqueness and team-capacity invariants.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"hackreg/internal/audit"
	"hackreg/internal/identity"
	regmetrics "hackreg/internal/registration/metrics"
	"hackreg/internal/registration/models"
	"hackreg/internal/registration/store"
	dErrors "hackreg/pkg/domain-errors"
	"hackreg/pkg/platform/sentinel"
	"hackreg/pkg/requestcontext"
)

var tracer = otel.Tracer("hackreg/registration")

// Service coordinates registrations.
type Service struct {
	store   store.RegistrationStore
	logger  *slog.Logger
	metrics *regmetrics.Metrics
	auditor audit.Publisher
}

// Option configures the Service.
type Option func(*Service)

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditor(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(st store.RegistrationStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: st, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates a registration intent and commits it. Validation fails
// fast: the first violation wins and each carries a distinct rejection kind.
// Uniqueness and capacity are re-checked atomically at commit time by the
// store, so a race lost between validation and commit still surfaces as the
// correct rejection instead of a corrupted invariant.
//
// On success exactly one row was committed; on any failure the store is
// unchanged.
func (s *Service) Register(ctx context.Context, caller identity.Identity, req models.RegisterRequest) (*models.Registration, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "registration.register")
	defer span.End()

	reg, filled, err := s.register(ctx, caller, req)
	s.metrics.ObserveRegisterLatency(time.Since(start))
	if err != nil {
		kind := dErrors.KindOf(err)
		span.SetAttributes(attribute.String("rejection", kind))
		s.metrics.IncRejected(kind)
		return nil, err
	}

	span.SetAttributes(attribute.String("mode", string(req.Mode)))
	s.metrics.IncCreated(string(req.Mode))
	if filled {
		s.metrics.IncTeamsFilled()
	}
	s.emitCreated(ctx, reg, req.Mode, filled)
	return reg, nil
}

func (s *Service) register(ctx context.Context, caller identity.Identity, req models.RegisterRequest) (*models.Registration, bool, error) {
	if caller.IsZero() {
		return nil, false, dErrors.WithKind(dErrors.CodeUnauthorized, "identity_required",
			"sign in before registering")
	}

	if _, err := s.store.FindByUserID(ctx, caller.ID); err == nil {
		return nil, false, errDuplicateSubmission()
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, s.internal(ctx, err, "lookup existing registration")
	}

	if err := req.ValidateFields(); err != nil {
		return nil, false, err
	}

	roll, err := models.ParseRollNumber(req.RollNumber)
	if err != nil {
		return nil, false, err
	}

	reg := &models.Registration{
		ID:           uuid.NewString(),
		UserID:       caller.ID,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		College:      strings.TrimSpace(req.College),
		Year:         req.Year,
		Experience:   req.Experience,
		RollNumber:   roll,
		RegisteredAt: requestcontext.Now(ctx),
	}

	// Mode-specific shape checks come before the roll uniqueness re-check so
	// a malformed team request is reported as such.
	reg.TeamName = strings.TrimSpace(req.TeamName)
	switch req.Mode {
	case models.ModeSolo:
		reg.TeamName = ""
		reg.TeamSize = 1
	case models.ModeCreate:
		if reg.TeamName == "" {
			return nil, false, dErrors.WithKind(dErrors.CodeBadRequest, "invalid_field",
				"team name is required to create a team")
		}
		if req.TeamSize < models.MinTeamSize || req.TeamSize > models.MaxTeamSize {
			return nil, false, dErrors.WithKind(dErrors.CodeBadRequest, "invalid_team_size",
				"team size must be between 2 and 4")
		}
		reg.TeamSize = req.TeamSize
	case models.ModeJoin:
		if reg.TeamName == "" {
			return nil, false, dErrors.WithKind(dErrors.CodeBadRequest, "invalid_field",
				"team name is required to join a team")
		}
		// TeamSize is inherited from the team inside the atomic claim; any
		// client-supplied value is ignored.
	}

	if _, err := s.store.FindByRollNumber(ctx, roll); err == nil {
		return nil, false, errRollNumberTaken()
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, s.internal(ctx, err, "lookup roll number")
	}

	var filled bool
	switch req.Mode {
	case models.ModeSolo:
		err = s.store.CreateSolo(ctx, reg)
	case models.ModeCreate:
		err = s.store.CreateTeam(ctx, reg)
	case models.ModeJoin:
		filled, err = s.store.JoinTeam(ctx, reg)
	}

	if err != nil {
		return nil, false, s.translateCommitErr(ctx, err)
	}
	return reg, filled, nil
}

// translateCommitErr maps store facts from the atomic commit into the
// user-facing taxonomy. These cover the race window the pre-checks cannot.
func (s *Service) translateCommitErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateUser):
		return errDuplicateSubmission()
	case errors.Is(err, store.ErrRollNumberUsed):
		return errRollNumberTaken()
	case errors.Is(err, store.ErrTeamNameTaken):
		return dErrors.WithKind(dErrors.CodeConflict, "team_name_taken",
			"a team with that name already exists")
	case errors.Is(err, store.ErrTeamNotFound):
		return dErrors.WithKind(dErrors.CodeNotFound, "team_not_found",
			"no team with that name is registered")
	case errors.Is(err, store.ErrTeamFull):
		return dErrors.WithKind(dErrors.CodeConflict, "team_full",
			"the selected team has no seats remaining")
	default:
		return s.internal(ctx, err, "commit registration")
	}
}

func errDuplicateSubmission() error {
	return dErrors.WithKind(dErrors.CodeConflict, "duplicate_submission",
		"this account already holds a registration")
}

func errRollNumberTaken() error {
	return dErrors.WithKind(dErrors.CodeConflict, "roll_number_taken",
		"that roll number is already registered")
}

func (s *Service) internal(ctx context.Context, err error, op string) error {
	s.logger.ErrorContext(ctx, "registration store failure",
		"op", op,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "registration temporarily unavailable, please retry")
}

// emitCreated publishes the operational audit trail. Fail-open: the row is
// already committed, so emission problems are logged and swallowed. The
// filled flag comes from the store's atomic seat claim, so a team that fills
// under concurrent joins produces exactly one team_filled event.
func (s *Service) emitCreated(ctx context.Context, reg *models.Registration, mode models.Mode, filled bool) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp:  reg.RegisteredAt,
		Action:     audit.ActionRegistrationCreated,
		UserID:     reg.UserID,
		RollNumber: reg.RollNumber.String(),
		TeamName:   reg.TeamName,
		Mode:       string(mode),
		RequestID:  requestcontext.RequestID(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}

	if filled {
		event := audit.Event{
			Timestamp: reg.RegisteredAt,
			Action:    audit.ActionTeamFilled,
			TeamName:  reg.TeamName,
			RequestID: requestcontext.RequestID(ctx),
		}
		if err := s.auditor.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "audit emit failed", "error", err)
		}
	}
}

// ListOpenTeams returns teams with seats remaining, sorted by name. Reads are
// served from the store's current state; a team reported open may fill before
// the caller submits, in which case Register answers team_full.
func (s *Service) ListOpenTeams(ctx context.Context) ([]models.TeamAvailability, error) {
	teams, err := s.store.ListOpenTeams(ctx)
	if err != nil {
		return nil, s.internal(ctx, err, "list open teams")
	}
	return teams, nil
}
