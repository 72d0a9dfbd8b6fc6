// Package store persists registrations. Stores are interface-driven so the
// coordinator stays testable and the in-memory and postgres implementations
// are interchangeable.
package store

import (
	"context"
	"fmt"

	"hackreg/internal/registration/models"
	"hackreg/pkg/platform/sentinel"
)

// Store-level facts, sentinel-wrapped so services can translate them into
// user-facing errors. Every write method enforces roll-number and user
// uniqueness atomically with the insert.
var (
	ErrNotFound       = sentinel.ErrNotFound
	ErrDuplicateUser  = fmt.Errorf("identity already holds a registration: %w", sentinel.ErrAlreadyUsed)
	ErrRollNumberUsed = fmt.Errorf("roll number already registered: %w", sentinel.ErrAlreadyUsed)
	ErrTeamNameTaken  = fmt.Errorf("team name already originated: %w", sentinel.ErrAlreadyUsed)
	ErrTeamNotFound   = fmt.Errorf("team: %w", sentinel.ErrNotFound)
	ErrTeamFull       = fmt.Errorf("no seats remaining: %w", sentinel.ErrConflict)
)

// RegistrationStore is the single source of truth for registrations.
//
// The three create methods are atomic with respect to concurrent invocations:
// two concurrent JoinTeam calls cannot both claim a team's last seat, and two
// concurrent writes with the same roll number or user ID cannot both commit.
// On failure nothing is written.
type RegistrationStore interface {
	// CreateSolo inserts a solo registration.
	CreateSolo(ctx context.Context, reg *models.Registration) error

	// CreateTeam originates a team and inserts its first member. Fails with
	// ErrTeamNameTaken when the name already exists, whatever its size.
	CreateTeam(ctx context.Context, reg *models.Registration) error

	// JoinTeam claims one seat on an existing team and inserts the member.
	// The row's TeamSize is overwritten with the team's declared size. The
	// returned flag reports whether this join consumed the team's last seat;
	// it comes from the same atomic claim, so concurrent joins that fill a
	// team see it raised exactly once.
	JoinTeam(ctx context.Context, reg *models.Registration) (filled bool, err error)

	FindByUserID(ctx context.Context, userID string) (*models.Registration, error)
	FindByRollNumber(ctx context.Context, roll models.RollNumber) (*models.Registration, error)

	// ListAll returns every registration in insertion order.
	ListAll(ctx context.Context) ([]*models.Registration, error)

	// ListOpenTeams returns teams with seats remaining, sorted by name.
	ListOpenTeams(ctx context.Context) ([]models.TeamAvailability, error)
}
