package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hackreg/internal/registration/models"
)

// Postgres persists registrations in PostgreSQL. The team is a first-class
// row with a seat counter: claiming a seat is a single guarded UPDATE, so the
// row lock serializes concurrent joins on the same team and the
// member_count <= team_size invariant can never be overflowed. Roll-number
// and user uniqueness are unique constraints; a violation aborts the
// transaction, leaving no partial state.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	name         TEXT PRIMARY KEY,
	team_size    INT  NOT NULL CHECK (team_size BETWEEN 2 AND 4),
	member_count INT  NOT NULL DEFAULT 0 CHECK (member_count >= 0 AND member_count <= team_size)
);

CREATE TABLE IF NOT EXISTS registrations (
	id            UUID        PRIMARY KEY,
	user_id       TEXT        NOT NULL,
	name          TEXT        NOT NULL,
	phone         TEXT        NOT NULL,
	college       TEXT        NOT NULL,
	year          TEXT        NOT NULL,
	experience    TEXT        NOT NULL,
	roll_number   TEXT        NOT NULL,
	team_name     TEXT        REFERENCES teams(name),
	team_size     INT         NOT NULL,
	attended      BOOLEAN     NOT NULL DEFAULT FALSE,
	registered_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT registrations_user_id_key     UNIQUE (user_id),
	CONSTRAINT registrations_roll_number_key UNIQUE (roll_number)
);
`

// EnsureSchema creates the tables when they do not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) CreateSolo(ctx context.Context, reg *models.Registration) error {
	r := *reg
	r.TeamName = ""
	r.TeamSize = 1
	if err := s.insertRegistration(ctx, s.db, &r); err != nil {
		return err
	}
	*reg = r
	return nil
}

func (s *Postgres) CreateTeam(ctx context.Context, reg *models.Registration) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO teams (name, team_size, member_count) VALUES ($1, $2, 1)`,
			reg.TeamName, reg.TeamSize,
		)
		if err != nil {
			return mapUniqueViolation(err)
		}
		return s.insertRegistration(ctx, tx, reg)
	})
}

func (s *Postgres) JoinTeam(ctx context.Context, reg *models.Registration) (bool, error) {
	var filled bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		// The guarded UPDATE both claims the seat and locks the team row for
		// the rest of the transaction.
		var teamSize, memberCount int
		err := tx.QueryRowContext(ctx,
			`UPDATE teams SET member_count = member_count + 1
			  WHERE name = $1 AND member_count < team_size
			  RETURNING team_size, member_count`,
			reg.TeamName,
		).Scan(&teamSize, &memberCount)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM teams WHERE name = $1)`,
				reg.TeamName,
			).Scan(&exists); err != nil {
				return fmt.Errorf("check team existence: %w", err)
			}
			if !exists {
				return ErrTeamNotFound
			}
			return ErrTeamFull
		}
		if err != nil {
			return fmt.Errorf("claim seat: %w", err)
		}

		reg.TeamSize = teamSize
		filled = memberCount == teamSize
		return s.insertRegistration(ctx, tx, reg)
	})
	if err != nil {
		return false, err
	}
	return filled, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Postgres) insertRegistration(ctx context.Context, db execer, reg *models.Registration) error {
	var teamName any
	if reg.TeamName != "" {
		teamName = reg.TeamName
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO registrations
			(id, user_id, name, phone, college, year, experience, roll_number, team_name, team_size, attended, registered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		reg.ID, reg.UserID, reg.Name, reg.Phone, reg.College,
		string(reg.Year), string(reg.Experience), reg.RollNumber.String(),
		teamName, reg.TeamSize, reg.Attended, reg.RegisteredAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (s *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// mapUniqueViolation translates pq unique-constraint violations (23505) into
// store facts by constraint name.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "registrations_user_id_key":
			return ErrDuplicateUser
		case "registrations_roll_number_key":
			return ErrRollNumberUsed
		case "teams_pkey":
			return ErrTeamNameTaken
		}
	}
	return fmt.Errorf("insert: %w", err)
}

const selectColumns = `id, user_id, name, phone, college, year, experience, roll_number, COALESCE(team_name, ''), team_size, attended, registered_at`

func (s *Postgres) FindByUserID(ctx context.Context, userID string) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM registrations WHERE user_id = $1`, userID)
	return scanRegistration(row)
}

func (s *Postgres) FindByRollNumber(ctx context.Context, roll models.RollNumber) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM registrations WHERE roll_number = $1`, roll.String())
	return scanRegistration(row)
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM registrations ORDER BY registered_at, roll_number`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func (s *Postgres) ListOpenTeams(ctx context.Context) ([]models.TeamAvailability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, team_size, member_count FROM teams
		  WHERE member_count < team_size ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list open teams: %w", err)
	}
	defer rows.Close()

	var out []models.TeamAvailability
	for rows.Next() {
		var t models.TeamAvailability
		if err := rows.Scan(&t.TeamName, &t.TeamSize, &t.MemberCount); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row scanner) (*models.Registration, error) {
	var (
		reg        models.Registration
		year       string
		experience string
		roll       string
	)
	err := row.Scan(&reg.ID, &reg.UserID, &reg.Name, &reg.Phone, &reg.College,
		&year, &experience, &roll, &reg.TeamName, &reg.TeamSize,
		&reg.Attended, &reg.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	reg.Year = models.Year(year)
	reg.Experience = models.Experience(experience)
	reg.RollNumber = models.RollNumber(roll)
	return &reg, nil
}
