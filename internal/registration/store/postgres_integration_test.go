//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hackreg/internal/registration/models"
	"hackreg/internal/registration/store"
	"hackreg/pkg/platform/sentinel"
	"hackreg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	// Truncate in dependency order
	err := s.postgres.TruncateTables(context.Background(), "registrations", "teams")
	s.Require().NoError(err)
}

func newTestRegistration(roll string) *models.Registration {
	return &models.Registration{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		Name:         "Participant " + roll,
		Phone:        "9876543210",
		College:      "PSG Tech",
		Year:         models.YearSecond,
		Experience:   models.ExperienceBeginner,
		RollNumber:   models.RollNumber(roll),
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestSoloRoundTrip() {
	ctx := context.Background()
	reg := newTestRegistration("23N001")
	s.Require().NoError(s.store.CreateSolo(ctx, reg))
	s.Equal(1, reg.TeamSize)

	found, err := s.store.FindByUserID(ctx, reg.UserID)
	s.Require().NoError(err)
	s.Equal(reg.ID, found.ID)
	s.Equal("23N001", found.RollNumber.String())
	s.Empty(found.TeamName)

	found, err = s.store.FindByRollNumber(ctx, reg.RollNumber)
	s.Require().NoError(err)
	s.Equal(reg.ID, found.ID)

	_, err = s.store.FindByUserID(ctx, uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueConstraints() {
	ctx := context.Background()

	s.Run("duplicate user", func() {
		first := newTestRegistration("23N010")
		s.Require().NoError(s.store.CreateSolo(ctx, first))

		second := newTestRegistration("23N011")
		second.UserID = first.UserID
		s.ErrorIs(s.store.CreateSolo(ctx, second), store.ErrDuplicateUser)
	})

	s.Run("duplicate roll number", func() {
		first := newTestRegistration("23N012")
		s.Require().NoError(s.store.CreateSolo(ctx, first))

		second := newTestRegistration("23N012")
		s.ErrorIs(s.store.CreateSolo(ctx, second), store.ErrRollNumberUsed)
	})

	s.Run("duplicate team name", func() {
		creator := newTestRegistration("23N013")
		creator.TeamName = "Hex Clan"
		creator.TeamSize = 3
		s.Require().NoError(s.store.CreateTeam(ctx, creator))

		rival := newTestRegistration("23N014")
		rival.TeamName = "Hex Clan"
		rival.TeamSize = 2
		s.ErrorIs(s.store.CreateTeam(ctx, rival), store.ErrTeamNameTaken)
	})
}

// TestCreateTeamRollbackOnDuplicateRoll verifies a failed member insert rolls
// back the team row, leaving no orphan team behind.
func (s *PostgresStoreSuite) TestCreateTeamRollbackOnDuplicateRoll() {
	ctx := context.Background()
	solo := newTestRegistration("23N020")
	s.Require().NoError(s.store.CreateSolo(ctx, solo))

	creator := newTestRegistration("23N020")
	creator.TeamName = "Orphans"
	creator.TeamSize = 2
	s.ErrorIs(s.store.CreateTeam(ctx, creator), store.ErrRollNumberUsed)

	open, err := s.store.ListOpenTeams(ctx)
	s.Require().NoError(err)
	s.Empty(open)

	joiner := newTestRegistration("23N021")
	joiner.TeamName = "Orphans"
	_, err = s.store.JoinTeam(ctx, joiner)
	s.ErrorIs(err, store.ErrTeamNotFound)
}

func (s *PostgresStoreSuite) TestJoinTeam() {
	ctx := context.Background()
	creator := newTestRegistration("23N030")
	creator.TeamName = "ByteMe"
	creator.TeamSize = 2
	s.Require().NoError(s.store.CreateTeam(ctx, creator))

	joiner := newTestRegistration("23N031")
	joiner.TeamName = "ByteMe"
	filled, err := s.store.JoinTeam(ctx, joiner)
	s.Require().NoError(err)
	s.Equal(2, joiner.TeamSize)
	s.True(filled, "claiming the last seat reports the fill")

	late := newTestRegistration("23N032")
	late.TeamName = "ByteMe"
	_, err = s.store.JoinTeam(ctx, late)
	s.ErrorIs(err, store.ErrTeamFull)

	ghost := newTestRegistration("23N033")
	ghost.TeamName = "Ghosts"
	_, err = s.store.JoinTeam(ctx, ghost)
	s.ErrorIs(err, store.ErrTeamNotFound)
}

// TestConcurrentLastSeat races many joiners for the final seat. The guarded
// UPDATE must admit exactly one.
func (s *PostgresStoreSuite) TestConcurrentLastSeat() {
	ctx := context.Background()
	creator := newTestRegistration("23N100")
	creator.TeamName = "LastSeat"
	creator.TeamSize = 2
	s.Require().NoError(s.store.CreateTeam(ctx, creator))

	const goroutines = 20
	var wg sync.WaitGroup
	var successCount, fullCount, filledCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			joiner := newTestRegistration(fmt.Sprintf("23N%03d", 101+n))
			joiner.TeamName = "LastSeat"
			filled, err := s.store.JoinTeam(ctx, joiner)
			if err == nil {
				successCount.Add(1)
				if filled {
					filledCount.Add(1)
				}
			} else if errors.Is(err, store.ErrTeamFull) {
				fullCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one join should succeed")
	s.Equal(int32(1), filledCount.Load(), "exactly one join should observe the fill")
	s.Equal(int32(goroutines-1), fullCount.Load())

	all, err := s.store.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

// TestConcurrentFillObservedOnce races joiners for the two open seats of a
// three-member team; the fill must be reported by exactly one winner.
func (s *PostgresStoreSuite) TestConcurrentFillObservedOnce() {
	ctx := context.Background()
	creator := newTestRegistration("23N300")
	creator.TeamName = "TwoSeats"
	creator.TeamSize = 3
	s.Require().NoError(s.store.CreateTeam(ctx, creator))

	const goroutines = 10
	var wg sync.WaitGroup
	var successCount, filledCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			joiner := newTestRegistration(fmt.Sprintf("23N%03d", 301+n))
			joiner.TeamName = "TwoSeats"
			filled, err := s.store.JoinTeam(ctx, joiner)
			if err == nil {
				successCount.Add(1)
				if filled {
					filledCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	s.Equal(int32(2), successCount.Load())
	s.Equal(int32(1), filledCount.Load(), "the fill is observed exactly once")
}

// TestConcurrentRollNumber races solo creates on the same roll number.
func (s *PostgresStoreSuite) TestConcurrentRollNumber() {
	ctx := context.Background()
	const goroutines = 20
	var wg sync.WaitGroup
	var successCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reg := newTestRegistration("23N200")
			if err := s.store.CreateSolo(ctx, reg); err == nil {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()
	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
}

func (s *PostgresStoreSuite) TestListOpenTeams() {
	ctx := context.Background()
	for i, spec := range []struct {
		name string
		size int
	}{
		{"Zeta", 3},
		{"Alpha", 2},
	} {
		creator := newTestRegistration(fmt.Sprintf("23N%03d", 40+i))
		creator.TeamName = spec.name
		creator.TeamSize = spec.size
		s.Require().NoError(s.store.CreateTeam(ctx, creator))
	}

	open, err := s.store.ListOpenTeams(ctx)
	s.Require().NoError(err)
	s.Require().Len(open, 2)
	s.Equal("Alpha", open[0].TeamName)
	s.Equal("Zeta", open[1].TeamName)
	s.Equal(1, open[0].MemberCount)
}
