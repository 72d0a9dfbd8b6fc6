package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackreg/internal/registration/models"
)

type staticReader []*models.Registration

func (r staticReader) ListAll(context.Context) ([]*models.Registration, error) {
	out := make([]*models.Registration, len(r))
	copy(out, r)
	return out, nil
}

var baseTime = time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

func reg(roll, team string, size int, year models.Year, offset time.Duration) *models.Registration {
	return &models.Registration{
		ID:           "id-" + roll,
		UserID:       "user-" + roll,
		Name:         "Participant " + roll,
		Phone:        "9876543210",
		College:      "PSG Tech",
		Year:         year,
		Experience:   models.ExperienceBeginner,
		RollNumber:   models.RollNumber(roll),
		TeamName:     team,
		TeamSize:     size,
		RegisteredAt: baseTime.Add(offset),
	}
}

func TestCompute(t *testing.T) {
	store := staticReader{
		reg("23N003", "Zeta", 3, models.YearThird, 2*time.Minute),
		reg("23N001", "Alpha", 2, models.YearSecond, 0),
		reg("23N002", "Alpha", 2, models.YearSecond, time.Minute),
		reg("23N010", "", 1, models.YearFirst, 3*time.Minute),
	}
	svc := New(store, "psgtech.ac.in")

	st, err := svc.Compute(context.Background())
	require.NoError(t, err)

	t.Run("totals", func(t *testing.T) {
		assert.Equal(t, 4, st.TotalRegistrations)
		assert.Equal(t, 2, st.TotalTeams)
		assert.Equal(t, 1, st.TotalSoloParticipants)
		assert.Equal(t, 0, st.AttendedCount)
		assert.Equal(t, 4, st.NotAttendedCount)
	})

	t.Run("year breakdown counts every row", func(t *testing.T) {
		assert.Equal(t, map[models.Year]int{
			models.YearFirst:  1,
			models.YearSecond: 2,
			models.YearThird:  1,
		}, st.YearBreakdown)
	})

	t.Run("teams sorted by name, members by registration time", func(t *testing.T) {
		require.Len(t, st.Teams, 2)
		assert.Equal(t, "Alpha", st.Teams[0].TeamName)
		assert.Equal(t, "Zeta", st.Teams[1].TeamName)

		alpha := st.Teams[0]
		assert.Equal(t, 2, alpha.TeamSize)
		assert.Equal(t, 2, alpha.CurrentMembers)
		require.Len(t, alpha.Members, 2)
		assert.Equal(t, "23N001", alpha.Members[0].RollNumber)
		assert.Equal(t, "23N002", alpha.Members[1].RollNumber)
	})

	t.Run("email derived from roll number", func(t *testing.T) {
		require.Len(t, st.SoloParticipants, 1)
		assert.Equal(t, "23n010@psgtech.ac.in", st.SoloParticipants[0].Email)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		again, err := svc.Compute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, st, again)
	})
}

func TestComputeAttendance(t *testing.T) {
	attended := reg("23N001", "", 1, models.YearFirst, 0)
	attended.Attended = true
	store := staticReader{
		attended,
		reg("23N002", "", 1, models.YearFirst, time.Minute),
	}

	st, err := New(store, "psgtech.ac.in").Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.AttendedCount)
	assert.Equal(t, 1, st.NotAttendedCount)
}

func TestComputeEmpty(t *testing.T) {
	st, err := New(staticReader{}, "psgtech.ac.in").Compute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.TotalRegistrations)
	assert.Empty(t, st.Teams)
	assert.Empty(t, st.SoloParticipants)
	assert.NotNil(t, st.YearBreakdown)
}

func TestMembersTieBreakOnRollNumber(t *testing.T) {
	store := staticReader{
		reg("23N002", "Alpha", 2, models.YearFirst, 0),
		reg("23N001", "Alpha", 2, models.YearFirst, 0),
	}

	st, err := New(store, "psgtech.ac.in").Compute(context.Background())
	require.NoError(t, err)
	require.Len(t, st.Teams, 1)
	assert.Equal(t, "23N001", st.Teams[0].Members[0].RollNumber)
	assert.Equal(t, "23N002", st.Teams[0].Members[1].RollNumber)
}
