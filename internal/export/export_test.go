package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackreg/internal/registration/models"
	"hackreg/internal/stats"
)

var exportTime = time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

func member(name, roll string) stats.Member {
	return stats.Member{
		Name:         name,
		RollNumber:   roll,
		Email:        strings.ToLower(roll) + "@psgtech.ac.in",
		Phone:        "9876543210",
		College:      "PSG Tech",
		Year:         models.YearSecond,
		Experience:   models.ExperienceBeginner,
		RegisteredAt: exportTime,
	}
}

func snapshot() *stats.Stats {
	return &stats.Stats{
		TotalRegistrations:    3,
		TotalTeams:            1,
		TotalSoloParticipants: 1,
		NotAttendedCount:      3,
		YearBreakdown:         map[models.Year]int{models.YearSecond: 3},
		Teams: []stats.TeamStats{
			{
				TeamName:       "Hex Clan",
				TeamSize:       3,
				CurrentMembers: 2,
				Members:        []stats.Member{member("Priya", "23N001"), member("Arun", "23N002")},
			},
		},
		SoloParticipants: []stats.Member{member("Divya", "23N010")},
	}
}

func TestCSV(t *testing.T) {
	out := CSV(snapshot())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t,
		`"Name","Roll Number","Phone","College","Year","Team Name","Team Size","Experience","Registered At"`,
		lines[0])

	// Team members come first, then solo rows rendered as Individual.
	assert.Equal(t,
		`"Priya","23N001","9876543210","PSG Tech","2nd","Hex Clan","3","beginner","2026-02-14T09:00:00Z"`,
		lines[1])
	assert.Contains(t, lines[2], `"Arun"`)
	assert.Equal(t,
		`"Divya","23N010","9876543210","PSG Tech","2nd","Individual","1","beginner","2026-02-14T09:00:00Z"`,
		lines[3])
}

func TestCSVEscapesQuotes(t *testing.T) {
	st := snapshot()
	st.SoloParticipants[0].Name = `Divya "DJ" R`

	out := CSV(st)
	assert.Contains(t, out, `"Divya ""DJ"" R"`)
}

func TestExcel(t *testing.T) {
	out := Excel(snapshot())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	header := strings.Split(lines[0], "\t")
	require.Len(t, header, 10)
	assert.Equal(t, "Team Status", header[9])

	teamRow := strings.Split(lines[1], "\t")
	assert.Equal(t, "2/3 members", teamRow[9])

	soloRow := strings.Split(lines[3], "\t")
	assert.Equal(t, "Individual", soloRow[9])
}

func TestTeamsJSON(t *testing.T) {
	out := TeamsJSON(snapshot(), exportTime)

	t.Run("summary", func(t *testing.T) {
		assert.Equal(t, "2026-02-14T09:00:00Z", out.ExportDate)
		assert.Equal(t, 3, out.Summary.TotalRegistrations)
		assert.Equal(t, 1, out.Summary.TotalTeams)
		assert.Equal(t, 1, out.Summary.IndividualParticipants)
		assert.Equal(t, 2, out.Summary.TeamParticipants)
	})

	t.Run("team entry", func(t *testing.T) {
		require.Len(t, out.Teams, 1)
		team := out.Teams[0]
		assert.Equal(t, "Hex Clan", team.TeamName)
		assert.False(t, team.IsComplete)
		require.Len(t, team.Members, 2)
		assert.Equal(t, "23n001@psgtech.ac.in", team.Members[0].Email)
		assert.Equal(t, "2026-02-14T09:00:00Z", team.Statistics.RegistrationDate)
	})

	t.Run("breakdown maps are zero-filled over every enum value", func(t *testing.T) {
		st := out.Teams[0].Statistics
		require.Len(t, st.ExperienceBreakdown, len(models.Experiences))
		require.Len(t, st.YearBreakdown, len(models.Years))
		assert.Equal(t, 2, st.ExperienceBreakdown[models.ExperienceBeginner])
		assert.Equal(t, 0, st.ExperienceBreakdown[models.ExperienceExpert])
		assert.Equal(t, 2, st.YearBreakdown[models.YearSecond])
		assert.Equal(t, 0, st.YearBreakdown[models.YearFourth])
	})

	t.Run("complete team is flagged", func(t *testing.T) {
		st := snapshot()
		st.Teams[0].CurrentMembers = 3
		st.Teams[0].Members = append(st.Teams[0].Members, member("Kiran", "23N003"))
		full := TeamsJSON(st, exportTime)
		assert.True(t, full.Teams[0].IsComplete)
	})
}

func TestIndividualsJSON(t *testing.T) {
	out := IndividualsJSON(snapshot(), exportTime)

	assert.Equal(t, "2026-02-14T09:00:00Z", out.ExportDate)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Individuals, 1)

	solo := out.Individuals[0]
	assert.Equal(t, "Divya", solo.Name)
	assert.Equal(t, "23N010", solo.RollNumber)
	assert.Equal(t, "23n010@psgtech.ac.in", solo.Email)
	assert.Equal(t, "2026-02-14T09:00:00Z", solo.RegistrationDate)

	t.Run("team members are excluded", func(t *testing.T) {
		for _, ind := range out.Individuals {
			assert.NotEqual(t, "Priya", ind.Name)
			assert.NotEqual(t, "Arun", ind.Name)
		}
	})

	t.Run("empty snapshot yields an empty list, not null", func(t *testing.T) {
		empty := IndividualsJSON(&stats.Stats{}, exportTime)
		assert.Equal(t, 0, empty.Count)
		assert.NotNil(t, empty.Individuals)
	})
}

func TestContactsJSON(t *testing.T) {
	out := ContactsJSON(snapshot(), exportTime)

	assert.Equal(t, "2026-02-14T09:00:00Z", out.ExportDate)
	require.Len(t, out.Teams, 1)

	team := out.Teams[0]
	assert.Equal(t, "Hex Clan", team.TeamName)
	assert.Equal(t, 3, team.TeamSize)
	assert.Equal(t, 2, team.MemberCount)
	require.Len(t, team.Contacts, 2)
	assert.Equal(t, "Priya", team.Contacts[0].Name)
	assert.Equal(t, "23n001@psgtech.ac.in", team.Contacts[0].Email)
	assert.Equal(t, "9876543210", team.Contacts[0].Phone)

	// The creator registered first, so their address is the team's.
	assert.Equal(t, "23n001@psgtech.ac.in", team.TeamEmail)

	t.Run("solo participants are excluded", func(t *testing.T) {
		for _, tc := range out.Teams {
			for _, c := range tc.Contacts {
				assert.NotEqual(t, "Divya", c.Name)
			}
		}
	})
}
