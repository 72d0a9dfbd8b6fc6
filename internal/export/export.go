// Package export renders aggregator snapshots into the downstream roster
// formats: quoted CSV, a tab-separated Excel variant, and a team-grouped JSON
// document. Formatting is pure; every export reflects exactly one snapshot.
package export

import (
	"fmt"
	"strings"
	"time"

	"hackreg/internal/registration/models"
	"hackreg/internal/stats"
)

var csvHeader = []string{
	"Name", "Roll Number", "Phone", "College", "Year",
	"Team Name", "Team Size", "Experience", "Registered At",
}

// CSV renders one quoted line per participant: team members first, grouped
// by team in name order, then solo participants.
func CSV(st *stats.Stats) string {
	var b strings.Builder
	writeQuotedRow(&b, csvHeader)
	forEachRow(st, func(m stats.Member, teamName string, teamSize int, _ int) {
		writeQuotedRow(&b, []string{
			m.Name,
			m.RollNumber,
			m.Phone,
			m.College,
			string(m.Year),
			teamName,
			fmt.Sprintf("%d", teamSize),
			string(m.Experience),
			m.RegisteredAt.UTC().Format(time.RFC3339),
		})
	})
	return strings.TrimSuffix(b.String(), "\n")
}

// Excel renders the CSV column set plus a Team Status column, tab-separated
// for direct paste into spreadsheets.
func Excel(st *stats.Stats) string {
	var b strings.Builder
	b.WriteString(strings.Join(append(append([]string{}, csvHeader...), "Team Status"), "\t"))
	b.WriteByte('\n')
	forEachRow(st, func(m stats.Member, teamName string, teamSize, memberCount int) {
		status := "Individual"
		if memberCount > 0 {
			status = fmt.Sprintf("%d/%d members", memberCount, teamSize)
		}
		b.WriteString(strings.Join([]string{
			m.Name,
			m.RollNumber,
			m.Phone,
			m.College,
			string(m.Year),
			teamName,
			fmt.Sprintf("%d", teamSize),
			string(m.Experience),
			m.RegisteredAt.UTC().Format(time.RFC3339),
			status,
		}, "\t"))
		b.WriteByte('\n')
	})
	return strings.TrimSuffix(b.String(), "\n")
}

// forEachRow visits team members first (teams already sorted by name in the
// snapshot), then solo participants. memberCount is 0 for solo rows.
func forEachRow(st *stats.Stats, fn func(m stats.Member, teamName string, teamSize, memberCount int)) {
	for _, team := range st.Teams {
		for _, m := range team.Members {
			fn(m, team.TeamName, team.TeamSize, team.CurrentMembers)
		}
	}
	for _, m := range st.SoloParticipants {
		fn(m, "Individual", 1, 0)
	}
}

func writeQuotedRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// TeamsExport is the JSON roster grouped by team.
type TeamsExport struct {
	ExportDate string       `json:"exportDate"`
	Summary    Summary      `json:"summary"`
	Teams      []TeamExport `json:"teams"`
}

type Summary struct {
	TotalRegistrations     int `json:"totalRegistrations"`
	TotalTeams             int `json:"totalTeams"`
	IndividualParticipants int `json:"individualParticipants"`
	TeamParticipants       int `json:"teamParticipants"`
}

type TeamExport struct {
	TeamName       string         `json:"teamName"`
	TeamSize       int            `json:"teamSize"`
	CurrentMembers int            `json:"currentMembers"`
	IsComplete     bool           `json:"isComplete"`
	Members        []MemberExport `json:"members"`
	Statistics     TeamStatistics `json:"statistics"`
}

type MemberExport struct {
	Name       string            `json:"name"`
	RollNumber string            `json:"rollNumber"`
	Year       models.Year       `json:"year"`
	Experience models.Experience `json:"experience"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
}

type TeamStatistics struct {
	ExperienceBreakdown map[models.Experience]int `json:"experienceBreakdown"`
	YearBreakdown       map[models.Year]int       `json:"yearBreakdown"`
	RegistrationDate    string                    `json:"registrationDate"`
}

// TeamsJSON builds the team-grouped export. Breakdown maps carry every
// enumeration value, zero-filled, so consumers get a stable shape.
func TeamsJSON(st *stats.Stats, now time.Time) TeamsExport {
	out := TeamsExport{
		ExportDate: now.UTC().Format(time.RFC3339),
		Summary: Summary{
			TotalRegistrations:     st.TotalRegistrations,
			TotalTeams:             st.TotalTeams,
			IndividualParticipants: st.TotalSoloParticipants,
			TeamParticipants:       st.TotalRegistrations - st.TotalSoloParticipants,
		},
		Teams: make([]TeamExport, 0, len(st.Teams)),
	}

	for _, team := range st.Teams {
		te := TeamExport{
			TeamName:       team.TeamName,
			TeamSize:       team.TeamSize,
			CurrentMembers: team.CurrentMembers,
			IsComplete:     team.CurrentMembers == team.TeamSize,
			Members:        make([]MemberExport, 0, len(team.Members)),
			Statistics: TeamStatistics{
				ExperienceBreakdown: zeroExperience(),
				YearBreakdown:       zeroYears(),
			},
		}
		for _, m := range team.Members {
			te.Members = append(te.Members, MemberExport{
				Name:       m.Name,
				RollNumber: m.RollNumber,
				Year:       m.Year,
				Experience: m.Experience,
				Email:      m.Email,
				Phone:      m.Phone,
			})
			te.Statistics.ExperienceBreakdown[m.Experience]++
			te.Statistics.YearBreakdown[m.Year]++
		}
		if len(team.Members) > 0 {
			// Members are sorted by registration time, so the first one
			// carries the team's origination date.
			te.Statistics.RegistrationDate = team.Members[0].RegisteredAt.UTC().Format(time.RFC3339)
		}
		out.Teams = append(out.Teams, te)
	}
	return out
}

// IndividualsExport lists solo participants only, for outreach that targets
// unteamed registrants.
type IndividualsExport struct {
	ExportDate  string             `json:"exportDate"`
	Count       int                `json:"count"`
	Individuals []IndividualExport `json:"individuals"`
}

type IndividualExport struct {
	Name             string            `json:"name"`
	RollNumber       string            `json:"rollNumber"`
	Phone            string            `json:"phone"`
	College          string            `json:"college"`
	Year             models.Year       `json:"year"`
	Experience       models.Experience `json:"experience"`
	Email            string            `json:"email"`
	RegistrationDate string            `json:"registrationDate"`
}

// IndividualsJSON builds the solo-participant export.
func IndividualsJSON(st *stats.Stats, now time.Time) IndividualsExport {
	out := IndividualsExport{
		ExportDate:  now.UTC().Format(time.RFC3339),
		Count:       len(st.SoloParticipants),
		Individuals: make([]IndividualExport, 0, len(st.SoloParticipants)),
	}
	for _, m := range st.SoloParticipants {
		out.Individuals = append(out.Individuals, IndividualExport{
			Name:             m.Name,
			RollNumber:       m.RollNumber,
			Phone:            m.Phone,
			College:          m.College,
			Year:             m.Year,
			Experience:       m.Experience,
			Email:            m.Email,
			RegistrationDate: m.RegisteredAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ContactsExport is the per-team contact sheet for organizer communication.
type ContactsExport struct {
	ExportDate string               `json:"exportDate"`
	Teams      []TeamContactsExport `json:"teams"`
}

type TeamContactsExport struct {
	TeamName    string          `json:"teamName"`
	TeamSize    int             `json:"teamSize"`
	MemberCount int             `json:"memberCount"`
	Contacts    []ContactExport `json:"contacts"`
	// TeamEmail is the creator's address; members are sorted by registration
	// time so the first entry is the creator.
	TeamEmail string `json:"teamEmail"`
}

type ContactExport struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
	Year  models.Year `json:"year"`
}

// ContactsJSON builds the team contact export.
func ContactsJSON(st *stats.Stats, now time.Time) ContactsExport {
	out := ContactsExport{
		ExportDate: now.UTC().Format(time.RFC3339),
		Teams:      make([]TeamContactsExport, 0, len(st.Teams)),
	}
	for _, team := range st.Teams {
		tc := TeamContactsExport{
			TeamName:    team.TeamName,
			TeamSize:    team.TeamSize,
			MemberCount: team.CurrentMembers,
			Contacts:    make([]ContactExport, 0, len(team.Members)),
		}
		for _, m := range team.Members {
			tc.Contacts = append(tc.Contacts, ContactExport{
				Name:  m.Name,
				Email: m.Email,
				Phone: m.Phone,
				Year:  m.Year,
			})
		}
		if len(team.Members) > 0 {
			tc.TeamEmail = team.Members[0].Email
		}
		out.Teams = append(out.Teams, tc)
	}
	return out
}

func zeroExperience() map[models.Experience]int {
	m := make(map[models.Experience]int, len(models.Experiences))
	for _, e := range models.Experiences {
		m[e] = 0
	}
	return m
}

func zeroYears() map[models.Year]int {
	m := make(map[models.Year]int, len(models.Years))
	for _, y := range models.Years {
		m[y] = 0
	}
	return m
}
