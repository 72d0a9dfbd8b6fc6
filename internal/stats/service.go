// Package stats is the read-only projection over the registration store:
// per-team rosters, solo lists, year breakdowns and attendance counts. It is
// a pure function of the registration set and deterministic for a given
// snapshot.
package stats

import (
	"context"
	"sort"
	"time"

	"hackreg/internal/registration/models"
	dErrors "hackreg/pkg/domain-errors"
)

// Reader is the slice of the registration store the aggregator needs.
type Reader interface {
	ListAll(ctx context.Context) ([]*models.Registration, error)
}

// Member is one participant inside a roster, with the derived institutional
// email recomputed on read.
type Member struct {
	Name         string            `json:"name"`
	RollNumber   string            `json:"rollNumber"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	College      string            `json:"college"`
	Year         models.Year       `json:"year"`
	Experience   models.Experience `json:"experience"`
	RegisteredAt time.Time         `json:"registeredAt"`
	Attended     bool              `json:"attended"`
}

// TeamStats is one team's roster plus capacity facts.
type TeamStats struct {
	TeamName       string   `json:"teamName"`
	TeamSize       int      `json:"teamSize"`
	CurrentMembers int      `json:"currentMembers"`
	Members        []Member `json:"members"`
}

// Stats is the full aggregate view consumed by the admin surface and exports.
type Stats struct {
	TotalRegistrations    int                 `json:"totalRegistrations"`
	TotalTeams            int                 `json:"totalTeams"`
	TotalSoloParticipants int                 `json:"totalSoloParticipants"`
	AttendedCount         int                 `json:"attendedCount"`
	NotAttendedCount      int                 `json:"notAttendedCount"`
	YearBreakdown         map[models.Year]int `json:"yearBreakdown"`
	Teams                 []TeamStats         `json:"teams"`
	SoloParticipants      []Member            `json:"soloParticipants"`
}

// Service computes aggregate statistics.
type Service struct {
	store  Reader
	domain string
}

func New(store Reader, domain string) *Service {
	return &Service{store: store, domain: domain}
}

// Compute scans the current registration set. Teams are sorted
// lexicographically by name and members by registration time then roll
// number, so two calls over an unchanged store yield identical output.
func (s *Service) Compute(ctx context.Context) (*Stats, error) {
	regs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "statistics unavailable")
	}

	out := &Stats{
		YearBreakdown: make(map[models.Year]int),
	}

	teamsByName := make(map[string][]*models.Registration)
	var solo []*models.Registration

	for _, reg := range regs {
		out.TotalRegistrations++
		out.YearBreakdown[reg.Year]++
		if reg.Attended {
			out.AttendedCount++
		}
		if reg.Solo() {
			solo = append(solo, reg)
		} else {
			teamsByName[reg.TeamName] = append(teamsByName[reg.TeamName], reg)
		}
	}
	out.NotAttendedCount = out.TotalRegistrations - out.AttendedCount
	out.TotalTeams = len(teamsByName)
	out.TotalSoloParticipants = len(solo)

	names := make([]string, 0, len(teamsByName))
	for name := range teamsByName {
		names = append(names, name)
	}
	sort.Strings(names)

	out.Teams = make([]TeamStats, 0, len(names))
	for _, name := range names {
		members := teamsByName[name]
		sortMembers(members)
		out.Teams = append(out.Teams, TeamStats{
			TeamName: name,
			// Consistent across rows by invariant, so the first member's
			// value is the team's.
			TeamSize:       members[0].TeamSize,
			CurrentMembers: len(members),
			Members:        s.toMembers(members),
		})
	}

	sortMembers(solo)
	out.SoloParticipants = s.toMembers(solo)

	return out, nil
}

func sortMembers(regs []*models.Registration) {
	sort.Slice(regs, func(i, j int) bool {
		if !regs[i].RegisteredAt.Equal(regs[j].RegisteredAt) {
			return regs[i].RegisteredAt.Before(regs[j].RegisteredAt)
		}
		return regs[i].RollNumber < regs[j].RollNumber
	})
}

func (s *Service) toMembers(regs []*models.Registration) []Member {
	members := make([]Member, 0, len(regs))
	for _, reg := range regs {
		members = append(members, Member{
			Name:         reg.Name,
			RollNumber:   reg.RollNumber.String(),
			Email:        reg.RollNumber.Email(s.domain),
			Phone:        reg.Phone,
			College:      reg.College,
			Year:         reg.Year,
			Experience:   reg.Experience,
			RegisteredAt: reg.RegisteredAt,
			Attended:     reg.Attended,
		})
	}
	return members
}
