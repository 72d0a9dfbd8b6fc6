package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "hackreg/pkg/domain-errors"
)

// Year is the participant's year of study.
type Year string

const (
	YearFirst  Year = "1st"
	YearSecond Year = "2nd"
	YearThird  Year = "3rd"
	YearFourth Year = "4th"
)

// Years lists the enumeration in display order.
var Years = []Year{YearFirst, YearSecond, YearThird, YearFourth}

func (y Year) Valid() bool {
	switch y {
	case YearFirst, YearSecond, YearThird, YearFourth:
		return true
	}
	return false
}

// Experience is the participant's self-declared skill level.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
	ExperienceExpert       Experience = "expert"
)

// Experiences lists the enumeration in display order.
var Experiences = []Experience{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceExpert}

func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceExpert:
		return true
	}
	return false
}

var rollNumberPattern = regexp.MustCompile(`^\d{2}[A-Z]\d{3}$`)

// RollNumber is the normalized (trimmed, upcased) institutional roll number.
// It is globally unique across registrations.
type RollNumber string

// ParseRollNumber normalizes raw input and validates it against the
// institutional pattern.
func ParseRollNumber(raw string) (RollNumber, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !rollNumberPattern.MatchString(normalized) {
		return "", dErrors.WithKind(dErrors.CodeBadRequest, "invalid_roll_number",
			"roll number must match the pattern 23N256")
	}
	return RollNumber(normalized), nil
}

func (r RollNumber) String() string { return string(r) }

// Email derives the canonical institutional address. It is recomputed on
// read and never persisted.
func (r RollNumber) Email(domain string) string {
	return strings.ToLower(string(r)) + "@" + domain
}

// Team capacity bounds.
const (
	MinTeamSize = 2
	MaxTeamSize = 4
)

// Registration is one participant's committed entry, solo or as a team
// member. Rows are created exactly once by the coordinator and never mutated
// by it; Attended is flipped by a separate check-in process.
type Registration struct {
	ID           string
	UserID       string
	Name         string
	Phone        string
	College      string
	Year         Year
	Experience   Experience
	RollNumber   RollNumber
	TeamName     string // empty for solo participants
	TeamSize     int    // 1 for solo; identical across a team's rows
	RegisteredAt time.Time
	Attended     bool
}

// Solo reports whether the row is a solo entry.
func (r *Registration) Solo() bool { return r.TeamName == "" }

// TeamAvailability is one open team as seen by prospective joiners.
type TeamAvailability struct {
	TeamName    string `json:"teamName"`
	TeamSize    int    `json:"teamSize"`
	MemberCount int    `json:"memberCount"`
}

// Open reports whether a seat remains.
func (t TeamAvailability) Open() bool { return t.MemberCount < t.TeamSize }
