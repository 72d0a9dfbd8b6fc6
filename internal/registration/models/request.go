package models

import (
	"fmt"
	"strings"

	dErrors "hackreg/pkg/domain-errors"
)

// Mode selects how the registrant enters the event.
type Mode string

const (
	ModeSolo   Mode = "solo"
	ModeCreate Mode = "create"
	ModeJoin   Mode = "join"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeSolo, ModeCreate, ModeJoin:
		return true
	}
	return false
}

// RegisterRequest is the registration intent as submitted by the caller. The
// caller identity is implicit and supplied separately by the transport.
type RegisterRequest struct {
	Name       string     `json:"name"`
	RollNumber string     `json:"rollNumber"`
	Phone      string     `json:"phone"`
	College    string     `json:"college"`
	Year       Year       `json:"year"`
	Experience Experience `json:"experience"`
	Mode       Mode       `json:"mode"`
	TeamName   string     `json:"teamName,omitempty"`
	TeamSize   int        `json:"teamSize,omitempty"`
}

// ValidateFields checks the scalar fields shared by every mode. Mode-specific
// rules (team name, team size) belong to the coordinator. First violation
// wins.
func (r *RegisterRequest) ValidateFields() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalidField("name is required")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return invalidField("phone is required")
	}
	if strings.TrimSpace(r.College) == "" {
		return invalidField("college is required")
	}
	if !r.Year.Valid() {
		return invalidField(fmt.Sprintf("year must be one of %v", Years))
	}
	if !r.Experience.Valid() {
		return invalidField(fmt.Sprintf("experience must be one of %v", Experiences))
	}
	if !r.Mode.Valid() {
		return invalidField("mode must be solo, create or join")
	}
	return nil
}

func invalidField(msg string) error {
	return dErrors.WithKind(dErrors.CodeBadRequest, "invalid_field", msg)
}
