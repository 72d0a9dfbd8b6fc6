package audit

import "time"

// Action names the audited operation.
type Action string

const (
	ActionRegistrationCreated Action = "registration_created"
	ActionTeamFilled          Action = "team_filled"
	ActionAdminVerified       Action = "admin_verified"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	UserID     string    `json:"user_id,omitempty"`
	RollNumber string    `json:"roll_number,omitempty"`
	TeamName   string    `json:"team_name,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}
