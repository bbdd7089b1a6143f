package domain

import "time"

// Session represents a single scheduled implementation of the program
// with a facilitator and participant group (domain entity)
type Session struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // calendar date, YYYY-MM-DD, no time component
	Facilitator string    `json:"facilitator"`
	Group       string    `json:"group"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionPatch carries a partial update for a session. Nil fields are
// left untouched. ID and CreatedAt are immutable and cannot be patched.
type SessionPatch struct {
	Date        *string
	Facilitator *string
	Group       *string
	Notes       *string
}

// Group is a named participant group available for data entry
type Group struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
