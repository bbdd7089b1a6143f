package storage

import (
	"time"
)

// Session represents a training session row
type Session struct {
	ID          string `gorm:"primaryKey"`
	Date        string `gorm:"not null;index:idx_session_date"` // calendar date, YYYY-MM-DD
	Facilitator string `gorm:"not null;default:''"`
	GroupName   string `gorm:"column:group_name;not null;default:'';index:idx_session_group"`
	Notes       string `gorm:"default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SessionEvaluation represents a per-session observation row.
// The table is created by hand in NewStore so the session_id foreign key
// cascades deletes (AutoMigrate has issues with foreign keys in SQLite).
type SessionEvaluation struct {
	ID                string `gorm:"primaryKey"`
	SessionID         string `gorm:"column:session_id;not null;index:idx_eval_session"`
	Phase             string `gorm:"not null;check:phase IN ('initial','followup')"`
	Grouping          string `gorm:"not null;default:''"`
	Discomfort        string `gorm:"not null;default:''"`
	Tensions          string `gorm:"not null;default:''"`
	Communication     string `gorm:"not null;default:''"`
	Participation     string `gorm:"not null;default:''"`
	Respect           string `gorm:"not null;default:''"`
	Openness          string `gorm:"not null;default:''"`
	Laughter          string `gorm:"not null;default:''"`
	MixedInteractions int    `gorm:"not null;default:0"`
	MixedObserved     string `gorm:"not null;default:''"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProgramEvaluation represents a program-wide final-impact row
type ProgramEvaluation struct {
	ID                        string `gorm:"primaryKey"`
	ProgramID                 string `gorm:"not null;default:'default';index:idx_program"`
	Phase                     string `gorm:"not null;check:phase IN ('final_impact')"`
	GroupingAfter             string `gorm:"not null;default:''"`
	MixedInteractionsAfter    int    `gorm:"not null;default:0"`
	ProductsCompleted         int    `gorm:"not null;default:0"`
	ParticipantRepresentation int    `gorm:"not null;default:0"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Group represents a participant group available for data entry
type Group struct {
	Name      string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
