package domain

import "time"

// Phase identifies the observation moment of an evaluation
type Phase string

const (
	PhaseInitial     Phase = "initial"
	PhaseFollowup    Phase = "followup"
	PhaseFinalImpact Phase = "final_impact"
)

// ValidForSession reports whether the phase is allowed on a session evaluation
func (p Phase) ValidForSession() bool {
	return p == PhaseInitial || p == PhaseFollowup
}

// ValidForProgram reports whether the phase is allowed on a program evaluation
func (p Phase) ValidForProgram() bool {
	return p == PhaseFinalImpact
}

// Grouping describes how mixed the participant seating/clustering was
type Grouping string

const (
	GroupingUnset     Grouping = ""
	GroupingSeparated Grouping = "separated"
	GroupingPartial   Grouping = "partial"
	GroupingMixed     Grouping = "mixed"
)

// IsSet reports whether a value was recorded
func (g Grouping) IsSet() bool { return g != GroupingUnset }

// Valid reports whether the value is in the closed vocabulary (unset allowed)
func (g Grouping) Valid() bool {
	switch g {
	case GroupingUnset, GroupingSeparated, GroupingPartial, GroupingMixed:
		return true
	}
	return false
}

// Level is the low/medium/high scale shared by most observation fields
type Level string

const (
	LevelUnset  Level = ""
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// IsSet reports whether a value was recorded
func (l Level) IsSet() bool { return l != LevelUnset }

// Valid reports whether the value is in the closed vocabulary (unset allowed)
func (l Level) Valid() bool {
	switch l {
	case LevelUnset, LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Participation is the observed participation band
type Participation string

const (
	ParticipationUnset Participation = ""
	ParticipationFull  Participation = "100"
	ParticipationHigh  Participation = "80-99"
	ParticipationMid   Participation = "50-79"
	ParticipationLow   Participation = "<50"
)

// IsSet reports whether a value was recorded
func (p Participation) IsSet() bool { return p != ParticipationUnset }

// Midpoint maps a participation band to its representative numeric score.
// Unknown non-empty values fall through to the lowest bucket.
func (p Participation) Midpoint() float64 {
	switch p {
	case ParticipationFull:
		return 100
	case ParticipationHigh:
		return 90
	case ParticipationMid:
		return 70
	default:
		return 50
	}
}

// SessionEvaluation is a structured observation record tied to one session
type SessionEvaluation struct {
	ID                string        `json:"id"`
	SessionID         string        `json:"sessionId"` // required, immutable
	Phase             Phase         `json:"phase"`
	Grouping          Grouping      `json:"grouping,omitempty"`
	Discomfort        Level         `json:"discomfort,omitempty"` // discomfort/isolation signals
	Tensions          Level         `json:"tensions,omitempty"`
	Communication     Level         `json:"communication,omitempty"`
	Participation     Participation `json:"participation,omitempty"`
	Respect           Level         `json:"respect,omitempty"`
	Openness          Level         `json:"openness,omitempty"`
	Laughter          Level         `json:"laughter,omitempty"`
	MixedInteractions int           `json:"mixedInteractions"` // count of cross-group interactions observed
	MixedObserved     string        `json:"mixedObserved,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// EvaluationPatch carries a partial update for a session evaluation.
// Nil fields are left untouched. ID, SessionID and CreatedAt are immutable.
type EvaluationPatch struct {
	Phase             *Phase
	Grouping          *Grouping
	Discomfort        *Level
	Tensions          *Level
	Communication     *Level
	Participation     *Participation
	Respect           *Level
	Openness          *Level
	Laughter          *Level
	MixedInteractions *int
	MixedObserved     *string
}
