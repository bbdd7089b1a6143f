package domain

import "time"

// DefaultProgramID is the single-program placeholder identifier
const DefaultProgramID = "default"

// ProgramEvaluation is a program-wide final-impact summary record,
// independent of any single session. "Latest" is max(createdAt).
type ProgramEvaluation struct {
	ID                        string    `json:"id"`
	ProgramID                 string    `json:"programId"`
	Phase                     Phase     `json:"phase"` // always final_impact
	GroupingAfter             Grouping  `json:"groupingAfter,omitempty"`
	MixedInteractionsAfter    int       `json:"mixedInteractionsAfter"`
	ProductsCompleted         int       `json:"productsCompleted"`
	ParticipantRepresentation int       `json:"participantRepresentation"`
	CreatedAt                 time.Time `json:"createdAt"`
}
