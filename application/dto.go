package application

import (
	"convive/analytics"
	"convive/domain"
	"convive/quality"
)

// CreateSessionParams contains parameters for creating a new session
type CreateSessionParams struct {
	Date        string
	Facilitator string
	Group       string
	Notes       string
}

// CreateEvaluationParams contains parameters for creating a session
// evaluation
type CreateEvaluationParams struct {
	SessionID         string
	Phase             domain.Phase
	Grouping          domain.Grouping
	Discomfort        domain.Level
	Tensions          domain.Level
	Communication     domain.Level
	Participation     domain.Participation
	Respect           domain.Level
	Openness          domain.Level
	Laughter          domain.Level
	MixedInteractions int
	MixedObserved     string
}

// CreateProgramEvaluationParams contains parameters for creating a
// program-wide final-impact record
type CreateProgramEvaluationParams struct {
	GroupingAfter             domain.Grouping
	MixedInteractionsAfter    int
	ProductsCompleted         int
	ParticipantRepresentation int
}

// ReportFilter names the subset an overview report was computed over
type ReportFilter struct {
	Group string `json:"group"`
	Phase string `json:"phase"`
}

// OverviewReport bundles everything the report renderers consume
type OverviewReport struct {
	Filter       ReportFilter               `json:"filter"`
	Stats        analytics.Stats            `json:"stats"`
	Groups       []analytics.GroupStats     `json:"groups"`
	Timeline     []analytics.TimelineBucket `json:"timeline"`
	Trend        analytics.Trend            `json:"trend"`
	Outliers     []analytics.Outlier        `json:"outliers,omitempty"`
	Quality      quality.Report             `json:"quality"`
	Orphans      int                        `json:"orphans"`
	LatestImpact *domain.ProgramEvaluation  `json:"latestImpact,omitempty"`
}

// ImportResult reports the outcome of a dataset import. Validation
// failures come back as Success=false with a message, never as an error:
// a bad file is an expected user mistake, not a fault.
type ImportResult struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	Sessions           int    `json:"sessions,omitempty"`
	SessionEvaluations int    `json:"sessionEvaluations,omitempty"`
	ProgramEvaluations int    `json:"programEvaluations,omitempty"`
}
