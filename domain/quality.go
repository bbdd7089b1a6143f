package domain

// IssueKind classifies a data-quality issue
type IssueKind string

const (
	IssueMissingBaseline IssueKind = "missing_baseline"
	IssueMissingImpact   IssueKind = "missing_impact"
	IssueOutOfOrder      IssueKind = "out_of_order"
	IssueStaleSession    IssueKind = "stale_session"
)

// ProgramSessionID is the sentinel session id carried by program-level
// issues. It never references a real session; callers must not look it up.
const ProgramSessionID = "PROGRAM"

// QualityIssue is a derived warning about missing, stale, or out-of-order
// evaluation data. Issues are recomputed on demand and never persisted.
type QualityIssue struct {
	SessionID    string    `json:"sessionId"`
	SessionDate  string    `json:"sessionDate"`
	SessionGroup string    `json:"sessionGroup"`
	Kind         IssueKind `json:"issue"`
	Message      string    `json:"message"`
}
