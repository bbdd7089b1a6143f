package domain

import "fmt"

// Document is the full-dataset wire format used by import and export.
// All three record arrays must be present for a document to be accepted;
// groups are optional for compatibility with older exports.
type Document struct {
	Sessions           []Session           `json:"sessions"`
	SessionEvaluations []SessionEvaluation `json:"sessionEvaluations"`
	ProgramEvaluations []ProgramEvaluation `json:"programEvaluations"`
	Groups             []Group             `json:"groups,omitempty"`
}

// Validate checks the import contract: required arrays present, every
// record carrying its identity fields and a phase from the allowed set.
// A single bad record rejects the whole document; imports are atomic.
func (d *Document) Validate() error {
	if d.Sessions == nil || d.SessionEvaluations == nil || d.ProgramEvaluations == nil {
		return fmt.Errorf("document must contain sessions, sessionEvaluations and programEvaluations arrays")
	}

	sessionIDs := make(map[string]struct{}, len(d.Sessions))
	for i, s := range d.Sessions {
		if s.ID == "" {
			return fmt.Errorf("sessions[%d]: missing id", i)
		}
		if _, dup := sessionIDs[s.ID]; dup {
			return fmt.Errorf("sessions[%d]: duplicate id %q", i, s.ID)
		}
		sessionIDs[s.ID] = struct{}{}
	}

	evalIDs := make(map[string]struct{}, len(d.SessionEvaluations))
	for i, e := range d.SessionEvaluations {
		if e.ID == "" {
			return fmt.Errorf("sessionEvaluations[%d]: missing id", i)
		}
		if _, dup := evalIDs[e.ID]; dup {
			return fmt.Errorf("sessionEvaluations[%d]: duplicate id %q", i, e.ID)
		}
		evalIDs[e.ID] = struct{}{}
		if e.SessionID == "" {
			return fmt.Errorf("sessionEvaluations[%d]: missing sessionId", i)
		}
		if !e.Phase.ValidForSession() {
			return fmt.Errorf("sessionEvaluations[%d]: invalid phase %q", i, e.Phase)
		}
	}

	for i, p := range d.ProgramEvaluations {
		if p.ID == "" {
			return fmt.Errorf("programEvaluations[%d]: missing id", i)
		}
		if !p.Phase.ValidForProgram() {
			return fmt.Errorf("programEvaluations[%d]: invalid phase %q", i, p.Phase)
		}
	}

	return nil
}
