// Package quality scans sessions and their evaluations for missing,
// stale, or out-of-order data. Checks run fresh on every call over the
// snapshot they are handed; nothing is cached and the input collections
// are never mutated, so identical inputs always yield identical reports.
package quality

import (
	"fmt"
	"sort"
	"time"

	"convive/domain"
)

// Config holds the quality thresholds. Both values are configuration,
// not constants: they come from settings.json or flags.
type Config struct {
	StaleAfter      time.Duration // max evaluation silence for a past session
	ImpactDueMonths int           // calendar months until a final-impact record is due
}

// DefaultConfig returns the standard thresholds: stale after 7 days
// without evaluations, impact evaluation due 3 months after the first
// session.
func DefaultConfig() Config {
	return Config{
		StaleAfter:      7 * 24 * time.Hour,
		ImpactDueMonths: 3,
	}
}

// Diagnostic records an input value that was excluded from date
// comparisons because it could not be parsed. Exclusion keeps bad data
// from crashing a report; the diagnostic keeps it from being invisible.
type Diagnostic struct {
	SessionID string `json:"sessionId"`
	Field     string `json:"field"`
	Value     string `json:"value"`
	Message   string `json:"message"`
}

// Report is the result of a quality check
type Report struct {
	Issues      []domain.QualityIssue `json:"issues"`
	Diagnostics []Diagnostic          `json:"diagnostics,omitempty"`
}

// Check scans every session (in the order provided) and the program as a
// whole, and returns the ordered issue list. Sessions with unparseable
// dates are excluded from staleness and due-date comparisons and reported
// in Diagnostics instead.
func Check(sessions []domain.Session, evals []domain.SessionEvaluation, programEvals []domain.ProgramEvaluation, now time.Time, cfg Config) Report {
	var report Report

	evalsBySession := make(map[string][]domain.SessionEvaluation)
	for _, e := range evals {
		evalsBySession[e.SessionID] = append(evalsBySession[e.SessionID], e)
	}
	for _, list := range evalsBySession {
		sort.Slice(list, func(i, j int) bool {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}

	for _, sess := range sessions {
		sessEvals := evalsBySession[sess.ID]

		var earliestInitial, earliestFollowup *domain.SessionEvaluation
		for i := range sessEvals {
			e := &sessEvals[i]
			switch e.Phase {
			case domain.PhaseInitial:
				if earliestInitial == nil {
					earliestInitial = e
				}
			case domain.PhaseFollowup:
				if earliestFollowup == nil {
					earliestFollowup = e
				}
			}
		}

		if earliestInitial == nil {
			report.Issues = append(report.Issues, issue(sess, domain.IssueMissingBaseline,
				"no baseline (initial) evaluation recorded"))
		}

		sessDate, dateErr := domain.ParseDate(sess.Date)
		if dateErr != nil {
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				SessionID: sess.ID,
				Field:     "date",
				Value:     sess.Date,
				Message:   "unparseable session date, excluded from staleness check",
			})
		} else if sessDate.Before(now) {
			// A past session with no evaluations is infinitely stale
			stale := len(sessEvals) == 0
			if !stale {
				newest := sessEvals[len(sessEvals)-1]
				stale = now.Sub(newest.CreatedAt) > cfg.StaleAfter
			}
			if stale {
				report.Issues = append(report.Issues, issue(sess, domain.IssueStaleSession,
					fmt.Sprintf("no evaluation activity in the last %d days", int(cfg.StaleAfter.Hours()/24))))
			}
		}

		if earliestInitial != nil && earliestFollowup != nil &&
			earliestInitial.CreatedAt.After(earliestFollowup.CreatedAt) {
			report.Issues = append(report.Issues, issue(sess, domain.IssueOutOfOrder,
				"initial evaluation was recorded after the first follow-up"))
		}
	}

	report.Issues = append(report.Issues, checkImpact(sessions, programEvals, now, cfg)...)

	return report
}

// checkImpact runs the program-level missing_impact check: the program is
// expected to close with a final-impact evaluation within ImpactDueMonths
// of the earliest session. Skipped entirely when no session has a
// parseable date.
func checkImpact(sessions []domain.Session, programEvals []domain.ProgramEvaluation, now time.Time, cfg Config) []domain.QualityIssue {
	if len(sessions) == 0 {
		return nil
	}

	for _, pe := range programEvals {
		if pe.Phase == domain.PhaseFinalImpact {
			return nil
		}
	}

	var first *domain.Session
	var firstDate time.Time
	for i := range sessions {
		d, err := domain.ParseDate(sessions[i].Date)
		if err != nil {
			// Already surfaced as a diagnostic by the per-session loop
			continue
		}
		if first == nil || d.Before(firstDate) {
			first = &sessions[i]
			firstDate = d
		}
	}
	if first == nil {
		return nil
	}

	expected := firstDate.AddDate(0, cfg.ImpactDueMonths, 0)
	if !now.After(expected) {
		return nil
	}

	return []domain.QualityIssue{{
		SessionID:   domain.ProgramSessionID,
		SessionDate: first.Date,
		Kind:        domain.IssueMissingImpact,
		Message: fmt.Sprintf("no final-impact evaluation recorded %d months after the first session (%s)",
			cfg.ImpactDueMonths, first.Date),
	}}
}

func issue(sess domain.Session, kind domain.IssueKind, message string) domain.QualityIssue {
	return domain.QualityIssue{
		SessionID:    sess.ID,
		SessionDate:  sess.Date,
		SessionGroup: sess.Group,
		Kind:         kind,
		Message:      message,
	}
}
