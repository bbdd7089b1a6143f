// Package analytics computes derived statistics over session evaluation
// records. Every function is a pure view over the collections it receives:
// inputs are never mutated, nothing is cached, and degenerate inputs
// (empty sets, zero denominators) produce zeros rather than NaN or errors
// so a report over an empty dataset always renders.
package analytics

import (
	"math"

	"convive/domain"
)

// FilterAll is the wildcard accepted by group and phase filters
const FilterAll = "all"

// Stats is the descriptive summary over a filtered evaluation set
type Stats struct {
	Total               int                     `json:"total"`
	InitialCount        int                     `json:"initialCount"`
	FollowupCount       int                     `json:"followupCount"`
	InitialMean         float64                 `json:"initialMean"`
	FollowupMean        float64                 `json:"followupMean"`
	ImprovementPct      float64                 `json:"improvementPct"`
	AvgParticipation    float64                 `json:"avgParticipation"`
	HighRespectRate     float64                 `json:"highRespectRate"`
	GroupingCounts      map[domain.Grouping]int `json:"groupingCounts"`
	TensionCounts       map[domain.Level]int    `json:"tensionCounts"`
	CommunicationCounts map[domain.Level]int    `json:"communicationCounts"`
}

// GroupStats compares evaluation means for one participant group
type GroupStats struct {
	Group        string  `json:"group"`
	InitialMean  float64 `json:"initialMean"`
	FollowupMean float64 `json:"followupMean"`
	Count        int     `json:"count"`
}

// TimelineBucket counts evaluations recorded on one calendar day
type TimelineBucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// FilterEvaluations returns the evaluations whose parent session matches
// group and whose own phase matches phase. "all" (or empty) matches
// everything. Evaluations referencing a missing session are skipped; use
// CountOrphans to surface how many were dropped.
func FilterEvaluations(sessions []domain.Session, evals []domain.SessionEvaluation, group, phase string) []domain.SessionEvaluation {
	groupByID := make(map[string]string, len(sessions))
	for _, s := range sessions {
		groupByID[s.ID] = s.Group
	}

	matchGroup := group == "" || group == FilterAll
	matchPhase := phase == "" || phase == FilterAll

	result := make([]domain.SessionEvaluation, 0, len(evals))
	for _, e := range evals {
		g, ok := groupByID[e.SessionID]
		if !ok {
			continue // orphan
		}
		if !matchGroup && g != group {
			continue
		}
		if !matchPhase && string(e.Phase) != phase {
			continue
		}
		result = append(result, e)
	}
	return result
}

// CountOrphans counts evaluations whose sessionId references no session.
// Orphans can only arise from partial imports; they are excluded from all
// aggregates and the count is reported so the gap is visible.
func CountOrphans(sessions []domain.Session, evals []domain.SessionEvaluation) int {
	ids := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		ids[s.ID] = struct{}{}
	}

	orphans := 0
	for _, e := range evals {
		if _, ok := ids[e.SessionID]; !ok {
			orphans++
		}
	}
	return orphans
}

// ComputeStats summarizes an evaluation set. Phases other than initial and
// followup are counted in Total but excluded from the per-phase figures.
func ComputeStats(evals []domain.SessionEvaluation) Stats {
	stats := Stats{
		Total:               len(evals),
		GroupingCounts:      make(map[domain.Grouping]int),
		TensionCounts:       make(map[domain.Level]int),
		CommunicationCounts: make(map[domain.Level]int),
	}

	var initialSum, followupSum float64
	var participationSum float64
	var participationCount int
	var respectSet, respectHigh int

	for _, e := range evals {
		switch e.Phase {
		case domain.PhaseInitial:
			stats.InitialCount++
			initialSum += float64(e.MixedInteractions)
		case domain.PhaseFollowup:
			stats.FollowupCount++
			followupSum += float64(e.MixedInteractions)

			if e.Participation.IsSet() {
				participationSum += e.Participation.Midpoint()
				participationCount++
			}
			if e.Respect.IsSet() {
				respectSet++
				if e.Respect == domain.LevelHigh {
					respectHigh++
				}
			}
		}

		if e.Grouping.IsSet() {
			stats.GroupingCounts[e.Grouping]++
		}
		if e.Tensions.IsSet() {
			stats.TensionCounts[e.Tensions]++
		}
		if e.Communication.IsSet() {
			stats.CommunicationCounts[e.Communication]++
		}
	}

	if stats.InitialCount > 0 {
		stats.InitialMean = initialSum / float64(stats.InitialCount)
	}
	if stats.FollowupCount > 0 {
		stats.FollowupMean = followupSum / float64(stats.FollowupCount)
	}
	if stats.InitialMean > 0 {
		stats.ImprovementPct = (stats.FollowupMean - stats.InitialMean) / stats.InitialMean * 100
	}
	if participationCount > 0 {
		stats.AvgParticipation = math.Round(participationSum / float64(participationCount))
	}
	if respectSet > 0 {
		stats.HighRespectRate = float64(respectHigh) / float64(respectSet) * 100
	}

	return stats
}

// GroupComparison produces one row per distinct group value present in
// sessions, in first-appearance order. Groups with no evaluations in a
// phase report a mean of 0 for that phase, never NaN.
func GroupComparison(sessions []domain.Session, evals []domain.SessionEvaluation) []GroupStats {
	type accum struct {
		initialSum    float64
		initialCount  int
		followupSum   float64
		followupCount int
		total         int
	}

	groupByID := make(map[string]string, len(sessions))
	accums := make(map[string]*accum)
	var order []string

	for _, s := range sessions {
		groupByID[s.ID] = s.Group
		if _, seen := accums[s.Group]; !seen {
			accums[s.Group] = &accum{}
			order = append(order, s.Group)
		}
	}

	for _, e := range evals {
		g, ok := groupByID[e.SessionID]
		if !ok {
			continue // orphan
		}
		a := accums[g]
		a.total++
		switch e.Phase {
		case domain.PhaseInitial:
			a.initialSum += float64(e.MixedInteractions)
			a.initialCount++
		case domain.PhaseFollowup:
			a.followupSum += float64(e.MixedInteractions)
			a.followupCount++
		}
	}

	result := make([]GroupStats, 0, len(order))
	for _, g := range order {
		a := accums[g]
		row := GroupStats{Group: g, Count: a.total}
		if a.initialCount > 0 {
			row.InitialMean = a.initialSum / float64(a.initialCount)
		}
		if a.followupCount > 0 {
			row.FollowupMean = a.followupSum / float64(a.followupCount)
		}
		result = append(result, row)
	}
	return result
}

// Timeline buckets evaluations by the calendar day they were recorded.
// Buckets appear in order of first occurrence, not sorted by label.
func Timeline(evals []domain.SessionEvaluation) []TimelineBucket {
	index := make(map[string]int)
	var buckets []TimelineBucket

	for _, e := range evals {
		day := e.CreatedAt.Format("Jan 2")
		if i, ok := index[day]; ok {
			buckets[i].Count++
			continue
		}
		index[day] = len(buckets)
		buckets = append(buckets, TimelineBucket{Day: day, Count: 1})
	}
	return buckets
}
