package application

import (
	"context"
	"time"

	"convive/analytics"
	"convive/domain"
	"convive/logging"
	"convive/ports"
	"convive/quality"

	"golang.org/x/sync/errgroup"
)

// ReportService assembles overview reports from the aggregator and the
// quality checker. The derived views themselves are pure; only the
// collection loads touch the store.
type ReportService struct {
	store      ports.DataStore
	qualityCfg quality.Config
}

// NewReportService creates a new ReportService
func NewReportService(store ports.DataStore, qualityCfg quality.Config) *ReportService {
	return &ReportService{store: store, qualityCfg: qualityCfg}
}

// Overview loads the collections and computes every report view over the
// requested group/phase subset. Group and phase accept "all" (or empty)
// as a wildcard. Degenerate datasets produce a zeroed report, never an
// error.
func (r *ReportService) Overview(ctx context.Context, group, phase string) (*OverviewReport, error) {
	started := time.Now()

	var sessions []domain.Session
	var evals []domain.SessionEvaluation
	var programEvals []domain.ProgramEvaluation

	// The three loads are independent; fetch them concurrently
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = r.store.ListSessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		evals, err = r.store.ListEvaluations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		programEvals, err = r.store.ListProgramEvaluations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logging.Logger.Error("Failed to load report collections", "error", err)
		return nil, err
	}

	filtered := analytics.FilterEvaluations(sessions, evals, group, phase)

	// Mixed-interaction counts in record order drive the trend and
	// outlier views
	series := make([]float64, len(filtered))
	for i, e := range filtered {
		series[i] = float64(e.MixedInteractions)
	}

	report := &OverviewReport{
		Filter:   ReportFilter{Group: normalizeFilter(group), Phase: normalizeFilter(phase)},
		Stats:    analytics.ComputeStats(filtered),
		Groups:   analytics.GroupComparison(sessions, evals),
		Timeline: analytics.Timeline(filtered),
		Trend:    analytics.LinearTrend(series),
		Outliers: analytics.DetectOutliers(series),
		Quality:  quality.Check(sessions, evals, programEvals, time.Now().UTC(), r.qualityCfg),
		Orphans:  analytics.CountOrphans(sessions, evals),
	}

	latest, err := r.store.LatestProgramEvaluation(ctx)
	if err != nil {
		logging.Logger.Warn("Failed to load latest program evaluation", "error", err)
	} else {
		report.LatestImpact = latest
	}

	logging.Logger.Debug("Overview computed",
		"group", report.Filter.Group,
		"phase", report.Filter.Phase,
		"sessions", len(sessions),
		"evaluations", len(evals),
		"filtered", len(filtered),
		"issues", len(report.Quality.Issues),
		"duration", time.Since(started))

	return report, nil
}

func normalizeFilter(v string) string {
	if v == "" {
		return analytics.FilterAll
	}
	return v
}
