package application

import (
	"context"
	"path/filepath"
	"testing"

	"convive/domain"
	"convive/quality"
	"convive/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewEmptyDataset(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reports := NewReportService(store, quality.DefaultConfig())
	report, err := reports.Overview(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "all", report.Filter.Group)
	assert.Equal(t, "all", report.Filter.Phase)
	assert.Equal(t, 0, report.Stats.Total)
	assert.Empty(t, report.Groups)
	assert.Empty(t, report.Quality.Issues)
	assert.Nil(t, report.LatestImpact)
}

func TestOverviewAssemblesAllViews(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	sessions := NewSessionService(store)
	sess, err := sessions.CreateSession(ctx, CreateSessionParams{Date: "2024-01-15", Group: "G1"})
	require.NoError(t, err)

	_, err = sessions.CreateEvaluation(ctx, CreateEvaluationParams{
		SessionID:         sess.ID,
		Phase:             domain.PhaseInitial,
		MixedInteractions: 2,
	})
	require.NoError(t, err)
	_, err = sessions.CreateEvaluation(ctx, CreateEvaluationParams{
		SessionID:         sess.ID,
		Phase:             domain.PhaseFollowup,
		Participation:     domain.ParticipationFull,
		MixedInteractions: 6,
	})
	require.NoError(t, err)

	impact, err := sessions.CreateProgramEvaluation(ctx, CreateProgramEvaluationParams{
		GroupingAfter:          domain.GroupingMixed,
		MixedInteractionsAfter: 10,
	})
	require.NoError(t, err)

	reports := NewReportService(store, quality.DefaultConfig())
	report, err := reports.Overview(ctx, "G1", "all")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.Total)
	assert.Equal(t, 2.0, report.Stats.InitialMean)
	assert.Equal(t, 6.0, report.Stats.FollowupMean)
	assert.Equal(t, 200.0, report.Stats.ImprovementPct)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, "G1", report.Groups[0].Group)
	assert.NotEmpty(t, report.Timeline)
	assert.Equal(t, 0, report.Orphans)
	require.NotNil(t, report.LatestImpact)
	assert.Equal(t, impact.ID, report.LatestImpact.ID)
	assert.InDelta(t, 1.0, report.Trend.R2, 1e-9, "two distinct points always fit exactly")
}

func TestOverviewGroupFilterExcludesOtherGroups(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	sessions := NewSessionService(store)
	s1, err := sessions.CreateSession(ctx, CreateSessionParams{Date: "2024-01-15", Group: "G1"})
	require.NoError(t, err)
	s2, err := sessions.CreateSession(ctx, CreateSessionParams{Date: "2024-01-16", Group: "G2"})
	require.NoError(t, err)

	for _, id := range []string{s1.ID, s2.ID} {
		_, err = sessions.CreateEvaluation(ctx, CreateEvaluationParams{
			SessionID: id,
			Phase:     domain.PhaseInitial,
		})
		require.NoError(t, err)
	}

	reports := NewReportService(store, quality.DefaultConfig())
	report, err := reports.Overview(ctx, "G2", "all")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.Total)
	assert.Len(t, report.Groups, 2, "group comparison always spans every group")
}
