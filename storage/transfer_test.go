package storage

import (
	"context"
	"testing"
	"time"

	"convive/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotEmptyStore(t *testing.T) {
	store := setupTestStore(t)

	doc, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	// Arrays are initialized so exports always carry the full shape
	assert.NotNil(t, doc.Sessions)
	assert.NotNil(t, doc.SessionEvaluations)
	assert.NotNil(t, doc.ProgramEvaluations)
	assert.Empty(t, doc.Sessions)
}

func TestSnapshotReplaceRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("s1", "2024-01-15", "G1")))
	require.NoError(t, store.AddSession(ctx, testSession("s2", "2024-01-20", "G2")))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e1", "s1", domain.PhaseInitial)))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e2", "s1", domain.PhaseFollowup)))
	require.NoError(t, store.AddProgramEvaluation(ctx, domain.ProgramEvaluation{
		ID:        "p1",
		ProgramID: domain.DefaultProgramID,
		Phase:     domain.PhaseFinalImpact,
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.AddGroup(ctx, "G1"))

	doc, err := store.Snapshot(ctx)
	require.NoError(t, err)

	// Import the export into a fresh store and compare snapshots
	other := setupTestStore(t)
	require.NoError(t, other.Replace(ctx, doc))

	restored, err := other.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, restored.Sessions, 2)
	require.Len(t, restored.SessionEvaluations, 2)
	require.Len(t, restored.ProgramEvaluations, 1)
	require.Len(t, restored.Groups, 1)

	assert.Equal(t, doc.Sessions[0].ID, restored.Sessions[0].ID)
	assert.Equal(t, doc.Sessions[0].Date, restored.Sessions[0].Date)
	assert.Equal(t, doc.SessionEvaluations[0].Respect, restored.SessionEvaluations[0].Respect)
	assert.Equal(t, doc.ProgramEvaluations[0].ID, restored.ProgramEvaluations[0].ID)
}

func TestReplaceWipesExistingData(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("old", "2024-01-01", "G1")))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("old-e", "old", domain.PhaseInitial)))

	doc := &domain.Document{
		Sessions:           []domain.Session{testSession("new", "2024-02-01", "G9")},
		SessionEvaluations: []domain.SessionEvaluation{},
		ProgramEvaluations: []domain.ProgramEvaluation{},
	}
	require.NoError(t, store.Replace(ctx, doc))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "new", sessions[0].ID)

	evals, err := store.ListEvaluations(ctx)
	require.NoError(t, err)
	assert.Empty(t, evals)
}

func TestReplaceRejectsInvalidDocumentAtomically(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("keep", "2024-01-01", "G1")))

	bad := &domain.Document{
		Sessions: []domain.Session{testSession("s1", "2024-02-01", "G1")},
		SessionEvaluations: []domain.SessionEvaluation{
			{ID: "e1", SessionID: "s1", Phase: domain.Phase("bogus")},
		},
		ProgramEvaluations: []domain.ProgramEvaluation{},
	}
	err := store.Replace(ctx, bad)
	require.Error(t, err)

	// The rejected import must leave existing data untouched
	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "keep", sessions[0].ID)
}

func TestReplaceRejectsMissingArrays(t *testing.T) {
	store := setupTestStore(t)

	err := store.Replace(context.Background(), &domain.Document{
		Sessions: []domain.Session{},
	})
	assert.Error(t, err)

	err = store.Replace(context.Background(), nil)
	assert.Error(t, err)
}
