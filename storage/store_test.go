package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"convive/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testSession(id, date, group string) domain.Session {
	return domain.Session{
		ID:          id,
		Date:        date,
		Facilitator: "Ana",
		Group:       group,
		CreatedAt:   time.Now().UTC(),
	}
}

func testEvaluation(id, sessionID string, phase domain.Phase) domain.SessionEvaluation {
	return domain.SessionEvaluation{
		ID:                id,
		SessionID:         sessionID,
		Phase:             phase,
		Grouping:          domain.GroupingPartial,
		Respect:           domain.LevelHigh,
		Participation:     domain.ParticipationHigh,
		MixedInteractions: 3,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestSessionCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	sess := testSession("s1", "2024-01-15", "G1")
	require.NoError(t, store.AddSession(ctx, sess))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", got.Date)
	assert.Equal(t, "G1", got.Group)
	assert.Equal(t, "Ana", got.Facilitator)

	newGroup := "G2"
	newNotes := "moved rooms"
	err = store.UpdateSession(ctx, "s1", domain.SessionPatch{Group: &newGroup, Notes: &newNotes})
	require.NoError(t, err)

	got, err = store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "G2", got.Group)
	assert.Equal(t, "moved rooms", got.Notes)
	assert.Equal(t, "2024-01-15", got.Date, "unpatched fields stay untouched")

	require.NoError(t, store.DeleteSession(ctx, "s1"))

	_, err = store.GetSession(ctx, "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAddSessionRejectsBadInput(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.AddSession(ctx, testSession("", "2024-01-15", "G1"))
	assert.Error(t, err, "missing id")

	err = store.AddSession(ctx, testSession("s1", "15/01/2024", "G1"))
	assert.Error(t, err, "date must be YYYY-MM-DD")
}

func TestUpdateSessionNotFound(t *testing.T) {
	store := setupTestStore(t)

	date := "2024-02-01"
	err := store.UpdateSession(context.Background(), "missing", domain.SessionPatch{Date: &date})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteSessionCascadesToEvaluations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("s1", "2024-01-15", "G1")))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e1", "s1", domain.PhaseInitial)))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e2", "s1", domain.PhaseFollowup)))

	require.NoError(t, store.DeleteSession(ctx, "s1"))

	evals, err := store.ListEvaluations(ctx)
	require.NoError(t, err)
	assert.Empty(t, evals, "deleting a session must remove its evaluations")
}

func TestAddEvaluationRejectsOrphans(t *testing.T) {
	store := setupTestStore(t)

	err := store.AddEvaluation(context.Background(), testEvaluation("e1", "no-such-session", domain.PhaseInitial))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAddEvaluationValidatesVocabulary(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("s1", "2024-01-15", "G1")))

	eval := testEvaluation("e1", "s1", domain.Phase("final_impact"))
	assert.Error(t, store.AddEvaluation(ctx, eval), "final_impact is not a session phase")

	eval = testEvaluation("e1", "s1", domain.PhaseInitial)
	eval.Respect = domain.Level("enormous")
	assert.Error(t, store.AddEvaluation(ctx, eval))

	eval = testEvaluation("e1", "s1", domain.PhaseInitial)
	eval.MixedInteractions = -1
	assert.Error(t, store.AddEvaluation(ctx, eval))
}

func TestUpdateEvaluationPartial(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("s1", "2024-01-15", "G1")))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e1", "s1", domain.PhaseInitial)))

	respect := domain.LevelMedium
	mixed := 7
	err := store.UpdateEvaluation(ctx, "e1", domain.EvaluationPatch{
		Respect:           &respect,
		MixedInteractions: &mixed,
	})
	require.NoError(t, err)

	got, err := store.GetEvaluation(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.LevelMedium, got.Respect)
	assert.Equal(t, 7, got.MixedInteractions)
	assert.Equal(t, domain.PhaseInitial, got.Phase, "unpatched fields stay untouched")
	assert.Equal(t, domain.GroupingPartial, got.Grouping)
}

func TestUpdateEvaluationRejectsBadValues(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("s1", "2024-01-15", "G1")))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e1", "s1", domain.PhaseInitial)))

	bad := domain.Level("huge")
	err := store.UpdateEvaluation(ctx, "e1", domain.EvaluationPatch{Tensions: &bad})
	assert.Error(t, err)

	negative := -3
	err = store.UpdateEvaluation(ctx, "e1", domain.EvaluationPatch{MixedInteractions: &negative})
	assert.Error(t, err)
}

func TestListSessionEvaluations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSession(ctx, testSession("s1", "2024-01-15", "G1")))
	require.NoError(t, store.AddSession(ctx, testSession("s2", "2024-01-16", "G2")))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e1", "s1", domain.PhaseInitial)))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e2", "s2", domain.PhaseInitial)))
	require.NoError(t, store.AddEvaluation(ctx, testEvaluation("e3", "s1", domain.PhaseFollowup)))

	evals, err := store.ListSessionEvaluations(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, evals, 2)
	for _, e := range evals {
		assert.Equal(t, "s1", e.SessionID)
	}
}

func TestProgramEvaluations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	latest, err := store.LatestProgramEvaluation(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "no record yet means nil, not an error")

	older := domain.ProgramEvaluation{
		ID:            "p1",
		Phase:         domain.PhaseFinalImpact,
		GroupingAfter: domain.GroupingPartial,
		CreatedAt:     time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := domain.ProgramEvaluation{
		ID:                     "p2",
		Phase:                  domain.PhaseFinalImpact,
		GroupingAfter:          domain.GroupingMixed,
		MixedInteractionsAfter: 12,
		CreatedAt:              time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.AddProgramEvaluation(ctx, older))
	require.NoError(t, store.AddProgramEvaluation(ctx, newer))

	latest, err = store.LatestProgramEvaluation(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "p2", latest.ID)
	assert.Equal(t, domain.DefaultProgramID, latest.ProgramID, "programId defaults when unset")

	all, err := store.ListProgramEvaluations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAddProgramEvaluationRejectsSessionPhase(t *testing.T) {
	store := setupTestStore(t)

	err := store.AddProgramEvaluation(context.Background(), domain.ProgramEvaluation{
		ID:    "p1",
		Phase: domain.PhaseInitial,
	})
	assert.Error(t, err)
}

func TestGroupCatalogIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddGroup(ctx, "G1"))
	require.NoError(t, store.AddGroup(ctx, "G1"))
	require.NoError(t, store.AddGroup(ctx, "G2"))

	groups, err := store.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "G1", groups[0].Name)
	assert.Equal(t, "G2", groups[1].Name)
}
