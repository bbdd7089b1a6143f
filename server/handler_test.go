package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"convive/application"
	"convive/domain"
	"convive/quality"
	"convive/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandler(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sessions := application.NewSessionService(store)
	reports := application.NewReportService(store, quality.DefaultConfig())
	transfer := application.NewTransferService(store)

	return newHandler(store, sessions, reports, transfer).routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createTestSession(t *testing.T, h http.Handler) domain.Session {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/data/sessions", map[string]string{
		"date":        "2024-01-15",
		"group":       "G1",
		"facilitator": "Ana",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sess domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.ID)
	return sess
}

func TestSessionEndpoints(t *testing.T) {
	h := setupTestHandler(t)

	sess := createTestSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/data/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, sess.ID, list[0].ID)

	rec = doJSON(t, h, http.MethodPatch, "/api/data/sessions/"+sess.ID, map[string]string{
		"group": "G2",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/data/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "G2", got.Group)
	assert.Equal(t, "2024-01-15", got.Date)

	rec = doJSON(t, h, http.MethodDelete, "/api/data/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/data/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSessionRejectsBadDate(t *testing.T) {
	h := setupTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/data/sessions", map[string]string{
		"date": "January 15th",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluationEndpoints(t *testing.T) {
	h := setupTestHandler(t)

	sess := createTestSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/data/evaluations", map[string]interface{}{
		"sessionId":         sess.ID,
		"phase":             "initial",
		"respect":           "high",
		"mixedInteractions": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var eval domain.SessionEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	require.NotEmpty(t, eval.ID)

	rec = doJSON(t, h, http.MethodGet, "/api/data/evaluations?sessionId="+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.SessionEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, h, http.MethodPut, "/api/data/evaluations/"+eval.ID, map[string]interface{}{
		"mixedInteractions": 9,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodDelete, "/api/data/evaluations/"+eval.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateEvaluationForMissingSessionIs404(t *testing.T) {
	h := setupTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/data/evaluations", map[string]interface{}{
		"sessionId": "ghost",
		"phase":     "initial",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	h := setupTestHandler(t)

	sess := createTestSession(t, h)
	rec := doJSON(t, h, http.MethodPost, "/api/data/evaluations", map[string]interface{}{
		"sessionId":         sess.ID,
		"phase":             "followup",
		"participation":     "100",
		"mixedInteractions": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/data/report?group=G1&phase=followup", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report application.OverviewReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "G1", report.Filter.Group)
	assert.Equal(t, "followup", report.Filter.Phase)
	assert.Equal(t, 1, report.Stats.Total)
	assert.Equal(t, 100.0, report.Stats.AvgParticipation)
	assert.NotEmpty(t, report.Quality.Issues, "fresh session has no baseline evaluation")
}

func TestExportImportEndpoints(t *testing.T) {
	h := setupTestHandler(t)

	sess := createTestSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Sessions, 1)
	assert.Equal(t, sess.ID, doc.Sessions[0].ID)

	// Re-import the export verbatim
	rec = doJSON(t, h, http.MethodPost, "/api/data", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result application.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Sessions)
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	h := setupTestHandler(t)

	createTestSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/data", map[string]interface{}{
		"sessions":           []map[string]string{{"id": ""}},
		"sessionEvaluations": []interface{}{},
		"programEvaluations": []interface{}{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var result application.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	// Existing data survives the rejected import
	rec = doJSON(t, h, http.MethodGet, "/api/data/sessions", nil)
	var list []domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestGroupEndpoints(t *testing.T) {
	h := setupTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/data/groups", map[string]string{"name": "G1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/data/groups", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/data/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []domain.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "G1", groups[0].Name)
}

func TestProgramEvaluationEndpoints(t *testing.T) {
	h := setupTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/data/program-evaluations", map[string]interface{}{
		"groupingAfter":             "mixed",
		"mixedInteractionsAfter":    15,
		"productsCompleted":         3,
		"participantRepresentation": 28,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var eval domain.ProgramEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Equal(t, domain.PhaseFinalImpact, eval.Phase)
	assert.Equal(t, domain.DefaultProgramID, eval.ProgramID)

	rec = doJSON(t, h, http.MethodGet, "/api/data/program-evaluations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.ProgramEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}
