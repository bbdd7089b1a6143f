package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"convive/application"
	"convive/domain"
	"convive/logging"
	"convive/ports"
)

// handler exposes the data API over JSON. Reads go straight to the
// store; writes go through the services so ids and catalog seeding stay
// consistent with the CLI.
type handler struct {
	store    ports.DataStore
	sessions *application.SessionService
	reports  *application.ReportService
	transfer *application.TransferService
}

func newHandler(store ports.DataStore, sessions *application.SessionService, reports *application.ReportService, transfer *application.TransferService) *handler {
	return &handler{store: store, sessions: sessions, reports: reports, transfer: transfer}
}

// routes builds the API mux. IDs are assigned server-side; clients never
// pick them.
func (h *handler) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/data", h.exportData)
	mux.HandleFunc("POST /api/data", h.importData)
	mux.HandleFunc("GET /api/data/report", h.report)

	mux.HandleFunc("GET /api/data/sessions", h.listSessions)
	mux.HandleFunc("POST /api/data/sessions", h.createSession)
	mux.HandleFunc("GET /api/data/sessions/{id}", h.getSession)
	mux.HandleFunc("PATCH /api/data/sessions/{id}", h.updateSession)
	mux.HandleFunc("DELETE /api/data/sessions/{id}", h.deleteSession)

	mux.HandleFunc("GET /api/data/evaluations", h.listEvaluations)
	mux.HandleFunc("POST /api/data/evaluations", h.createEvaluation)
	mux.HandleFunc("PUT /api/data/evaluations/{id}", h.updateEvaluation)
	mux.HandleFunc("DELETE /api/data/evaluations/{id}", h.deleteEvaluation)

	mux.HandleFunc("GET /api/data/program-evaluations", h.listProgramEvaluations)
	mux.HandleFunc("POST /api/data/program-evaluations", h.createProgramEvaluation)

	mux.HandleFunc("GET /api/data/groups", h.listGroups)
	mux.HandleFunc("POST /api/data/groups", h.createGroup)

	return mux
}

func (h *handler) exportData(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) importData(w http.ResponseWriter, r *http.Request) {
	result, err := h.transfer.ImportJSON(r.Context(), r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	phase := r.URL.Query().Get("phase")

	report, err := h.reports.Overview(r.Context(), group, phase)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date        string `json:"date"`
		Facilitator string `json:"facilitator"`
		Group       string `json:"group"`
		Notes       string `json:"notes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	session, err := h.sessions.CreateSession(r.Context(), application.CreateSessionParams{
		Date:        body.Date,
		Facilitator: body.Facilitator,
		Group:       body.Group,
		Notes:       body.Notes,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *handler) updateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date        *string `json:"date"`
		Facilitator *string `json:"facilitator"`
		Group       *string `json:"group"`
		Notes       *string `json:"notes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	patch := domain.SessionPatch{
		Date:        body.Date,
		Facilitator: body.Facilitator,
		Group:       body.Group,
		Notes:       body.Notes,
	}
	if err := h.sessions.UpdateSession(r.Context(), r.PathValue("id"), patch); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	var evals []domain.SessionEvaluation
	var err error
	if sessionID != "" {
		evals, err = h.store.ListSessionEvaluations(r.Context(), sessionID)
	} else {
		evals, err = h.store.ListEvaluations(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, evals)
}

func (h *handler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID         string               `json:"sessionId"`
		Phase             domain.Phase         `json:"phase"`
		Grouping          domain.Grouping      `json:"grouping"`
		Discomfort        domain.Level         `json:"discomfort"`
		Tensions          domain.Level         `json:"tensions"`
		Communication     domain.Level         `json:"communication"`
		Participation     domain.Participation `json:"participation"`
		Respect           domain.Level         `json:"respect"`
		Openness          domain.Level         `json:"openness"`
		Laughter          domain.Level         `json:"laughter"`
		MixedInteractions int                  `json:"mixedInteractions"`
		MixedObserved     string               `json:"mixedObserved"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	eval, err := h.sessions.CreateEvaluation(r.Context(), application.CreateEvaluationParams{
		SessionID:         body.SessionID,
		Phase:             body.Phase,
		Grouping:          body.Grouping,
		Discomfort:        body.Discomfort,
		Tensions:          body.Tensions,
		Communication:     body.Communication,
		Participation:     body.Participation,
		Respect:           body.Respect,
		Openness:          body.Openness,
		Laughter:          body.Laughter,
		MixedInteractions: body.MixedInteractions,
		MixedObserved:     body.MixedObserved,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, eval)
}

func (h *handler) updateEvaluation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phase             *domain.Phase         `json:"phase"`
		Grouping          *domain.Grouping      `json:"grouping"`
		Discomfort        *domain.Level         `json:"discomfort"`
		Tensions          *domain.Level         `json:"tensions"`
		Communication     *domain.Level         `json:"communication"`
		Participation     *domain.Participation `json:"participation"`
		Respect           *domain.Level         `json:"respect"`
		Openness          *domain.Level         `json:"openness"`
		Laughter          *domain.Level         `json:"laughter"`
		MixedInteractions *int                  `json:"mixedInteractions"`
		MixedObserved     *string               `json:"mixedObserved"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	patch := domain.EvaluationPatch{
		Phase:             body.Phase,
		Grouping:          body.Grouping,
		Discomfort:        body.Discomfort,
		Tensions:          body.Tensions,
		Communication:     body.Communication,
		Participation:     body.Participation,
		Respect:           body.Respect,
		Openness:          body.Openness,
		Laughter:          body.Laughter,
		MixedInteractions: body.MixedInteractions,
		MixedObserved:     body.MixedObserved,
	}
	if err := h.sessions.UpdateEvaluation(r.Context(), r.PathValue("id"), patch); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deleteEvaluation(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteEvaluation(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listProgramEvaluations(w http.ResponseWriter, r *http.Request) {
	evals, err := h.store.ListProgramEvaluations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, evals)
}

func (h *handler) createProgramEvaluation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GroupingAfter             domain.Grouping `json:"groupingAfter"`
		MixedInteractionsAfter    int             `json:"mixedInteractionsAfter"`
		ProductsCompleted         int             `json:"productsCompleted"`
		ParticipantRepresentation int             `json:"participantRepresentation"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	eval, err := h.sessions.CreateProgramEvaluation(r.Context(), application.CreateProgramEvaluationParams{
		GroupingAfter:             body.GroupingAfter,
		MixedInteractionsAfter:    body.MixedInteractionsAfter,
		ProductsCompleted:         body.ProductsCompleted,
		ParticipantRepresentation: body.ParticipantRepresentation,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, eval)
}

func (h *handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("group name is required"))
		return
	}

	if err := h.store.AddGroup(r.Context(), body.Name); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": body.Name})
}

// decodeBody reads the JSON body into dst; on failure it writes the 400
// itself and returns false
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
