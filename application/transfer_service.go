package application

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"convive/domain"
	"convive/logging"
	"convive/ports"
)

// TransferService handles dataset export and import
type TransferService struct {
	store ports.DataStore
}

// NewTransferService creates a new TransferService
func NewTransferService(store ports.DataStore) *TransferService {
	return &TransferService{store: store}
}

// ExportJSON writes the full dataset to w as indented JSON
func (t *TransferService) ExportJSON(ctx context.Context, w io.Writer) error {
	doc, err := t.store.Snapshot(ctx)
	if err != nil {
		logging.Logger.Error("Failed to snapshot dataset", "error", err)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	logging.Logger.Info("Dataset exported",
		"sessions", len(doc.Sessions),
		"evaluations", len(doc.SessionEvaluations),
		"program_evaluations", len(doc.ProgramEvaluations))
	return nil
}

// ImportJSON replaces the dataset with the document read from r. A
// malformed or invalid document is reported in the result, not returned
// as an error, and leaves the stored data untouched.
func (t *TransferService) ImportJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var doc domain.Document

	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		logging.Logger.Warn("Import rejected: malformed JSON", "error", err)
		return &ImportResult{Success: false, Message: fmt.Sprintf("invalid JSON: %v", err)}, nil
	}

	if err := doc.Validate(); err != nil {
		logging.Logger.Warn("Import rejected: invalid document", "error", err)
		return &ImportResult{Success: false, Message: err.Error()}, nil
	}

	if err := t.store.Replace(ctx, &doc); err != nil {
		logging.Logger.Error("Failed to replace dataset", "error", err)
		return nil, err
	}

	return &ImportResult{
		Success:            true,
		Message:            "import complete",
		Sessions:           len(doc.Sessions),
		SessionEvaluations: len(doc.SessionEvaluations),
		ProgramEvaluations: len(doc.ProgramEvaluations),
	}, nil
}

// ExportCSV writes a flat evaluation table to w, one row per session
// evaluation joined with its session's date, group and facilitator
func (t *TransferService) ExportCSV(ctx context.Context, w io.Writer) error {
	doc, err := t.store.Snapshot(ctx)
	if err != nil {
		logging.Logger.Error("Failed to snapshot dataset", "error", err)
		return err
	}

	sessions := make(map[string]domain.Session, len(doc.Sessions))
	for _, s := range doc.Sessions {
		sessions[s.ID] = s
	}

	cw := csv.NewWriter(w)
	header := []string{
		"evaluationId", "sessionId", "sessionDate", "group", "facilitator",
		"phase", "grouping", "discomfort", "tensions", "communication",
		"participation", "respect", "openness", "laughter",
		"mixedInteractions", "mixedObserved", "createdAt",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range doc.SessionEvaluations {
		sess := sessions[e.SessionID]
		row := []string{
			e.ID, e.SessionID, sess.Date, sess.Group, sess.Facilitator,
			string(e.Phase), string(e.Grouping), string(e.Discomfort),
			string(e.Tensions), string(e.Communication),
			string(e.Participation), string(e.Respect), string(e.Openness),
			string(e.Laughter), strconv.Itoa(e.MixedInteractions),
			e.MixedObserved, e.CreatedAt.Format(domain.DateLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	logging.Logger.Info("Dataset exported as CSV", "rows", len(doc.SessionEvaluations))
	return nil
}
