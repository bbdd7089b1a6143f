package application

import (
	"context"
	"fmt"
	"time"

	"convive/domain"
	"convive/logging"
	"convive/ports"

	"github.com/google/uuid"
)

// SessionService handles session and evaluation lifecycle operations
type SessionService struct {
	store ports.DataStore
}

// NewSessionService creates a new SessionService
func NewSessionService(store ports.DataStore) *SessionService {
	return &SessionService{store: store}
}

// CreateSession creates a session with a generated id and returns it
func (s *SessionService) CreateSession(ctx context.Context, params CreateSessionParams) (*domain.Session, error) {
	logging.Logger.Info("Creating session",
		"date", params.Date,
		"group", params.Group,
		"facilitator", params.Facilitator)

	session := domain.Session{
		ID:          uuid.New().String(),
		Date:        params.Date,
		Facilitator: params.Facilitator,
		Group:       params.Group,
		Notes:       params.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.AddSession(ctx, session); err != nil {
		logging.Logger.Error("Failed to add session", "error", err)
		return nil, err
	}

	// Seed the group catalog so the new group shows up for data entry
	if session.Group != "" {
		if err := s.store.AddGroup(ctx, session.Group); err != nil {
			logging.Logger.Warn("Failed to register group", "group", session.Group, "error", err)
		}
	}

	logging.Logger.Info("Session created", "id", session.ID, "group", session.Group)
	return &session, nil
}

// UpdateSession applies a partial update to a session
func (s *SessionService) UpdateSession(ctx context.Context, id string, patch domain.SessionPatch) error {
	logging.Logger.Info("Updating session", "id", id)

	if err := s.store.UpdateSession(ctx, id, patch); err != nil {
		logging.Logger.Error("Failed to update session", "id", id, "error", err)
		return err
	}

	if patch.Group != nil && *patch.Group != "" {
		if err := s.store.AddGroup(ctx, *patch.Group); err != nil {
			logging.Logger.Warn("Failed to register group", "group", *patch.Group, "error", err)
		}
	}

	return nil
}

// DeleteSession removes a session and its evaluations
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	logging.Logger.Info("Deleting session", "id", id)

	// Count evaluations first so the cascade is visible in the logs
	evals, err := s.store.ListSessionEvaluations(ctx, id)
	if err != nil {
		logging.Logger.Warn("Could not list evaluations before delete", "id", id, "error", err)
	}

	if err := s.store.DeleteSession(ctx, id); err != nil {
		logging.Logger.Error("Failed to delete session", "id", id, "error", err)
		return err
	}

	logging.Logger.Info("Session deleted", "id", id, "cascaded_evaluations", len(evals))
	return nil
}

// CreateEvaluation creates a session evaluation with a generated id
func (s *SessionService) CreateEvaluation(ctx context.Context, params CreateEvaluationParams) (*domain.SessionEvaluation, error) {
	logging.Logger.Info("Creating evaluation",
		"session_id", params.SessionID,
		"phase", params.Phase)

	eval := domain.SessionEvaluation{
		ID:                uuid.New().String(),
		SessionID:         params.SessionID,
		Phase:             params.Phase,
		Grouping:          params.Grouping,
		Discomfort:        params.Discomfort,
		Tensions:          params.Tensions,
		Communication:     params.Communication,
		Participation:     params.Participation,
		Respect:           params.Respect,
		Openness:          params.Openness,
		Laughter:          params.Laughter,
		MixedInteractions: params.MixedInteractions,
		MixedObserved:     params.MixedObserved,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.store.AddEvaluation(ctx, eval); err != nil {
		logging.Logger.Error("Failed to add evaluation", "session_id", params.SessionID, "error", err)
		return nil, err
	}

	logging.Logger.Info("Evaluation created", "id", eval.ID, "session_id", eval.SessionID)
	return &eval, nil
}

// UpdateEvaluation applies a partial update to an evaluation
func (s *SessionService) UpdateEvaluation(ctx context.Context, id string, patch domain.EvaluationPatch) error {
	logging.Logger.Info("Updating evaluation", "id", id)

	if err := s.store.UpdateEvaluation(ctx, id, patch); err != nil {
		logging.Logger.Error("Failed to update evaluation", "id", id, "error", err)
		return err
	}
	return nil
}

// DeleteEvaluation removes a single evaluation
func (s *SessionService) DeleteEvaluation(ctx context.Context, id string) error {
	logging.Logger.Info("Deleting evaluation", "id", id)

	if err := s.store.DeleteEvaluation(ctx, id); err != nil {
		logging.Logger.Error("Failed to delete evaluation", "id", id, "error", err)
		return err
	}
	return nil
}

// CreateProgramEvaluation records a program-wide final-impact evaluation
func (s *SessionService) CreateProgramEvaluation(ctx context.Context, params CreateProgramEvaluationParams) (*domain.ProgramEvaluation, error) {
	logging.Logger.Info("Creating program evaluation")

	eval := domain.ProgramEvaluation{
		ID:                        uuid.New().String(),
		ProgramID:                 domain.DefaultProgramID,
		Phase:                     domain.PhaseFinalImpact,
		GroupingAfter:             params.GroupingAfter,
		MixedInteractionsAfter:    params.MixedInteractionsAfter,
		ProductsCompleted:         params.ProductsCompleted,
		ParticipantRepresentation: params.ParticipantRepresentation,
		CreatedAt:                 time.Now().UTC(),
	}

	if err := s.store.AddProgramEvaluation(ctx, eval); err != nil {
		logging.Logger.Error("Failed to add program evaluation", "error", err)
		return nil, err
	}

	logging.Logger.Info("Program evaluation created", "id", eval.ID)
	return &eval, nil
}

// GetSession returns one session by id
func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}
