package ports

import (
	"context"

	"convive/domain"
)

// SessionReader reads session records
type SessionReader interface {
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
}

// SessionWriter creates, patches, and deletes sessions. Deleting a
// session cascades to its evaluations.
type SessionWriter interface {
	AddSession(ctx context.Context, session domain.Session) error
	UpdateSession(ctx context.Context, id string, patch domain.SessionPatch) error
	DeleteSession(ctx context.Context, id string) error
}

// EvaluationReader reads session evaluation records
type EvaluationReader interface {
	GetEvaluation(ctx context.Context, id string) (*domain.SessionEvaluation, error)
	ListEvaluations(ctx context.Context) ([]domain.SessionEvaluation, error)
	ListSessionEvaluations(ctx context.Context, sessionID string) ([]domain.SessionEvaluation, error)
}

// EvaluationWriter creates, patches, and deletes session evaluations
type EvaluationWriter interface {
	AddEvaluation(ctx context.Context, eval domain.SessionEvaluation) error
	UpdateEvaluation(ctx context.Context, id string, patch domain.EvaluationPatch) error
	DeleteEvaluation(ctx context.Context, id string) error
}

// ProgramEvaluationStore reads and writes program-wide impact records
type ProgramEvaluationStore interface {
	AddProgramEvaluation(ctx context.Context, eval domain.ProgramEvaluation) error
	LatestProgramEvaluation(ctx context.Context) (*domain.ProgramEvaluation, error)
	ListProgramEvaluations(ctx context.Context) ([]domain.ProgramEvaluation, error)
}

// GroupStore manages the participant group catalog
type GroupStore interface {
	AddGroup(ctx context.Context, name string) error
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

// Transfer snapshots and replaces the whole dataset for import/export
type Transfer interface {
	Snapshot(ctx context.Context) (*domain.Document, error)
	Replace(ctx context.Context, doc *domain.Document) error
}

// DataStore is the composite interface
type DataStore interface {
	SessionReader
	SessionWriter
	EvaluationReader
	EvaluationWriter
	ProgramEvaluationStore
	GroupStore
	Transfer
	Close() error
}
