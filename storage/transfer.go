package storage

import (
	"context"
	"fmt"

	"convive/domain"
	"convive/logging"

	"gorm.io/gorm"
)

// Snapshot reads the whole dataset in one transaction
func (s *Store) Snapshot(ctx context.Context) (*domain.Document, error) {
	doc := &domain.Document{
		Sessions:           []domain.Session{},
		SessionEvaluations: []domain.SessionEvaluation{},
		ProgramEvaluations: []domain.ProgramEvaluation{},
	}

	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var sessions []Session
			if err := tx.Order("created_at ASC, id ASC").Find(&sessions).Error; err != nil {
				return fmt.Errorf("failed to load sessions: %w", err)
			}

			var evals []SessionEvaluation
			if err := tx.Order("created_at ASC, id ASC").Find(&evals).Error; err != nil {
				return fmt.Errorf("failed to load evaluations: %w", err)
			}

			var programEvals []ProgramEvaluation
			if err := tx.Order("created_at ASC, id ASC").Find(&programEvals).Error; err != nil {
				return fmt.Errorf("failed to load program evaluations: %w", err)
			}

			var groups []Group
			if err := tx.Order("name ASC").Find(&groups).Error; err != nil {
				return fmt.Errorf("failed to load groups: %w", err)
			}

			for _, r := range sessions {
				doc.Sessions = append(doc.Sessions, toDomainSession(r))
			}
			for _, r := range evals {
				doc.SessionEvaluations = append(doc.SessionEvaluations, toDomainEvaluation(r))
			}
			for _, r := range programEvals {
				doc.ProgramEvaluations = append(doc.ProgramEvaluations, toDomainProgramEvaluation(r))
			}
			for _, r := range groups {
				doc.Groups = append(doc.Groups, domain.Group{Name: r.Name, CreatedAt: r.CreatedAt})
			}

			return nil
		})
	}, 3)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Replace swaps the entire dataset for the document's contents in one
// transaction. The document is validated first; a failed validation
// leaves the database untouched (imports are all-or-nothing).
func (s *Store) Replace(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Evaluations first so the FK never blocks the session wipe
			for _, model := range []interface{}{&SessionEvaluation{}, &Session{}, &ProgramEvaluation{}, &Group{}} {
				if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear table: %w", err)
				}
			}

			for _, sess := range doc.Sessions {
				record := fromDomainSession(sess)
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to import session %s: %w", sess.ID, err)
				}
			}
			for _, eval := range doc.SessionEvaluations {
				record := fromDomainEvaluation(eval)
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to import evaluation %s: %w", eval.ID, err)
				}
			}
			for _, pe := range doc.ProgramEvaluations {
				record := fromDomainProgramEvaluation(pe)
				if record.ProgramID == "" {
					record.ProgramID = domain.DefaultProgramID
				}
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to import program evaluation %s: %w", pe.ID, err)
				}
			}
			for _, g := range doc.Groups {
				record := Group{Name: g.Name, CreatedAt: g.CreatedAt}
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to import group %s: %w", g.Name, err)
				}
			}

			logging.Logger.Info("Dataset replaced",
				"sessions", len(doc.Sessions),
				"evaluations", len(doc.SessionEvaluations),
				"program_evaluations", len(doc.ProgramEvaluations),
				"groups", len(doc.Groups))

			return nil
		})
	}, 3)
}
