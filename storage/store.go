package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"convive/domain"
	"convive/logging"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger wraps the convive logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

// LogMode sets the log level
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

// Info logs info messages
func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

// Warn logs warn messages
func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

// Error logs error messages
func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL queries - only in debug mode
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

// newGormLogger creates a GORM logger that respects convive's debug settings
func newGormLogger() logger.Interface {
	if os.Getenv("CONVIVE_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// Store provides ACID access to the session/evaluation dataset
type Store struct {
	db *gorm.DB
}

// NewStore creates a new storage instance with WAL mode enabled
func NewStore(dbPath string) (*Store, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false, // Disable to avoid transaction conflicts
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000") // 5 second timeout
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	// Auto-migrate tables without foreign keys
	for _, model := range []interface{}{&Session{}, &ProgramEvaluation{}, &Group{}} {
		if err := db.AutoMigrate(model); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return nil, fmt.Errorf("failed to migrate schema: %w", err)
			}
		}
	}

	// Manually create session_evaluations (AutoMigrate has issues with
	// foreign keys in SQLite); deleting a session cascades here
	migrator := db.Migrator()
	if !migrator.HasTable(&SessionEvaluation{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS session_evaluations (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				phase TEXT NOT NULL CHECK (phase IN ('initial','followup')),
				grouping TEXT NOT NULL DEFAULT '',
				discomfort TEXT NOT NULL DEFAULT '',
				tensions TEXT NOT NULL DEFAULT '',
				communication TEXT NOT NULL DEFAULT '',
				participation TEXT NOT NULL DEFAULT '',
				respect TEXT NOT NULL DEFAULT '',
				openness TEXT NOT NULL DEFAULT '',
				laughter TEXT NOT NULL DEFAULT '',
				mixed_interactions INTEGER NOT NULL DEFAULT 0,
				mixed_observed TEXT NOT NULL DEFAULT '',
				created_at DATETIME,
				updated_at DATETIME,
				FOREIGN KEY (session_id) REFERENCES sessions(id) ON UPDATE CASCADE ON DELETE CASCADE
			)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create session_evaluations table: %w", err)
		}
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_eval_session ON session_evaluations(session_id)`).Error; err != nil {
			return nil, fmt.Errorf("failed to create session_evaluations index: %w", err)
		}
	}

	// Configure connection pool after migration
	// SQLite with WAL mode can handle multiple readers + 1 writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &Store{db: db}, nil
}

// AddSession creates a new session
func (s *Store) AddSession(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if _, err := domain.ParseDate(session.Date); err != nil {
		return fmt.Errorf("invalid session date %q: %w", session.Date, err)
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			record := fromDomainSession(session)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
			return nil
		})
	}, 3)
}

// GetSession retrieves a single session by id
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var record Session
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	session := toDomainSession(record)
	return &session, nil
}

// ListSessions returns all sessions ordered by creation time
func (s *Store) ListSessions(ctx context.Context) ([]domain.Session, error) {
	var records []Session
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]domain.Session, len(records))
	for i, r := range records {
		sessions[i] = toDomainSession(r)
	}
	return sessions, nil
}

// UpdateSession applies a partial update. Only date, facilitator, group
// and notes can change; id and created_at are immutable.
func (s *Store) UpdateSession(ctx context.Context, id string, patch domain.SessionPatch) error {
	updates := map[string]interface{}{}
	if patch.Date != nil {
		if _, err := domain.ParseDate(*patch.Date); err != nil {
			return fmt.Errorf("invalid session date %q: %w", *patch.Date, err)
		}
		updates["date"] = *patch.Date
	}
	if patch.Facilitator != nil {
		updates["facilitator"] = *patch.Facilitator
	}
	if patch.Group != nil {
		updates["group_name"] = *patch.Group
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if len(updates) == 0 {
		return nil
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&Session{}).Where("id = ?", id).Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
			}
			return nil
		})
	}, 3)
}

// DeleteSession removes a session and all evaluations referencing it.
// The FK cascade covers connections with foreign_keys=ON; the explicit
// delete keeps older database files orphan-free as well.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("session_id = ?", id).Delete(&SessionEvaluation{}).Error; err != nil {
				return fmt.Errorf("failed to delete session evaluations: %w", err)
			}
			result := tx.Where("id = ?", id).Delete(&Session{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
			}
			return nil
		})
	}, 3)
}

// AddEvaluation creates a new session evaluation. The referenced session
// must exist; referential integrity is enforced here so orphans cannot be
// created through normal writes.
func (s *Store) AddEvaluation(ctx context.Context, eval domain.SessionEvaluation) error {
	if err := validateEvaluation(eval); err != nil {
		return err
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&Session{}).Where("id = ?", eval.SessionID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("session %s: %w", eval.SessionID, domain.ErrNotFound)
			}

			record := fromDomainEvaluation(eval)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create evaluation: %w", err)
			}
			return nil
		})
	}, 3)
}

// GetEvaluation retrieves a single evaluation by id
func (s *Store) GetEvaluation(ctx context.Context, id string) (*domain.SessionEvaluation, error) {
	var record SessionEvaluation
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	eval := toDomainEvaluation(record)
	return &eval, nil
}

// ListEvaluations returns all session evaluations ordered by creation time
func (s *Store) ListEvaluations(ctx context.Context) ([]domain.SessionEvaluation, error) {
	var records []SessionEvaluation
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	evals := make([]domain.SessionEvaluation, len(records))
	for i, r := range records {
		evals[i] = toDomainEvaluation(r)
	}
	return evals, nil
}

// ListSessionEvaluations returns the evaluations for one session
func (s *Store) ListSessionEvaluations(ctx context.Context, sessionID string) ([]domain.SessionEvaluation, error) {
	var records []SessionEvaluation
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at ASC, id ASC").Find(&records).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations for session %s: %w", sessionID, err)
	}

	evals := make([]domain.SessionEvaluation, len(records))
	for i, r := range records {
		evals[i] = toDomainEvaluation(r)
	}
	return evals, nil
}

// UpdateEvaluation applies a partial update. SessionID and created_at are
// immutable; categorical values are validated against their vocabularies.
func (s *Store) UpdateEvaluation(ctx context.Context, id string, patch domain.EvaluationPatch) error {
	updates := map[string]interface{}{}
	if patch.Phase != nil {
		if !patch.Phase.ValidForSession() {
			return fmt.Errorf("invalid phase %q", *patch.Phase)
		}
		updates["phase"] = string(*patch.Phase)
	}
	if patch.Grouping != nil {
		if !patch.Grouping.Valid() {
			return fmt.Errorf("invalid grouping %q", *patch.Grouping)
		}
		updates["grouping"] = string(*patch.Grouping)
	}
	for column, level := range map[string]*domain.Level{
		"discomfort":    patch.Discomfort,
		"tensions":      patch.Tensions,
		"communication": patch.Communication,
		"respect":       patch.Respect,
		"openness":      patch.Openness,
		"laughter":      patch.Laughter,
	} {
		if level == nil {
			continue
		}
		if !level.Valid() {
			return fmt.Errorf("invalid %s %q", column, *level)
		}
		updates[column] = string(*level)
	}
	if patch.Participation != nil {
		updates["participation"] = string(*patch.Participation)
	}
	if patch.MixedInteractions != nil {
		if *patch.MixedInteractions < 0 {
			return fmt.Errorf("mixedInteractions must be non-negative")
		}
		updates["mixed_interactions"] = *patch.MixedInteractions
	}
	if patch.MixedObserved != nil {
		updates["mixed_observed"] = *patch.MixedObserved
	}
	if len(updates) == 0 {
		return nil
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&SessionEvaluation{}).Where("id = ?", id).Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("evaluation %s: %w", id, domain.ErrNotFound)
			}
			return nil
		})
	}, 3)
}

// DeleteEvaluation removes a single evaluation
func (s *Store) DeleteEvaluation(ctx context.Context, id string) error {
	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Where("id = ?", id).Delete(&SessionEvaluation{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("evaluation %s: %w", id, domain.ErrNotFound)
			}
			return nil
		})
	}, 3)
}

// AddProgramEvaluation creates a new program-wide impact record
func (s *Store) AddProgramEvaluation(ctx context.Context, eval domain.ProgramEvaluation) error {
	if eval.ID == "" {
		return fmt.Errorf("program evaluation id is required")
	}
	if !eval.Phase.ValidForProgram() {
		return fmt.Errorf("invalid program evaluation phase %q", eval.Phase)
	}
	if !eval.GroupingAfter.Valid() {
		return fmt.Errorf("invalid groupingAfter %q", eval.GroupingAfter)
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			record := fromDomainProgramEvaluation(eval)
			if record.ProgramID == "" {
				record.ProgramID = domain.DefaultProgramID
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create program evaluation: %w", err)
			}
			return nil
		})
	}, 3)
}

// LatestProgramEvaluation returns the most recent record by created_at,
// or nil when none exists
func (s *Store) LatestProgramEvaluation(ctx context.Context) (*domain.ProgramEvaluation, error) {
	var record ProgramEvaluation
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&record).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	eval := toDomainProgramEvaluation(record)
	return &eval, nil
}

// ListProgramEvaluations returns all program evaluations ordered by
// creation time
func (s *Store) ListProgramEvaluations(ctx context.Context) ([]domain.ProgramEvaluation, error) {
	var records []ProgramEvaluation
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list program evaluations: %w", err)
	}

	evals := make([]domain.ProgramEvaluation, len(records))
	for i, r := range records {
		evals[i] = toDomainProgramEvaluation(r)
	}
	return evals, nil
}

// AddGroup adds a participant group to the catalog. Adding an existing
// group is a no-op.
func (s *Store) AddGroup(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("group name is required")
	}

	return withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&Group{}).Where("name = ?", name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			if err := tx.Create(&Group{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to create group: %w", err)
			}
			return nil
		})
	}, 3)
}

// ListGroups returns the group catalog sorted by name
func (s *Store) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var records []Group
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Order("name ASC").Find(&records).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groups := make([]domain.Group, len(records))
	for i, r := range records {
		groups[i] = domain.Group{Name: r.Name, CreatedAt: r.CreatedAt}
	}
	return groups, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// validateEvaluation checks phase and vocabulary invariants before a write
func validateEvaluation(eval domain.SessionEvaluation) error {
	if eval.ID == "" {
		return fmt.Errorf("evaluation id is required")
	}
	if eval.SessionID == "" {
		return fmt.Errorf("evaluation sessionId is required")
	}
	if !eval.Phase.ValidForSession() {
		return fmt.Errorf("invalid phase %q", eval.Phase)
	}
	if !eval.Grouping.Valid() {
		return fmt.Errorf("invalid grouping %q", eval.Grouping)
	}
	for field, level := range map[string]domain.Level{
		"discomfort":    eval.Discomfort,
		"tensions":      eval.Tensions,
		"communication": eval.Communication,
		"respect":       eval.Respect,
		"openness":      eval.Openness,
		"laughter":      eval.Laughter,
	} {
		if !level.Valid() {
			return fmt.Errorf("invalid %s %q", field, level)
		}
	}
	if eval.MixedInteractions < 0 {
		return fmt.Errorf("mixedInteractions must be non-negative")
	}
	return nil
}

// withRetry retries operations on SQLITE_BUSY with exponential backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		// Check if it's a busy error
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
