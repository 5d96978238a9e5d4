package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrLearnerNotFound is returned when the learner record does not exist.
// Unlike a missing brain profile, this is not recoverable: there is no
// learner to plan for.
var ErrLearnerNotFound = errors.New("learner not found")

// Store is the sqlite-backed learner and brain-profile store.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// StoreConfig holds store configuration
type StoreConfig struct {
	DBPath string
	Logger zerolog.Logger
}

// NewStore opens the learner store, creating the schema if needed.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("database path is required")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode so reads during request handling never block writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db, logger: cfg.Logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS learners (
		id            TEXT PRIMARY KEY,
		tenant_id     TEXT NOT NULL,
		display_name  TEXT NOT NULL,
		region        TEXT NOT NULL,
		current_grade INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS brain_profiles (
		learner_id TEXT PRIMARY KEY REFERENCES learners(id),
		profile    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_learners_tenant ON learners(tenant_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// GetLearner loads a learner record. Returns ErrLearnerNotFound when the
// learner does not exist.
func (s *Store) GetLearner(ctx context.Context, learnerID string) (*Learner, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, display_name, region, current_grade FROM learners WHERE id = ?`,
		learnerID)

	var l Learner
	err := row.Scan(&l.ID, &l.TenantID, &l.DisplayName, &l.Region, &l.CurrentGrade)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLearnerNotFound, learnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load learner %s: %w", learnerID, err)
	}
	return &l, nil
}

// GetBrainProfile loads a learner's persisted brain profile. Absence is a
// valid state and returns (nil, nil); callers synthesize a default.
func (s *Store) GetBrainProfile(ctx context.Context, learnerID string) (*BrainProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT profile FROM brain_profiles WHERE learner_id = ?`, learnerID)

	var raw string
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load brain profile for %s: %w", learnerID, err)
	}

	var p BrainProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode brain profile for %s: %w", learnerID, err)
	}
	return &p, nil
}

// UpsertLearner inserts or replaces a learner record.
func (s *Store) UpsertLearner(ctx context.Context, learner Learner) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learners (id, tenant_id, display_name, region, current_grade)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   tenant_id = excluded.tenant_id,
		   display_name = excluded.display_name,
		   region = excluded.region,
		   current_grade = excluded.current_grade`,
		learner.ID, learner.TenantID, learner.DisplayName, learner.Region, learner.CurrentGrade)
	if err != nil {
		return fmt.Errorf("failed to upsert learner %s: %w", learner.ID, err)
	}
	return nil
}

// UpsertBrainProfile inserts or replaces a learner's brain profile.
func (s *Store) UpsertBrainProfile(ctx context.Context, p BrainProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode brain profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO brain_profiles (learner_id, profile) VALUES (?, ?)
		 ON CONFLICT(learner_id) DO UPDATE SET profile = excluded.profile`,
		p.LearnerID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to upsert brain profile for %s: %w", p.LearnerID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
