package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/models"
)

const snapshotKey = "last_plan"

// SQLiteStore keeps the snapshot as a single row. Each save replaces the row
// inside one transaction.
type SQLiteStore struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
	now  func() time.Time
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		now:  time.Now,
	}
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// open lazily opens the database and creates the snapshot table.
// Callers must hold s.mu.
func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		captured_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Save(doc models.ScheduleDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		logger.Warn("Schedule cache unavailable", "path", s.path, "error", err)
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("Failed to serialize schedule cache", "error", err)
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		logger.Warn("Failed to begin cache transaction", "error", err)
		return
	}
	_, err = tx.Exec(
		`INSERT INTO snapshots (key, document, captured_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET document = excluded.document, captured_at = excluded.captured_at`,
		snapshotKey, string(data), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		tx.Rollback()
		logger.Warn("Failed to write schedule cache", "error", err)
		return
	}
	if err := tx.Commit(); err != nil {
		logger.Warn("Failed to commit schedule cache", "error", err)
	}
}

func (s *SQLiteStore) Load() (models.ScheduleDocument, bool) {
	snap, ok := s.Snapshot()
	return snap.Document, ok
}

func (s *SQLiteStore) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		logger.Warn("Schedule cache unavailable", "path", s.path, "error", err)
		return Snapshot{}, false
	}

	var data, capturedAt string
	err := s.db.QueryRow(`SELECT document, captured_at FROM snapshots WHERE key = ?`, snapshotKey).Scan(&data, &capturedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Warn("Failed to read schedule cache", "error", err)
		}
		return Snapshot{}, false
	}

	var doc models.ScheduleDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		logger.Warn("Discarding unreadable schedule cache", "error", err)
		return Snapshot{}, false
	}

	captured, err := time.Parse(time.RFC3339Nano, capturedAt)
	if err != nil {
		logger.Debug("Cache capture time unreadable", "value", capturedAt, "error", err)
	}

	return Snapshot{Document: doc, CapturedAt: captured}, true
}

func (s *SQLiteStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		logger.Warn("Schedule cache unavailable", "path", s.path, "error", err)
		return
	}
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, snapshotKey); err != nil {
		logger.Warn("Failed to clear schedule cache", "error", err)
	}
}
