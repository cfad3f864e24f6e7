package cache

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/models"
	"github.com/julianstephens/chronoforge/internal/utils"
)

// FileStore keeps the snapshot as a JSON file. Writes go to a temporary file
// in the same directory and are renamed over the target, so a reader sees
// either the previous snapshot or the new one.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(doc models.ScheduleDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("Failed to serialize schedule cache", "error", err)
		return
	}

	if err := utils.WriteFileAtomic(s.path, data, 0600); err != nil {
		logger.Warn("Failed to write schedule cache", "path", s.path, "error", err)
	}
}

func (s *FileStore) Load() (models.ScheduleDocument, bool) {
	snap, ok := s.Snapshot()
	return snap.Document, ok
}

func (s *FileStore) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to stat schedule cache", "path", s.path, "error", err)
		}
		return Snapshot{}, false
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		logger.Warn("Failed to read schedule cache", "path", s.path, "error", err)
		return Snapshot{}, false
	}

	var doc models.ScheduleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("Discarding unreadable schedule cache", "path", s.path, "error", err)
		return Snapshot{}, false
	}

	return Snapshot{Document: doc, CapturedAt: info.ModTime()}, true
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to clear schedule cache", "path", s.path, "error", err)
	}
}
