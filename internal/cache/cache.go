// Package cache keeps the last schedule document fetched from the planning
// service so a plan can be shown while offline or logged out.
//
// A Store holds at most one snapshot. Every operation is total: I/O and
// decoding failures are logged and reported as "no snapshot", never returned.
package cache

import (
	"path/filepath"
	"time"

	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/models"
)

// Store is a single-slot durable schedule cache.
type Store interface {
	// Save replaces the stored snapshot with doc.
	Save(doc models.ScheduleDocument)
	// Load returns the stored document, or false if none was saved or the
	// stored data cannot be read.
	Load() (models.ScheduleDocument, bool)
	// Snapshot is Load plus the time the snapshot was written.
	Snapshot() (Snapshot, bool)
	// Clear removes the stored snapshot.
	Clear()
}

// Snapshot is a stored document together with its capture time.
type Snapshot struct {
	Document   models.ScheduleDocument
	CapturedAt time.Time
}

// New returns the store for backend rooted at dir. Unknown backends fall back
// to the JSON file store.
func New(backend, dir string) Store {
	switch backend {
	case constants.CacheBackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, constants.CacheDBName))
	default:
		return NewFileStore(filepath.Join(dir, constants.CacheFileName))
	}
}
