package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/utils"
)

// FileRegistry persists reminders as a JSON file so a separate process
// (the notify command) can deliver them when they come due.
//
// Every read-modify-write holds an exclusive lock on <path>.lock, so a
// rebuild and a concurrent notify run never overwrite each other's changes.
type FileRegistry struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

type registryFile struct {
	Version   int        `json:"version"`
	Reminders []Reminder `json:"reminders"`
}

func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path, lock: flock.New(path + ".lock")}
}

// locked runs fn while holding both the in-process mutex and the file lock.
func (r *FileRegistry) locked(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return fmt.Errorf("failed to create reminders dir: %w", err)
	}
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock reminders: %w", err)
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			logger.Warn("Failed to unlock reminders", "path", r.path, "error", err)
		}
	}()

	return fn()
}

func (r *FileRegistry) CancelAll(ctx context.Context) error {
	return r.locked(func() error {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to cancel reminders: %w", err)
		}
		return nil
	})
}

func (r *FileRegistry) Schedule(ctx context.Context, id string, at time.Time, content Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.locked(func() error {
		reminders, err := r.read()
		if err != nil {
			return err
		}

		replaced := false
		for i := range reminders {
			if reminders[i].ID == id {
				reminders[i] = Reminder{ID: id, At: at, Content: content}
				replaced = true
				break
			}
		}
		if !replaced {
			reminders = append(reminders, Reminder{ID: id, At: at, Content: content})
		}

		return r.write(reminders)
	})
}

// List returns every registered reminder ordered by trigger time, then id.
func (r *FileRegistry) List() ([]Reminder, error) {
	var reminders []Reminder
	err := r.locked(func() error {
		var err error
		reminders, err = r.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	sortReminders(reminders)
	return reminders, nil
}

// Due returns the reminders whose trigger time is at or before now.
func (r *FileRegistry) Due(now time.Time) ([]Reminder, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	var due []Reminder
	for _, rem := range all {
		if !rem.At.After(now) {
			due = append(due, rem)
		}
	}
	return due, nil
}

// Remove drops the reminders with the given ids. Unknown ids are ignored.
func (r *FileRegistry) Remove(ids ...string) error {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	return r.locked(func() error {
		reminders, err := r.read()
		if err != nil {
			return err
		}

		kept := reminders[:0]
		for _, rem := range reminders {
			if _, ok := drop[rem.ID]; !ok {
				kept = append(kept, rem)
			}
		}
		if len(kept) == len(reminders) {
			return nil
		}
		return r.write(kept)
	})
}

// read loads the registry file. Callers must hold the lock.
func (r *FileRegistry) read() ([]Reminder, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read reminders: %w", err)
	}

	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse reminders: %w", err)
	}
	return f.Reminders, nil
}

// write replaces the registry file. Callers must hold the lock.
func (r *FileRegistry) write(reminders []Reminder) error {
	data, err := json.MarshalIndent(registryFile{Version: 1, Reminders: reminders}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize reminders: %w", err)
	}
	if err := utils.WriteFileAtomic(r.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write reminders: %w", err)
	}
	return nil
}
