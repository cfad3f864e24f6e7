package reminders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRegistry keeps reminders in memory.
type MemoryRegistry struct {
	mu        sync.Mutex
	reminders map[string]Reminder
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{reminders: make(map[string]Reminder)}
}

func (m *MemoryRegistry) CancelAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = make(map[string]Reminder)
	return nil
}

func (m *MemoryRegistry) Schedule(ctx context.Context, id string, at time.Time, content Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[id] = Reminder{ID: id, At: at, Content: content}
	return nil
}

// List returns the registered reminders ordered by trigger time, then id.
func (m *MemoryRegistry) List() []Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		out = append(out, r)
	}
	sortReminders(out)
	return out
}

func sortReminders(rs []Reminder) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].At.Equal(rs[j].At) {
			return rs[i].At.Before(rs[j].At)
		}
		return rs[i].ID < rs[j].ID
	})
}
