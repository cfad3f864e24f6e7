// Package reminders turns the plan and task list into local reminders.
//
// Reschedule is cancel-then-recreate: it clears the registry and registers
// the full set again. Reminder ids are derived from block and task
// identities, so repeated calls with the same inputs produce the same set.
// Callers must not run Reschedule concurrently against one registry; an
// interleaved cancel can drop reminders registered by the other call.
package reminders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/models"
)

// Content is what the user sees when a reminder fires.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Reminder is one registered local notification.
type Reminder struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Content Content   `json:"content"`
}

// Registry is the platform notification store.
type Registry interface {
	CancelAll(ctx context.Context) error
	Schedule(ctx context.Context, id string, at time.Time, content Content) error
}

type Scheduler struct {
	registry Registry
	now      func() time.Time
}

func NewScheduler(registry Registry, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{registry: registry, now: now}
}

// Reschedule replaces every registered reminder with reminders for blocks and
// tasks. Registration failures are logged and skipped.
//
// A ctx that is already done leaves the registered reminders untouched.
func (s *Scheduler) Reschedule(ctx context.Context, blocks []models.ScheduledBlock, tasks []models.Task) {
	if err := ctx.Err(); err != nil {
		logger.Debug("Reminder rebuild skipped", "error", err)
		return
	}
	if err := s.registry.CancelAll(ctx); err != nil {
		logger.Warn("Failed to cancel reminders", "error", err)
	}

	planned := Plan(blocks, tasks, s.now())
	registered := 0
	for _, r := range planned {
		if err := s.registry.Schedule(ctx, r.ID, r.At, r.Content); err != nil {
			logger.Debug("Failed to register reminder", "id", r.ID, "error", err)
			continue
		}
		registered++
	}

	logger.Debug("Reminders rescheduled", "planned", len(planned), "registered", registered)
}

// Plan computes the reminders Reschedule registers at now. Only the earliest
// MaxScheduledBlocks future non-fixed blocks get reminders; any reminder
// whose trigger time is not after now is dropped.
func Plan(blocks []models.ScheduledBlock, tasks []models.Task, now time.Time) []Reminder {
	var upcoming []models.ScheduledBlock
	for _, b := range blocks {
		if b.IsFixed || !b.Start.After(now) {
			continue
		}
		upcoming = append(upcoming, b)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	if len(upcoming) > constants.MaxScheduledBlocks {
		upcoming = upcoming[:constants.MaxScheduledBlocks]
	}

	var out []Reminder
	add := func(r Reminder) {
		if r.At.After(now) {
			out = append(out, r)
		}
	}

	for _, b := range upcoming {
		add(blockStartReminder(b))
		add(checkInReminder(b))
	}

	for _, t := range tasks {
		if t.DueAt == nil {
			continue
		}
		for _, lead := range constants.TaskDeadlineLeads {
			add(taskDeadlineReminder(t, *t.DueAt, lead))
		}
	}

	return out
}

func blockStartReminder(b models.ScheduledBlock) Reminder {
	minutes := int(constants.BlockStartLead / time.Minute)
	return Reminder{
		ID: constants.ReminderKindBlockStart + "-" + b.ID(),
		At: b.Start.Add(-constants.BlockStartLead),
		Content: Content{
			Title: "Starting Soon",
			Body:  fmt.Sprintf("%s begins in %d minutes. Get moving.", b.GoalName, minutes),
		},
	}
}

func checkInReminder(b models.ScheduledBlock) Reminder {
	return Reminder{
		ID: constants.ReminderKindCheckIn + "-" + b.ID(),
		At: b.End.Add(constants.CheckInReminderDelay),
		Content: Content{
			Title: "Check-in",
			Body:  fmt.Sprintf("What did you do for %s? Log it and stay honest.", b.GoalName),
		},
	}
}

func taskDeadlineReminder(t models.Task, due time.Time, lead time.Duration) Reminder {
	hours := int(lead / time.Hour)
	return Reminder{
		ID: fmt.Sprintf("%s-%s-%dh", constants.ReminderKindTaskDeadline, t.ID, hours),
		At: due.Add(-lead),
		Content: Content{
			Title: t.CourseName,
			Body:  fmt.Sprintf("%s due in %d hours. No excuses.", t.AssignmentName, hours),
		},
	}
}
