// Package engine keeps the on-device view of the plan in sync with the
// planning service.
//
// Refresh fans out to the remote source, treating the schedule fetch as
// critical and every other feed as best-effort. On success the schedule is
// cached and reminders are rebuilt; on failure the cached schedule is shown
// with a staleness notice.
//
// The engine may be refreshed from several goroutines. Each refresh commits
// its result under a lock and the last commit wins; reminder rebuilds are
// serialized so their cancel-then-recreate steps never interleave.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/chronoforge/internal/cache"
	"github.com/julianstephens/chronoforge/internal/checkin"
	"github.com/julianstephens/chronoforge/internal/constants"
	apperrors "github.com/julianstephens/chronoforge/internal/errors"
	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/models"
	"github.com/julianstephens/chronoforge/internal/remote"
)

// Rescheduler rebuilds local reminders from the plan and task list.
type Rescheduler interface {
	Reschedule(ctx context.Context, blocks []models.ScheduledBlock, tasks []models.Task)
}

type Engine struct {
	source    remote.Source
	cache     cache.Store
	reminders Rescheduler
	now       func() time.Time
	loc       *time.Location

	mu    sync.Mutex
	state ViewState

	remindMu sync.Mutex
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func New(source remote.Source, store cache.Store, reminders Rescheduler, opts ...Option) *Engine {
	e := &Engine{
		source:    source,
		cache:     store,
		reminders: reminders,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current view-state.
func (e *Engine) State() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Refresh runs one sync cycle and returns the resulting view-state. It never
// fails; failures are reflected in NeedsReconnect and ErrorMessage.
func (e *Engine) Refresh(ctx context.Context) ViewState {
	var (
		doc     models.ScheduleDocument
		signals []models.Signal
		tasks   []models.Task
	)

	err := join(ctx,
		critical("schedule", func(ctx context.Context) error {
			var err error
			doc, err = e.source.CurrentSchedule(ctx)
			return err
		}),
		bestEffort("signals", func(ctx context.Context) error {
			var err error
			signals, err = e.source.Signals(ctx)
			return err
		}),
		bestEffort("tasks", func(ctx context.Context) error {
			var err error
			tasks, err = e.source.Tasks(ctx)
			return err
		}),
	)

	if err != nil {
		return e.fallback(err)
	}
	return e.apply(ctx, doc, signals, tasks)
}

// apply handles a successful schedule fetch.
func (e *Engine) apply(ctx context.Context, doc models.ScheduleDocument, signals []models.Signal, tasks []models.Task) ViewState {
	now := e.now()

	e.cache.Save(doc)

	todayBlocks := doc.BlocksOn(now, e.loc)
	todayCapacity := doc.CapacityOn(now, e.loc)

	// The rebuild cancels before it recreates, so it must not be cut short.
	e.remindMu.Lock()
	e.reminders.Reschedule(context.WithoutCancel(ctx), doc.Blocks, tasks)
	e.remindMu.Unlock()

	var (
		insights    *models.Insights
		checkInList []models.CheckIn
	)
	_ = join(ctx,
		bestEffort("insights", func(ctx context.Context) error {
			in, err := e.source.Insights(ctx)
			if err != nil {
				return err
			}
			insights = &in
			return nil
		}),
		bestEffort("checkins", func(ctx context.Context) error {
			var err error
			checkInList, err = e.source.ListCheckIns(ctx)
			return err
		}),
	)

	pending := checkin.Pending(todayBlocks, checkInList, now)

	logger.Debug("Refresh succeeded",
		"blocks", len(doc.Blocks),
		"today", len(todayBlocks),
		"signals", len(signals),
		"tasks", len(tasks),
		"checkins", len(checkInList),
		"pending", pending != nil,
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.TodayBlocks = todayBlocks
	e.state.TodayCapacity = todayCapacity
	e.state.CoachingMessages = append([]string(nil), doc.CoachingMessages...)
	e.state.Signals = signals
	e.state.Tasks = tasks
	e.state.Insights = insights
	e.state.CheckIns = checkInList
	e.state.PendingCheckIn = pending
	e.state.NeedsReconnect = false
	e.state.ErrorMessage = ""
	e.state.FromCache = false
	e.state.CachedAt = time.Time{}
	e.state.RefreshedAt = now
	return e.state.clone()
}

// fallback handles a failed schedule fetch. Derived state from the last
// successful refresh (pending check-in, records, feeds) is left in place and
// reminders are not touched.
func (e *Engine) fallback(err error) ViewState {
	kind := apperrors.Classify(err)
	now := e.now()

	notice := constants.NoticeCachedOffline
	if kind == apperrors.KindUnauthorized {
		notice = constants.NoticeCachedUnauthorized
		logger.Info("Session rejected, showing cached plan", "error", err)
	} else {
		logger.Warn("Schedule fetch failed, showing cached plan", "kind", kind, "error", err)
	}

	snap, cached := e.cache.Snapshot()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.NeedsReconnect = kind == apperrors.KindUnauthorized
	e.state.ErrorMessage = ""
	if kind != apperrors.KindUnauthorized {
		e.state.ErrorMessage = apperrors.UserMessage(err)
	}

	if cached {
		e.state.TodayBlocks = snap.Document.BlocksOn(now, e.loc)
		e.state.TodayCapacity = snap.Document.CapacityOn(now, e.loc)
		messages := append([]string(nil), snap.Document.CoachingMessages...)
		e.state.CoachingMessages = append(messages, notice)
		e.state.FromCache = true
		e.state.CachedAt = snap.CapturedAt
	} else {
		e.state.FromCache = false
		e.state.CachedAt = time.Time{}
	}
	e.state.RefreshedAt = now
	return e.state.clone()
}

// SubmitCheckIn records what the user did during block and recomputes the
// pending check-in. The submitted block is never offered again, even when
// the follow-up listing fails or lags behind.
func (e *Engine) SubmitCheckIn(ctx context.Context, block models.ScheduledBlock, whatIDid string) (models.CheckInResult, error) {
	res, err := e.source.SubmitCheckIn(ctx, models.NewCheckInCreate(block, whatIDid))
	if err != nil {
		e.mu.Lock()
		e.state.ErrorMessage = apperrors.UserMessage(err)
		e.mu.Unlock()
		return models.CheckInResult{}, fmt.Errorf("submit check-in for %s: %w", block.ID(), err)
	}

	records, listErr := e.source.ListCheckIns(ctx)
	if listErr != nil {
		logger.Debug("Feed degraded", "feed", "checkins", "kind", apperrors.KindDegraded, "error", listErr)
	}

	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if listErr != nil {
		records = e.state.CheckIns
	}
	records = withRecord(records, models.CheckIn{
		ID:                  res.CheckInID,
		BlockID:             block.ID(),
		PlannedGoalID:       block.GoalID,
		PlannedGoalName:     block.GoalName,
		Start:               block.Start,
		End:                 block.End,
		WhatIDid:            whatIDid,
		Assessment:          res.Assessment,
		MotivationalMessage: res.MotivationalMessage,
		CreatedAt:           now,
	})

	e.state.CheckIns = records
	e.state.LastCheckIn = &res
	e.state.PendingCheckIn = checkin.Pending(e.state.TodayBlocks, records, now)
	return res, nil
}

// DismissCheckInResult clears the last check-in assessment.
func (e *Engine) DismissCheckInResult() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.LastCheckIn = nil
}

// DismissPending hides the pending check-in until the next refresh.
func (e *Engine) DismissPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PendingCheckIn = nil
}

// withRecord appends r unless a record for the same block is already present.
func withRecord(records []models.CheckIn, r models.CheckIn) []models.CheckIn {
	for _, existing := range records {
		if existing.BlockID == r.BlockID {
			return records
		}
	}
	out := make([]models.CheckIn, 0, len(records)+1)
	out = append(out, records...)
	return append(out, r)
}
