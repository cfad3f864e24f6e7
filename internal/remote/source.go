// Package remote reaches the planning service. Every call may fail on its
// own; failures are reported with the taxonomy in internal/errors.
package remote

import (
	"context"

	"github.com/julianstephens/chronoforge/internal/models"
)

// Source is the planning service as seen by the sync engine.
type Source interface {
	CurrentSchedule(ctx context.Context) (models.ScheduleDocument, error)
	Signals(ctx context.Context) ([]models.Signal, error)
	Tasks(ctx context.Context) ([]models.Task, error)
	Insights(ctx context.Context) (models.Insights, error)
	SubmitCheckIn(ctx context.Context, body models.CheckInCreate) (models.CheckInResult, error)
	ListCheckIns(ctx context.Context) ([]models.CheckIn, error)
}

// TokenProvider returns the current session token, or false when logged out.
// It is called once per request.
type TokenProvider func() (string, bool)
