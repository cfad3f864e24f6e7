package engine

import (
	"time"

	"github.com/julianstephens/chronoforge/internal/models"
)

// ViewState is the snapshot handed to the presentation layer after each
// refresh or check-in.
type ViewState struct {
	TodayBlocks      []models.ScheduledBlock
	TodayCapacity    *models.DayCapacity
	CoachingMessages []string
	Signals          []models.Signal
	Tasks            []models.Task
	Insights         *models.Insights
	CheckIns         []models.CheckIn
	PendingCheckIn   *models.ScheduledBlock
	LastCheckIn      *models.CheckInResult
	NeedsReconnect   bool
	ErrorMessage     string

	// FromCache is set when TodayBlocks came from the cached snapshot
	// captured at CachedAt.
	FromCache   bool
	CachedAt    time.Time
	RefreshedAt time.Time
}

// NextBlock returns the first of today's blocks starting after now.
func (v ViewState) NextBlock(now time.Time) *models.ScheduledBlock {
	for i := range v.TodayBlocks {
		if v.TodayBlocks[i].Start.After(now) {
			b := v.TodayBlocks[i]
			return &b
		}
	}
	return nil
}

func (v ViewState) AllocatedToday() float64 {
	if v.TodayCapacity == nil {
		return 0
	}
	return v.TodayCapacity.AllocatedHours
}

func (v ViewState) FreeToday() float64 {
	if v.TodayCapacity == nil {
		return 0
	}
	return v.TodayCapacity.SpareHours
}

// CapacityFraction is the share of today's hours already allocated, or 0
// when today has no capacity entry.
func (v ViewState) CapacityFraction() float64 {
	if v.TodayCapacity == nil || v.TodayCapacity.TotalHours <= 0 {
		return 0
	}
	return v.TodayCapacity.AllocatedHours / v.TodayCapacity.TotalHours
}

// clone copies v so callers cannot mutate engine-owned slices.
func (v ViewState) clone() ViewState {
	out := v
	out.TodayBlocks = append([]models.ScheduledBlock(nil), v.TodayBlocks...)
	out.CoachingMessages = append([]string(nil), v.CoachingMessages...)
	out.Signals = append([]models.Signal(nil), v.Signals...)
	out.Tasks = append([]models.Task(nil), v.Tasks...)
	out.CheckIns = append([]models.CheckIn(nil), v.CheckIns...)
	if v.TodayCapacity != nil {
		c := *v.TodayCapacity
		out.TodayCapacity = &c
	}
	if v.Insights != nil {
		i := *v.Insights
		out.Insights = &i
	}
	if v.PendingCheckIn != nil {
		b := *v.PendingCheckIn
		out.PendingCheckIn = &b
	}
	if v.LastCheckIn != nil {
		r := *v.LastCheckIn
		out.LastCheckIn = &r
	}
	return out
}
