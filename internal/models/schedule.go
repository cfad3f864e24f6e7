package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type Category string

const (
	CategoryStudy    Category = "study"
	CategoryFitness  Category = "fitness"
	CategoryCareer   Category = "career"
	CategoryPersonal Category = "personal"
	CategoryProject  Category = "project"
	CategorySocial   Category = "social"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStudy,
	CategoryFitness,
	CategoryCareer,
	CategoryPersonal,
	CategoryProject,
	CategorySocial,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns the capitalized category name.
func (c Category) DisplayName() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ScheduledBlock is one interval of the plan, either assigned to a goal or
// mirroring a fixed calendar event.
type ScheduledBlock struct {
	GoalID   string    `json:"goal_id"`
	GoalName string    `json:"goal_name"`
	Category Category  `json:"category"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	IsFixed  bool      `json:"is_fixed"`
}

// ID returns the block identity: the goal id joined with the start time in
// seconds since the epoch. Two blocks for the same goal and start are the
// same block.
func (b ScheduledBlock) ID() string {
	return BlockID(b.GoalID, b.Start)
}

// Duration returns the planned length of the block.
func (b ScheduledBlock) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// DurationHours returns the planned length of the block in hours.
func (b ScheduledBlock) DurationHours() float64 {
	return b.Duration().Hours()
}

// BlockID builds a block identity from its parts. The seconds component always
// carries a fractional part ("1700000000.0") so ids match the ones recorded
// by the mobile client.
func BlockID(goalID string, start time.Time) string {
	secs := float64(start.UnixNano()) / float64(time.Second)
	s := strconv.FormatFloat(secs, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return goalID + "-" + s
}

type UnmetGoal struct {
	GoalID         string  `json:"goal_id"`
	GoalName       string  `json:"goal_name"`
	TargetHours    float64 `json:"target_hours"`
	AllocatedHours float64 `json:"allocated_hours"`
	DeficitHours   float64 `json:"deficit_hours"`
}

// DayCapacity summarizes one calendar day. Allocated plus spare may be less
// than total; the values are taken as sent.
type DayCapacity struct {
	Date           string  `json:"date"` // YYYY-MM-DD format
	TotalHours     float64 `json:"total_hours"`
	AllocatedHours float64 `json:"allocated_hours"`
	SpareHours     float64 `json:"spare_hours"`
}

// ScheduleDocument is the full plan produced by the planning service.
type ScheduleDocument struct {
	Blocks           []ScheduledBlock `json:"blocks"`
	Unmet            []UnmetGoal      `json:"unmet"`
	CapacityByDay    []DayCapacity    `json:"capacity_by_day"`
	CoachingMessages []string         `json:"coaching_messages"`
}

// BlocksOn returns the blocks starting on the calendar day of day in loc,
// ordered by start time.
func (d ScheduleDocument) BlocksOn(day time.Time, loc *time.Location) []ScheduledBlock {
	if loc == nil {
		loc = time.Local
	}
	y, m, dd := day.In(loc).Date()
	var blocks []ScheduledBlock
	for _, b := range d.Blocks {
		by, bm, bd := b.Start.In(loc).Date()
		if by == y && bm == m && bd == dd {
			blocks = append(blocks, b)
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
	return blocks
}

// CapacityOn returns the capacity entry keyed by the calendar day of day in
// loc, or nil if the document has none.
func (d ScheduleDocument) CapacityOn(day time.Time, loc *time.Location) *DayCapacity {
	if loc == nil {
		loc = time.Local
	}
	key := day.In(loc).Format("2006-01-02")
	for i := range d.CapacityByDay {
		if d.CapacityByDay[i].Date == key {
			c := d.CapacityByDay[i]
			return &c
		}
	}
	return nil
}
