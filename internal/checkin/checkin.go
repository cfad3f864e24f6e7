// Package checkin decides which block of the day is waiting for the user to
// log what happened.
package checkin

import (
	"time"

	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/models"
)

// Pending returns the first block in blocks that is awaiting a check-in at
// now, or nil. A block qualifies when it is not fixed, ended strictly before
// now, ended no more than the grace window ago, and has no check-in record.
func Pending(blocks []models.ScheduledBlock, records []models.CheckIn, now time.Time) *models.ScheduledBlock {
	checked := make(map[string]struct{}, len(records))
	for _, r := range records {
		checked[r.BlockID] = struct{}{}
	}

	for i := range blocks {
		b := blocks[i]
		if !Eligible(b, now) {
			continue
		}
		if _, done := checked[b.ID()]; done {
			continue
		}
		return &b
	}
	return nil
}

// Eligible reports whether b could be checked in at now, ignoring existing
// records.
func Eligible(b models.ScheduledBlock, now time.Time) bool {
	if b.IsFixed {
		return false
	}
	if !b.End.Before(now) {
		return false
	}
	return now.Sub(b.End) <= constants.CheckInGraceWindow
}
