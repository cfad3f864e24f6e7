package plans

import (
	"context"
	"fmt"

	"github.com/julianstephens/chronoforge/internal/cli"
	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/utils"
)

// PlanCmd prints the plan for one day of the current schedule.
type PlanCmd struct {
	Date string `help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	loc := ctx.Loc()

	day := ctx.Clock()
	if c.Date != "" && c.Date != "today" {
		var err error
		day, err = utils.ParseDateInLocation(c.Date, loc)
		if err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
		}
	}

	horizon := utils.StartOfDay(ctx.Clock(), loc).AddDate(0, 0, constants.PlanHorizonDays)
	if !day.Before(horizon) {
		return fmt.Errorf("only the next %d days are planned", constants.PlanHorizonDays)
	}

	// Refresh first so the cache holds the newest schedule; a failed
	// refresh leaves the previous snapshot in place.
	state := ctx.Engine.Refresh(context.Background())
	if state.ErrorMessage != "" {
		ctx.Println(state.ErrorMessage)
	}

	snap, ok := ctx.Cache.Snapshot()
	if !ok {
		ctx.Println("No plan available yet.")
		return nil
	}

	ctx.Printf("Plan for %s\n", utils.DayKey(day, loc))
	cli.RenderBlocks(ctx.Writer(), snap.Document.BlocksOn(day, loc), loc)

	if capacity := snap.Document.CapacityOn(day, loc); capacity != nil {
		ctx.Printf("\n%.1fh total, %.1fh planned, %.1fh free\n",
			capacity.TotalHours, capacity.AllocatedHours, capacity.SpareHours)
	}

	if len(snap.Document.Unmet) > 0 {
		ctx.Println("\nBehind this week:")
		for _, g := range snap.Document.Unmet {
			ctx.Printf("  %s: %.1fh of %.1fh (%.1fh short)\n", g.GoalName, g.AllocatedHours, g.TargetHours, g.DeficitHours)
		}
	}
	return nil
}
