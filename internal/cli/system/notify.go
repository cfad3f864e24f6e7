package system

import (
	"fmt"

	"github.com/julianstephens/chronoforge/internal/cli"
	"github.com/julianstephens/chronoforge/internal/logger"
)

// NotifyCmd delivers every reminder that has come due and removes it from
// the registry. It is meant to run from cron or a launchd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	due, err := ctx.Reminders.Due(ctx.Clock())
	if err != nil {
		return fmt.Errorf("failed to read reminders: %w", err)
	}
	if len(due) == 0 {
		if c.DryRun {
			ctx.Println("No reminders due.")
		}
		return nil
	}

	var delivered []string
	for _, r := range due {
		if c.DryRun {
			ctx.Printf("[DryRun] %s: %s\n", r.Content.Title, r.Content.Body)
			continue
		}
		if err := ctx.Notifier.Notify(r.Content.Title, r.Content.Body); err != nil {
			// Leave it registered so the next run retries
			logger.Warn("Failed to send notification", "id", r.ID, "error", err)
			continue
		}
		delivered = append(delivered, r.ID)
	}

	if len(delivered) == 0 {
		return nil
	}
	if err := ctx.Reminders.Remove(delivered...); err != nil {
		return fmt.Errorf("failed to remove delivered reminders: %w", err)
	}
	logger.Debug("Reminders delivered", "count", len(delivered))
	return nil
}
