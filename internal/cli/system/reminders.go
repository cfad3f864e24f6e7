package system

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/chronoforge/internal/cli"
)

// RemindersListCmd prints the registered reminders.
type RemindersListCmd struct{}

func (cmd *RemindersListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Reminders.List()
	if err != nil {
		return fmt.Errorf("failed to read reminders: %w", err)
	}
	if len(list) == 0 {
		ctx.Println("No reminders scheduled.")
		return nil
	}

	now := ctx.Clock()
	for _, r := range list {
		ctx.Printf("%s  %-9s  %s: %s\n",
			r.At.In(ctx.Loc()).Format("Mon 15:04"),
			humanize.RelTime(r.At, now, "ago", "from now"),
			r.Content.Title,
			r.Content.Body,
		)
	}
	return nil
}
