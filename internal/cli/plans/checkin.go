package plans

import (
	"context"
	"errors"
	"strings"

	"github.com/julianstephens/chronoforge/internal/cli"
	"github.com/julianstephens/chronoforge/internal/constants"
	apperrors "github.com/julianstephens/chronoforge/internal/errors"
)

// CheckInCmd logs what happened during the block awaiting a check-in.
type CheckInCmd struct {
	Text string `help:"What you did during the block." short:"t"`
}

func (c *CheckInCmd) Run(ctx *cli.Context) error {
	state := ctx.Engine.Refresh(context.Background())
	if state.NeedsReconnect {
		return errors.New("session expired, run `chronoforge login` first")
	}

	block := state.PendingCheckIn
	if block == nil {
		ctx.Println("No block is waiting for a check-in.")
		return nil
	}

	text := strings.TrimSpace(c.Text)
	if text == "" {
		loc := ctx.Loc()
		ctx.Printf("Waiting for a check-in: %s (%s–%s)\n",
			block.GoalName,
			block.Start.In(loc).Format(constants.TimeFormat),
			block.End.In(loc).Format(constants.TimeFormat),
		)
		ctx.Println("Run again with --text \"what you did\".")
		return nil
	}

	res, err := ctx.Engine.SubmitCheckIn(context.Background(), *block, text)
	if err != nil {
		return errors.New(apperrors.UserMessage(err))
	}

	ctx.Printf("✓ Checked in: %s\n", block.GoalName)
	cli.RenderCheckInResult(ctx.Writer(), res)
	ctx.Engine.DismissCheckInResult()

	if next := ctx.Engine.State().PendingCheckIn; next != nil {
		ctx.Printf("\nNext waiting: %s\n", next.GoalName)
	}
	return nil
}
