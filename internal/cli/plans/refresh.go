package plans

import (
	"context"

	"github.com/julianstephens/chronoforge/internal/cli"
)

// RefreshCmd syncs with the planning service and prints today's plan.
type RefreshCmd struct {
	HideCheckIn bool `help:"Do not prompt for the block awaiting a check-in." name:"hide-checkin"`
}

func (c *RefreshCmd) Run(ctx *cli.Context) error {
	state := ctx.Engine.Refresh(context.Background())
	if c.HideCheckIn {
		ctx.Engine.DismissPending()
		state = ctx.Engine.State()
	}
	cli.RenderState(ctx.Writer(), state, ctx.Clock(), ctx.Loc())
	return nil
}
