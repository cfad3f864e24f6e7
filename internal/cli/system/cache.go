package system

import (
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/chronoforge/internal/cli"
)

// CacheShowCmd prints the cached schedule snapshot.
type CacheShowCmd struct{}

func (cmd *CacheShowCmd) Run(ctx *cli.Context) error {
	snap, ok := ctx.Cache.Snapshot()
	if !ok {
		ctx.Println("No cached plan.")
		return nil
	}

	doc := snap.Document
	ctx.Printf("Cached %s (%s)\n", humanize.Time(snap.CapturedAt), snap.CapturedAt.In(ctx.Loc()).Format("2006-01-02 15:04"))
	ctx.Printf("  %d blocks, %d days of capacity, %d unmet goals\n", len(doc.Blocks), len(doc.CapacityByDay), len(doc.Unmet))

	today := doc.BlocksOn(ctx.Clock(), ctx.Loc())
	ctx.Println("Today:")
	cli.RenderBlocks(ctx.Writer(), today, ctx.Loc())
	return nil
}

// CacheClearCmd removes the cached schedule snapshot.
type CacheClearCmd struct{}

func (cmd *CacheClearCmd) Run(ctx *cli.Context) error {
	ctx.Cache.Clear()
	ctx.Println("✓ Cached plan cleared")
	return nil
}
