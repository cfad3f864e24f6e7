package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/julianstephens/chronoforge/internal/errors"
	"github.com/julianstephens/chronoforge/internal/logger"
)

// fetch is one remote call in a fan-out. A critical fetch decides the
// outcome of the whole join; a best-effort fetch degrades to its zero result
// when it fails.
type fetch struct {
	name     string
	critical bool
	run      func(ctx context.Context) error
}

func critical(name string, run func(ctx context.Context) error) fetch {
	return fetch{name: name, critical: true, run: run}
}

func bestEffort(name string, run func(ctx context.Context) error) fetch {
	return fetch{name: name, run: run}
}

// join runs every fetch concurrently and waits for all of them. It returns
// the first critical failure; best-effort failures are logged and dropped.
// A critical failure cancels the context seen by the remaining fetches.
func join(ctx context.Context, fetches ...fetch) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetches {
		g.Go(func() error {
			err := f.run(gctx)
			if err == nil {
				return nil
			}
			if f.critical {
				return fmt.Errorf("%s: %w", f.name, err)
			}
			logger.Debug("Feed degraded", "feed", f.name, "kind", apperrors.KindDegraded, "error", err)
			return nil
		})
	}
	return g.Wait()
}
