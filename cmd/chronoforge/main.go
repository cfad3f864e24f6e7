package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/chronoforge/internal/cache"
	"github.com/julianstephens/chronoforge/internal/cli"
	"github.com/julianstephens/chronoforge/internal/cli/plans"
	"github.com/julianstephens/chronoforge/internal/cli/system"
	"github.com/julianstephens/chronoforge/internal/config"
	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/engine"
	apperrors "github.com/julianstephens/chronoforge/internal/errors"
	"github.com/julianstephens/chronoforge/internal/keyring"
	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/notifier"
	"github.com/julianstephens/chronoforge/internal/reminders"
	"github.com/julianstephens/chronoforge/internal/remote"
	"github.com/julianstephens/chronoforge/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Configuration directory." type:"path" default:"${config_dir}"`
	Debug     bool   `help:"Enable debug logging."`
	Demo      bool   `help:"Use the built-in demo plan instead of the planning service."`

	Refresh plans.RefreshCmd `cmd:"" help:"Sync with the planning service and show today's plan." default:"1"`
	Checkin plans.CheckInCmd `cmd:"" help:"Log what you did during the block awaiting a check-in."`
	Plan    plans.PlanCmd    `cmd:"" help:"Show the plan for a day."`
	Cache   struct {
		Show  system.CacheShowCmd  `cmd:"" help:"Show the cached plan." default:"1"`
		Clear system.CacheClearCmd `cmd:"" help:"Remove the cached plan."`
	} `cmd:"" help:"Inspect the offline plan cache."`
	Reminders struct {
		List system.RemindersListCmd `cmd:"" help:"List scheduled reminders." default:"1"`
	} `cmd:"" help:"Inspect scheduled reminders."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Deliver due reminders (used by the system timer)."`
	Login  system.LoginCmd  `cmd:"" help:"Store a session token."`
	Logout system.LogoutCmd `cmd:"" help:"Remove the stored session token."`
	Status system.StatusCmd `cmd:"" help:"Show session, cache and reminder status."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Offline-first companion for your weekly plan"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	configDir, err := utils.ExpandHome(CLI.ConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		apperrors.Fatal(fmt.Errorf("failed to load config: %w", err))
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to initialize logger: %v", err))
	}

	loc := cfg.Location()

	var source remote.Source
	if CLI.Demo {
		source = remote.NewDemo(time.Now, loc)
	} else {
		source = remote.NewClient(cfg.BaseURL, keyring.TokenProvider, cfg.Timeout)
	}

	store := cache.New(cfg.Cache.Backend, cfg.Cache.Dir)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	registry := reminders.NewFileRegistry(cfg.Reminders.Path)

	appCtx := &cli.Context{
		Config:    cfg,
		Engine:    engine.New(source, store, reminders.NewScheduler(registry, time.Now), engine.WithLocation(loc)),
		Cache:     store,
		Reminders: registry,
		Notifier:  notifier.New(),
		Demo:      CLI.Demo,
		Location:  loc,
	}

	logger.Debug("Running command", "command", ctx.Command(), "config_dir", configDir, "demo", CLI.Demo)

	if err := ctx.Run(appCtx); err != nil {
		if closer, ok := store.(io.Closer); ok {
			closer.Close()
		}
		apperrors.Fatal(err)
	}
}
