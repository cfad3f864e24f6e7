package system

import (
	"errors"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/chronoforge/internal/cli"
	"github.com/julianstephens/chronoforge/internal/keyring"
)

// LoginCmd stores the session token in the OS keyring.
type LoginCmd struct {
	Token string `help:"Session token issued by the planning service." required:""`
}

func (cmd *LoginCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	if err := keyring.SetToken(token); err != nil {
		return err
	}
	ctx.Println("✓ Session token stored in OS keyring")
	return nil
}

// LogoutCmd removes the session token from the OS keyring. The cached plan
// is kept so it can still be shown.
type LogoutCmd struct{}

func (cmd *LogoutCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.Println("Already logged out.")
			return nil
		}
		return err
	}
	ctx.Println("✓ Logged out")
	return nil
}

// StatusCmd reports the session, cache and reminder state.
type StatusCmd struct{}

func (cmd *StatusCmd) Run(ctx *cli.Context) error {
	if ctx.Demo {
		ctx.Println("Source:    demo")
	} else {
		ctx.Printf("Source:    %s\n", ctx.Config.BaseURL)
	}

	if !keyring.IsAvailable() {
		ctx.Println("Session:   ❌ OS keyring is not available")
	} else if _, ok := keyring.TokenProvider(); ok {
		ctx.Println("Session:   ✓ logged in")
	} else {
		ctx.Println("Session:   ℹ logged out")
	}

	if snap, ok := ctx.Cache.Snapshot(); ok {
		ctx.Printf("Cache:     %s backend, captured %s\n", ctx.Config.Cache.Backend, humanize.Time(snap.CapturedAt))
	} else {
		ctx.Printf("Cache:     %s backend, empty\n", ctx.Config.Cache.Backend)
	}

	list, err := ctx.Reminders.List()
	if err != nil {
		ctx.Printf("Reminders: unreadable (%v)\n", err)
		return nil
	}
	ctx.Printf("Reminders: %d scheduled\n", len(list))
	return nil
}
