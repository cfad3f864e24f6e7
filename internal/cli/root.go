package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/chronoforge/internal/cache"
	"github.com/julianstephens/chronoforge/internal/config"
	"github.com/julianstephens/chronoforge/internal/engine"
	"github.com/julianstephens/chronoforge/internal/reminders"
)

// Sender delivers a desktop notification.
type Sender interface {
	Notify(title, body string) error
}

// Context carries the wired components every command runs against.
type Context struct {
	Config    *config.Config
	Engine    *engine.Engine
	Cache     cache.Store
	Reminders *reminders.FileRegistry
	Notifier  Sender
	Demo      bool

	Out      io.Writer
	Now      func() time.Time
	Location *time.Location
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Clock returns the current time in the configured location.
func (c *Context) Clock() time.Time {
	return c.now().In(c.loc())
}

// Loc returns the configured location.
func (c *Context) Loc() *time.Location {
	return c.loc()
}

// Println writes to the command output.
func (c *Context) Println(a ...any) {
	fmt.Fprintln(c.out(), a...)
}

// Printf writes to the command output.
func (c *Context) Printf(format string, a ...any) {
	fmt.Fprintf(c.out(), format, a...)
}

// Writer returns the command output.
func (c *Context) Writer() io.Writer {
	return c.out()
}
