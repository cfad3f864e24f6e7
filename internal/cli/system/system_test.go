package system

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/chronoforge/internal/cache"
	"github.com/julianstephens/chronoforge/internal/cli"
	"github.com/julianstephens/chronoforge/internal/config"
	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/keyring"
	"github.com/julianstephens/chronoforge/internal/models"
	"github.com/julianstephens/chronoforge/internal/reminders"
)

var testNow = time.Date(2026, 3, 9, 12, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) Notify(title, body string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, title+": "+body)
	return nil
}

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, *recordingNotifier) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	n := &recordingNotifier{}
	ctx := &cli.Context{
		Config:    config.Default(dir),
		Cache:     cache.NewFileStore(filepath.Join(dir, constants.CacheFileName)),
		Reminders: reminders.NewFileRegistry(filepath.Join(dir, constants.RemindersFileName)),
		Notifier:  n,
		Out:       out,
		Now:       func() time.Time { return testNow },
		Location:  time.UTC,
	}
	return ctx, out, n
}

func scheduleReminder(t *testing.T, ctx *cli.Context, id string, at time.Time, title string) {
	t.Helper()
	if err := ctx.Reminders.Schedule(context.Background(), id, at, reminders.Content{Title: title, Body: "body"}); err != nil {
		t.Fatalf("failed to schedule reminder: %v", err)
	}
}

func reminderIDs(t *testing.T, ctx *cli.Context) []string {
	t.Helper()
	list, err := ctx.Reminders.List()
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	return ids
}

func TestNotifyCmd_DeliversDueReminders(t *testing.T) {
	ctx, _, n := setupTestContext(t)
	scheduleReminder(t, ctx, "checkin-a", testNow.Add(-time.Minute), "Check-in")
	scheduleReminder(t, ctx, "event-b", testNow, "Starting Soon")
	scheduleReminder(t, ctx, "event-c", testNow.Add(time.Hour), "Later")

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify command failed: %v", err)
	}

	if len(n.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2: %v", len(n.sent), n.sent)
	}
	ids := reminderIDs(t, ctx)
	if len(ids) != 1 || ids[0] != "event-c" {
		t.Errorf("remaining reminders = %v, want [event-c]", ids)
	}

	// Idempotency: a second run sends nothing new
	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(n.sent) != 2 {
		t.Errorf("second run sent again: %v", n.sent)
	}
}

func TestNotifyCmd_FailedDeliveryIsRetried(t *testing.T) {
	ctx, _, n := setupTestContext(t)
	n.err = errors.New("tray app not running")
	scheduleReminder(t, ctx, "checkin-a", testNow.Add(-time.Minute), "Check-in")

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify command failed: %v", err)
	}
	if ids := reminderIDs(t, ctx); len(ids) != 1 {
		t.Errorf("undelivered reminder was removed: %v", ids)
	}
}

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx, out, n := setupTestContext(t)

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No reminders due.") {
		t.Errorf("unexpected output: %s", out.String())
	}

	scheduleReminder(t, ctx, "checkin-a", testNow.Add(-time.Minute), "Check-in")
	out.Reset()
	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[DryRun] Check-in: body") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if len(n.sent) != 0 {
		t.Errorf("dry run sent notifications: %v", n.sent)
	}
	if ids := reminderIDs(t, ctx); len(ids) != 1 {
		t.Errorf("dry run removed reminders: %v", ids)
	}
}

func TestRemindersListCmd(t *testing.T) {
	ctx, out, _ := setupTestContext(t)

	if err := (&RemindersListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No reminders scheduled.") {
		t.Errorf("unexpected output: %s", out.String())
	}

	scheduleReminder(t, ctx, "event-b", testNow.Add(2*time.Hour), "Starting Soon")
	out.Reset()
	if err := (&RemindersListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Mon 14:30") || !strings.Contains(out.String(), "Starting Soon: body") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestCacheCmds(t *testing.T) {
	ctx, out, _ := setupTestContext(t)

	if err := (&CacheShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No cached plan.") {
		t.Errorf("unexpected output: %s", out.String())
	}

	ctx.Cache.Save(models.ScheduleDocument{
		Blocks: []models.ScheduledBlock{
			{GoalID: "g1", GoalName: "Reading", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)},
		},
		CapacityByDay: []models.DayCapacity{{Date: "2026-03-09", TotalHours: 10}},
	})

	out.Reset()
	if err := (&CacheShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "1 blocks, 1 days of capacity, 0 unmet goals") || !strings.Contains(got, "Reading") {
		t.Errorf("unexpected output: %s", got)
	}

	if err := (&CacheClearCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := ctx.Cache.Load(); ok {
		t.Error("cache clear left a snapshot behind")
	}
}

func TestSessionCmds(t *testing.T) {
	gokeyring.MockInit()
	ctx, out, _ := setupTestContext(t)

	if err := (&LoginCmd{Token: "   "}).Run(ctx); err == nil {
		t.Error("expected an error for a blank token")
	}

	if err := (&LoginCmd{Token: "tok-123"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token, ok := keyring.TokenProvider(); !ok || token != "tok-123" {
		t.Errorf("TokenProvider() = %q, %v", token, ok)
	}

	out.Reset()
	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Source:    " + constants.DefaultBaseURL, "✓ logged in", "file backend, empty", "0 scheduled"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, out.String())
		}
	}

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := keyring.TokenProvider(); ok {
		t.Error("token still present after logout")
	}

	out.Reset()
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if !strings.Contains(out.String(), "Already logged out.") {
		t.Errorf("unexpected output: %s", out.String())
	}
}
