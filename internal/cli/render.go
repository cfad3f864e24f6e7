package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/engine"
	"github.com/julianstephens/chronoforge/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	barWidth = 20
)

var categoryColors = map[models.Category]lipgloss.Color{
	models.CategoryStudy:    lipgloss.Color("39"),
	models.CategoryFitness:  lipgloss.Color("82"),
	models.CategoryCareer:   lipgloss.Color("213"),
	models.CategoryPersonal: lipgloss.Color("221"),
	models.CategoryProject:  lipgloss.Color("141"),
	models.CategorySocial:   lipgloss.Color("209"),
}

func categoryLabel(c models.Category) string {
	if c == "" {
		return ""
	}
	color, ok := categoryColors[c]
	if !ok {
		return c.DisplayName()
	}
	return lipgloss.NewStyle().Foreground(color).Render(c.DisplayName())
}

// RenderState prints the dashboard for one view-state.
func RenderState(w io.Writer, state engine.ViewState, now time.Time, loc *time.Location) {
	if state.NeedsReconnect {
		fmt.Fprintln(w, dangerStyle.Render("Session expired. Run `chronoforge login` to reconnect."))
	}
	if state.ErrorMessage != "" {
		fmt.Fprintln(w, dangerStyle.Render(state.ErrorMessage))
	}
	if state.FromCache && !state.CachedAt.IsZero() {
		fmt.Fprintln(w, mutedStyle.Render("Plan cached "+humanize.Time(state.CachedAt)))
	}

	fmt.Fprintln(w, headerStyle.Render("Today · "+now.In(loc).Format("Mon Jan 2")))
	RenderBlocks(w, state.TodayBlocks, loc)

	if state.TodayCapacity != nil {
		fmt.Fprintf(w, "\n%s %.1fh planned, %.1fh free\n",
			capacityBar(state.CapacityFraction()), state.AllocatedToday(), state.FreeToday())
	}

	if next := state.NextBlock(now); next != nil {
		fmt.Fprintf(w, "Next: %s at %s\n", next.GoalName, next.Start.In(loc).Format(constants.TimeFormat))
	}

	if b := state.PendingCheckIn; b != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, pendingStyle.Render(fmt.Sprintf("Check in: %s (%s–%s)",
			b.GoalName, b.Start.In(loc).Format(constants.TimeFormat), b.End.In(loc).Format(constants.TimeFormat))))
		fmt.Fprintln(w, mutedStyle.Render("  chronoforge checkin --text \"what you did\""))
	}

	if len(state.CoachingMessages) > 0 {
		fmt.Fprintln(w)
		for _, msg := range state.CoachingMessages {
			if strings.HasPrefix(msg, "⚠️") {
				fmt.Fprintln(w, warningStyle.Render(msg))
				continue
			}
			fmt.Fprintln(w, "• "+msg)
		}
	}

	if len(state.Tasks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Tasks"))
		for _, t := range state.Tasks {
			due := mutedStyle.Render("no due date")
			if t.DueAt != nil {
				due = "due " + humanize.RelTime(*t.DueAt, now, "ago", "from now")
			}
			fmt.Fprintf(w, "  %s · %s  %s\n", t.CourseName, t.AssignmentName, due)
		}
	}

	if len(state.Signals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Signals"))
		for _, s := range state.Signals {
			fmt.Fprintf(w, "  %s %s\n", s.Subject, mutedStyle.Render("("+s.Sender+")"))
		}
	}

	if in := state.Insights; in != nil && in.Available && in.Summary != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Insights"))
		fmt.Fprintln(w, "  "+in.Summary)
		if in.WhereToAddMore != "" {
			fmt.Fprintln(w, mutedStyle.Render("  "+in.WhereToAddMore))
		}
	}
}

// RenderBlocks prints blocks as a timeline.
func RenderBlocks(w io.Writer, blocks []models.ScheduledBlock, loc *time.Location) {
	if len(blocks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  Nothing scheduled."))
		return
	}
	for _, b := range blocks {
		name := b.GoalName
		if b.IsFixed {
			name = mutedStyle.Render(name + " (fixed)")
		}
		fmt.Fprintf(w, "  %s–%s  %s  %s\n",
			b.Start.In(loc).Format(constants.TimeFormat),
			b.End.In(loc).Format(constants.TimeFormat),
			name,
			categoryLabel(b.Category),
		)
	}
}

// RenderCheckInResult prints the assessment returned for a check-in.
func RenderCheckInResult(w io.Writer, res models.CheckInResult) {
	if res.Assessment != "" {
		fmt.Fprintln(w, headerStyle.Render("Assessment"))
		fmt.Fprintln(w, "  "+res.Assessment)
	}
	if res.MotivationalMessage != "" {
		fmt.Fprintln(w, pendingStyle.Render(res.MotivationalMessage))
	}
}

func capacityBar(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(barWidth) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}
