package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/notify"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders an upper-cased section title over a rule.
func Header(text string) string {
	upper := strings.ToUpper(text)
	return StyleHeader.Render(upper) + "\n" + StyleDim.Render(strings.Repeat("─", lipgloss.Width(upper)))
}

func Dim(text string) string { return StyleDim.Render(text) }

func Bold(text string) string { return StyleBold.Render(text) }

// GoalStatusPill renders a goal status with a colored marker.
func GoalStatusPill(s domain.GoalStatus) string {
	switch s {
	case domain.GoalCompleted:
		return StyleGreen.Render("✔ " + string(s))
	case domain.GoalInProgress:
		return StyleYellow.Render("◐ " + string(s))
	case domain.GoalActive:
		return StyleBlue.Render("● " + string(s))
	case domain.GoalCancelled, domain.GoalDeleted, domain.GoalArchived:
		return StyleDim.Render("✖ " + string(s))
	default:
		return StyleFg.Render("○ " + string(s))
	}
}

func MilestoneStatusPill(s domain.MilestoneStatus) string {
	switch s {
	case domain.MilestoneCompleted:
		return StyleGreen.Render("✔ " + string(s))
	case domain.MilestoneInProgress:
		return StyleYellow.Render("◐ " + string(s))
	case domain.MilestoneOverdue:
		return StyleRed.Render("! " + string(s))
	case domain.MilestoneActive:
		return StyleBlue.Render("● " + string(s))
	case domain.MilestoneCancelled, domain.MilestoneDeleted, domain.MilestoneArchived:
		return StyleDim.Render("✖ " + string(s))
	default:
		return StyleFg.Render("○ " + string(s))
	}
}

func PriorityLabel(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render(string(p))
	case domain.PriorityLow:
		return StyleDim.Render(string(p))
	default:
		return StyleFg.Render(string(p))
	}
}

// FormatNotification renders one notification line.
func FormatNotification(n notify.Notification) string {
	var marker string
	switch n.Level {
	case notify.LevelSuccess:
		marker = StyleGreen.Render("✔")
	case notify.LevelError:
		marker = StyleRed.Render("✖")
	default:
		marker = StyleBlue.Render("ℹ")
	}
	line := fmt.Sprintf("%s %s", marker, Bold(n.Title))
	if n.Description != "" {
		line += " " + Dim(n.Description)
	}
	return line
}
