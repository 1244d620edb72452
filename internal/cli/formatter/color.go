package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = ColorOrange
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleOrange = lipgloss.NewStyle().Foreground(ColorOrange)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PriorityStyle returns the color used for bars and dots of priority p.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityCritical:
		return StyleRed
	case domain.PriorityHigh:
		return StyleOrange
	case domain.PriorityMedium:
		return StyleYellow
	case domain.PriorityLow:
		return StyleBlue
	default:
		return StyleDim
	}
}

// PriorityDot renders "● High" in the priority color.
func PriorityDot(p domain.Priority) string {
	if p == "" {
		return StyleDim.Render("● --")
	}
	return PriorityStyle(p).Render("● " + p.Label())
}

// StatusPill returns a colored status indicator such as "● In Progress".
func StatusPill(s domain.TaskStatus) string {
	switch s {
	case domain.StatusNotStarted:
		return StyleBlue.Render("○ Not Started")
	case domain.StatusPlanning:
		return StylePurple.Render("◇ Planning")
	case domain.StatusPending:
		return StyleYellow.Render("◌ Pending")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.StatusCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(s))
	}
}

// UrgencyStyle colors a deadline countdown.
func UrgencyStyle(u stats.Urgency) lipgloss.Style {
	switch u {
	case stats.UrgencyOverdue:
		return StyleRed
	case stats.UrgencyDueSoon:
		return StyleYellow
	default:
		return StyleFg
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
