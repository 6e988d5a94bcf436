package ui

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"strings"
)

const (
	IconSparkle = "✨"
	IconDone    = "✅"
	IconFire    = "🔥"
	IconChat    = "💬"
	IconMic     = "🎙️"
	IconInfo    = "ℹ️"
	IconError   = "🧨"
	IconBook    = "📓"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Remaining renders a quota counter; negative limits are unlimited.
func Remaining(remaining, limit int) string {
	switch {
	case limit < 0:
		return Good.Render("unlimited")
	case remaining <= 0:
		return Bad.Render(fmt.Sprintf("0 of %d left", limit))
	default:
		return Good.Render(fmt.Sprintf("%d of %d left", remaining, limit))
	}
}

func CompletedText(done bool) string {
	if done {
		return Good.Render("done")
	}
	return Warn.Render("pending")
}
