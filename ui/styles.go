package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
)

var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ECFD65")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	noticeInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF"))
	noticeSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	noticeFailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EE6FF8")).
			Bold(true)

	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A56E0"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// noticeStyle picks the style matching the notice's kind.
func noticeStyle(kind radio.NoticeKind) lipgloss.Style {
	switch kind {
	case radio.NoticeSuccess:
		return noticeSuccessStyle
	case radio.NoticeFailure:
		return noticeFailureStyle
	default:
		return noticeInfoStyle
	}
}

// renderVolumeBar draws a horizontal level meter for a volume in [0, 1].
func renderVolumeBar(level float64, width int) string {
	if width < 4 {
		return ""
	}
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	filledWidth := int(level * float64(width))
	if filledWidth > width {
		filledWidth = width
	}

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)
	return barFilledStyle.Render(filled) + barEmptyStyle.Render(empty)
}
