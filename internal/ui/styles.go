package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mediashelf/mediashelf/internal/models"
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e2e8f0"))
	SubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	ActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366f1"))
	SectionStyle  = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
)

// CardStyle frames one grid card
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#334155")).
	Padding(0, 1).
	Width(28)

// PanelStyle frames a settings panel
var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#475569")).
	Padding(0, 1)

var statusColors = map[models.Status]string{
	models.StatusWishlist:   "#818cf8",
	models.StatusOwned:      "#4ade80",
	models.StatusInProgress: "#fbbf24",
	models.StatusCompleted:  "#4ade80",
	models.StatusDropped:    "#f87171",
}

// ToastStyle colors a toast by level
func ToastStyle(level Level) lipgloss.Style {
	switch level {
	case LevelSuccess:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	case LevelError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	}
}

// StatusBadge renders a status label in its color
func StatusBadge(s models.Status) string {
	color, ok := statusColors[s]
	if !ok {
		color = "#64748b"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s.Label())
}

// GradeColor returns the display color of a grade
func GradeColor(g *models.Grade) string {
	if g == nil {
		return "#64748b"
	}
	s := string(*g)
	switch {
	case s == "F":
		return "#ef4444"
	case strings.HasPrefix(s, "D"):
		return "#f97316"
	case strings.HasPrefix(s, "C"):
		return "#eab308"
	case strings.HasPrefix(s, "B"):
		return "#22c55e"
	default:
		return "#6366f1"
	}
}

// GradeBadge renders a rating, or a dash when unrated
func GradeBadge(g *models.Grade) string {
	text := "—"
	if g != nil {
		text = string(*g)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(GradeColor(g))).Render(text)
}

// TagChip renders a tag in its own color
func TagChip(t models.Tag) string {
	color := t.Color
	if color == "" {
		color = "#94a3b8"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("#" + t.Name)
}

// EmptyState renders the icon/title/text block shown instead of an empty list
func EmptyState(w io.Writer, icon, title, text string) {
	block := lipgloss.JoinVertical(lipgloss.Center,
		icon,
		TitleStyle.Render(title),
		MutedStyle.Render(text),
	)
	fmt.Fprintln(w, lipgloss.NewStyle().Padding(1, 2).Render(block))
}

// ErrorPanel renders the fallback shown when a view fails to render
func ErrorPanel(w io.Writer, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	EmptyState(w, "⚠️", "Something went wrong", msg)
}

// Bar renders a horizontal bar of width cells filled to ratio
func Bar(ratio float64, width int, color string) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled))
	return fill + MutedStyle.Render(strings.Repeat("░", width-filled))
}
