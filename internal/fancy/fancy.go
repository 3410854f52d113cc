// Package fancy provides the lipgloss styling for operator-facing output:
// section banners for the launch and landing pipelines and the REVIEW
// status trees.
package fancy

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// Base colors shared across the CLI.
var (
	ColorBlue     = lipgloss.Color("39")
	ColorOrange   = lipgloss.Color("208")
	ColorGreen    = lipgloss.Color("82")
	ColorYellow   = lipgloss.Color("228")
	ColorRed      = lipgloss.Color("196")
	ColorGray     = lipgloss.Color("250")
	ColorWhite    = lipgloss.Color("15")
	ColorDarkGray = lipgloss.Color("240")
)

// Shared styles.
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	GoStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	NoGoStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	FailedStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	RunningStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)
)

// bannerWidth is the width of section banners.
const bannerWidth = 50

// Banner renders a section header like the launch pipeline emits before
// each phase: the title centered between runs of "=" so the banner is
// bannerWidth columns wide, e.g. 16 "=" on either side of " LAUNCH READINESS ".
func Banner(title string) string {
	pad := bannerWidth - len(title) - 2
	if pad < 4 {
		pad = 4
	}
	left := pad / 2
	right := pad - left
	return HeaderStyle.Render(
		strings.Repeat("=", left) + " " + title + " " + strings.Repeat("=", right))
}

// ReviewTree builds the status tree a pipeline renders after its REVIEW
// phase: a header-styled root with dimmed branch connectors, ready to take
// StatusNode leaves.
func ReviewTree(title string) *tree.Tree {
	return tree.New().
		Root(HeaderStyle.Render(title)).
		EnumeratorStyle(BranchStyle.PaddingRight(1))
}

// StatusNode renders one subsystem status leaf for a REVIEW tree.
func StatusNode(name, status, detail string) string {
	var style lipgloss.Style
	switch status {
	case "Running":
		style = RunningStyle
	case "Failed":
		style = FailedStyle
	case "Ready", "Launching":
		style = GoStyle
	default:
		style = InfoStyle
	}
	out := style.Render(status) + " " + name
	if detail != "" {
		out += " " + InfoStyle.Render(detail)
	}
	return out
}

// Ellipsize shortens a string to width runes for narrow displays, ending
// it with a single ellipsis rune when anything was cut.
func Ellipsize(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
