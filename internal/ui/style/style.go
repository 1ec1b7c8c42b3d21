// Package style holds the colors and glyphs shared by the log and progress output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#7C3AED")
	Muted  = lipgloss.Color("#6B7280")
	Green  = lipgloss.Color("#16A34A")
	Red    = lipgloss.Color("#DC2626")
	Yellow = lipgloss.Color("#D97706")
)

// Glyphs.
const (
	Arrow   = "==>"
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Prompt  = "$"
)
