// Package style holds the palette and glyphs shared by every terminal writer.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2F80ED")
)

// Glyphs, one per event kind plus log levels.
const (
	Plus    = "+"
	Tilde   = "~"
	Minus   = "-"
	Arrow   = "→"
	Cross   = "✗"
	Warning = "!"
)
