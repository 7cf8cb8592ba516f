// Package style holds the colors and icons used by CLI log lines.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Text   = lipgloss.Color("#E4E7EC")
	Muted  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
)
