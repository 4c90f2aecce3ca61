package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/issuesreport/internal/rules"
)

// Styles contains all lipgloss styles for terminal output
type Styles struct {
	enabled bool

	// Severity styles
	Blocker  lipgloss.Style
	Critical lipgloss.Style
	Major    lipgloss.Style
	Minor    lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Resolved lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Path      lipgloss.Style
	Rule      lipgloss.Style
	Separator lipgloss.Style
	Selected  lipgloss.Style

	// Icons (degraded to ASCII when not interactive)
	IconNew      string
	IconResolved string
	IconSuccess  string
}

// NewStyles creates a new Styles instance
// When enabled is false, styles return text unchanged (for non-TTY output)
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		s.Blocker = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")) // Red bold
		s.Critical = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))           // Red
		s.Major = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))             // Yellow
		s.Minor = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))             // Cyan
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))              // Blue
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))           // Green
		s.Resolved = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true)

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Path = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Rule = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Selected = lipgloss.NewStyle().Reverse(true)

		s.IconNew = "●"      // ●
		s.IconResolved = "✓" // ✓
		s.IconSuccess = "✓"
	} else {
		s.Blocker = lipgloss.NewStyle()
		s.Critical = lipgloss.NewStyle()
		s.Major = lipgloss.NewStyle()
		s.Minor = lipgloss.NewStyle()
		s.Info = lipgloss.NewStyle()
		s.Success = lipgloss.NewStyle()
		s.Resolved = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Subheader = lipgloss.NewStyle()
		s.Path = lipgloss.NewStyle()
		s.Rule = lipgloss.NewStyle()
		s.Separator = lipgloss.NewStyle()
		s.Selected = lipgloss.NewStyle()

		s.IconNew = "NEW"
		s.IconResolved = "FIXED"
		s.IconSuccess = "OK:"
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Severity returns the style used for sev
func (s *Styles) Severity(sev rules.Severity) lipgloss.Style {
	switch sev {
	case rules.Blocker:
		return s.Blocker
	case rules.Critical:
		return s.Critical
	case rules.Major:
		return s.Major
	case rules.Minor:
		return s.Minor
	default:
		return s.Info
	}
}
