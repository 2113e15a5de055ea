/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"os"

	"charm.land/lipgloss/v2"
	"github.com/orien/cistack/internal/aws"
)

// Styles contains all the styles for rendering diff output
type Styles struct {
	Added    lipgloss.Style
	Removed  lipgloss.Style
	Modified lipgloss.Style

	StatusNew      lipgloss.Style
	StatusChanges  lipgloss.Style
	StatusNoChange lipgloss.Style

	HeaderTitle   lipgloss.Style
	SectionHeader lipgloss.Style

	Key     lipgloss.Style
	Arrow   lipgloss.Style
	Subtle  lipgloss.Style
	Warning lipgloss.Style

	UseColour bool
}

// NewStyles creates the output styles. Colours are picked to suit the
// terminal background.
func NewStyles(useColour bool) *Styles {
	plain := lipgloss.NewStyle()
	s := &Styles{
		Added:          plain,
		Removed:        plain,
		Modified:       plain,
		StatusNew:      plain,
		StatusChanges:  plain,
		StatusNoChange: plain,
		HeaderTitle:    plain,
		SectionHeader:  plain,
		Key:            plain,
		Arrow:          plain,
		Subtle:         plain,
		Warning:        plain,
		UseColour:      useColour,
	}
	if !useColour {
		return s
	}

	headerText, warningText, successText, keyText, subtleText, activeText := "4", "3", "2", "6", "8", "5"
	if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
		headerText, warningText, successText, keyText, subtleText, activeText = "12", "11", "10", "14", "8", "13"
	}

	// red/green/yellow regardless of background
	s.Added = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	s.Removed = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	s.Modified = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	s.StatusNew = lipgloss.NewStyle().Foreground(lipgloss.Color(successText)).Bold(true)
	s.StatusChanges = lipgloss.NewStyle().Foreground(lipgloss.Color(warningText)).Bold(true)
	s.StatusNoChange = lipgloss.NewStyle().Foreground(lipgloss.Color(subtleText)).Bold(true)

	s.HeaderTitle = lipgloss.NewStyle().Foreground(lipgloss.Color(headerText)).Bold(true)
	s.SectionHeader = lipgloss.NewStyle().Foreground(lipgloss.Color(activeText)).Bold(true)

	s.Key = lipgloss.NewStyle().Foreground(lipgloss.Color(keyText))
	s.Arrow = lipgloss.NewStyle().Foreground(lipgloss.Color(subtleText))
	s.Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color(subtleText))
	s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color(warningText)).Bold(true)

	return s
}

// GetChangeSymbol returns the appropriate symbol for a change type
func (s *Styles) GetChangeSymbol(changeType ChangeType) string {
	switch changeType {
	case ChangeTypeAdd:
		return s.Added.Render("+")
	case ChangeTypeModify:
		return s.Modified.Render("~")
	case ChangeTypeRemove:
		return s.Removed.Render("-")
	default:
		return "?"
	}
}

// GetChangeSetSymbol returns the appropriate symbol for a changeset action
func (s *Styles) GetChangeSetSymbol(action string) string {
	switch action {
	case aws.ActionAdd:
		return s.Added.Render("+")
	case aws.ActionModify:
		return s.Modified.Render("~")
	case aws.ActionRemove:
		return s.Removed.Render("-")
	default:
		return "?"
	}
}

// ShouldUseColour determines if colour output should be used
func ShouldUseColour() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
