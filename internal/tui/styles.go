package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles for voicepad terminal output
var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Section style for recording group labels ("Today", ...)
	StyleSection = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// Success style for positive feedback
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Error style for error messages
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Muted style for secondary text
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and transcription previews
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)

	// Active style for the currently playing recording
	StyleActive = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

const logoASCII = `
             _                          _
__   _____ (_) ___ ___ _ __   __ _  __| |
\ \ / / _ \| |/ __/ _ \ '_ \ / _` + "`" + ` |/ _` + "`" + ` |
 \ V / (_) | | (_|  __/ |_) | (_| | (_| |
  \_/ \___/|_|\___\___| .__/ \__,_|\__,_|
                      |_|`

// Logo returns the voicepad ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
