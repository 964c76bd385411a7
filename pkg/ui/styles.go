// Package ui provides the terminal styles used by the ec2info CLI.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles for CLI output
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// Step prints a progress line such as "==> Copying files".
func Step(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", InfoStyle.Render("==>"), fmt.Sprintf(format, args...))
}

// Success prints a success line.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning line.
func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, WarningStyle.Render("[WARNING] "+fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func Error(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ErrorStyle.Render("[ERROR] "+fmt.Sprintf(format, args...)))
}
