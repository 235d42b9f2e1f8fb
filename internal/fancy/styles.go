// Package fancy provides lipgloss styling for devserve's terminal output.
package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorBlue     = lipgloss.Color("39")
	ColorGreen    = lipgloss.Color("82")
	ColorYellow   = lipgloss.Color("228")
	ColorOrange   = lipgloss.Color("208")
	ColorCyan     = lipgloss.Color("45")
	ColorRed      = lipgloss.Color("196")
	ColorGray     = lipgloss.Color("250")
	ColorWhite    = lipgloss.Color("15")
	ColorDarkGray = lipgloss.Color("240") // tree branches
)

var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	URLStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Underline(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)
)

// URLText styles a URL
func URLText(text string) string {
	return URLStyle.Render(text)
}

// OKText styles a success message (green)
func OKText(text string) string {
	return OKStyle.Render(text)
}

// WarnText styles a warning note (orange)
func WarnText(text string) string {
	return WarnStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// ValueText styles a config value
func ValueText(text string) string {
	return ValueStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// Redact keeps the first n characters of a secret.
func Redact(secret string, n int) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= n {
		return secret + "..."
	}
	return secret[:n] + "..."
}
