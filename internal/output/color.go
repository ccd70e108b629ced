package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/aryankumar/tabmon/internal/severity"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// CheckName colors check names
	CheckName func(format string, a ...interface{}) string

	// Success colors healthy states
	Success func(format string, a ...interface{}) string

	// Error colors failures and unknown states
	Error func(format string, a ...interface{}) string

	// Warning colors degraded states
	Warning func(format string, a ...interface{}) string

	// Muted colors disabled services
	Muted func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	useColor := !noColor && isTTY(w)

	if !useColor {
		plain := color.New()
		plain.DisableColor()
		return &ColorScheme{
			CheckName: plain.Sprintf,
			Success:   plain.Sprintf,
			Error:     plain.Sprintf,
			Warning:   plain.Sprintf,
			Muted:     plain.Sprintf,
			Header:    plain.Sprintf,
			Duration:  plain.Sprintf,
			Disabled:  true,
		}
	}

	return &ColorScheme{
		CheckName: enabled(color.FgCyan, color.Bold).Sprintf,
		Success:   enabled(color.FgGreen).Sprintf,
		Error:     enabled(color.FgRed, color.Bold).Sprintf,
		Warning:   enabled(color.FgYellow).Sprintf,
		Muted:     enabled(color.Faint).Sprintf,
		Header:    enabled(color.FgWhite, color.Bold).Sprintf,
		Duration:  enabled(color.FgBlue).Sprintf,
		Disabled:  false,
	}
}

// enabled forces color on; the TTY decision was already made for w, which
// need not be the stdout color.NoColor was computed for.
func enabled(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns an appropriate color function based on error status
func (cs *ColorScheme) StatusColor(hasError bool) func(format string, a ...interface{}) string {
	if hasError {
		return cs.Error
	}
	return cs.Success
}

// SeverityColor returns the color function for a severity code
func (cs *ColorScheme) SeverityColor(code severity.Code) func(format string, a ...interface{}) string {
	switch code {
	case severity.Healthy:
		return cs.Success
	case severity.Degraded:
		return cs.Warning
	case severity.Disabled:
		return cs.Muted
	default:
		return cs.Error
	}
}
