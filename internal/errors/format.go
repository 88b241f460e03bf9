package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string    { return color(colorRed, text) }
func yellow(text string) string { return color(colorYellow, text) }
func cyan(text string) string   { return color(colorCyan, text) }
func gray(text string) string   { return color(colorGray, text) }
func bold(text string) string   { return color(colorBold, text) }

// Format renders the error for terminal display.
func Format(e *ArborError) string {
	var b strings.Builder

	header := fmt.Sprintf("error[%s]", e.Code)
	b.WriteString(red(bold(header)))
	b.WriteString(": ")
	b.WriteString(bold(e.Message))
	b.WriteString("\n")

	if e.Detail != "" {
		b.WriteString("\n")
		b.WriteString(e.Detail)
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("\n")
		b.WriteString(gray("caused by: " + e.Wrapped.Error()))
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		b.WriteString("\n")
		b.WriteString(yellow("hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		b.WriteString("\n")
		b.WriteString(gray("see "))
		b.WriteString(cyan(e.DocURL))
		b.WriteString("\n")
	}

	return b.String()
}

// PrintError prints a formatted error to stderr. Coded errors get the
// full display with detail, hint, and doc link; anything else is a
// one-line message.
func PrintError(err error) {
	fmt.Fprint(os.Stderr, Sprint(err))
}

// Sprint renders any error for terminal display, unwrapping to the
// nearest coded error when one is present.
func Sprint(err error) string {
	var ae *ArborError
	if errors.As(err, &ae) {
		return Format(ae)
	}
	return fmt.Sprintf("%s %s\n", red(bold("error:")), err.Error())
}
