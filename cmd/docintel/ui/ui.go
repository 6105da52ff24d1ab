// Package ui provides terminal output helpers for the docintel CLI.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var verboseFlag bool

// Init initializes the UI with color and verbose settings.
func Init(noColor, verbose bool) {
	verboseFlag = verbose
	if noColor {
		color.NoColor = true
	}
}

// Banner prints the boxed title header used at the top of every command.
func Banner(title string, subtitles ...string) {
	line := strings.Repeat("=", 60)
	bold := color.New(color.Bold)

	fmt.Fprintln(os.Stdout, line)
	bold.Fprintf(os.Stdout, "  %s\n", title)
	for _, subtitle := range subtitles {
		fmt.Fprintf(os.Stdout, "  %s\n", subtitle)
	}
	fmt.Fprintln(os.Stdout, line)
}

// Section displays a section header.
func Section(title string) {
	fmt.Fprintf(os.Stdout, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

// Info displays an informational message.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// Verbose displays a message only when verbose output is enabled.
func Verbose(format string, args ...interface{}) {
	if verboseFlag {
		fmt.Fprintf(os.Stdout, "  %s\n", fmt.Sprintf(format, args...))
	}
}

// Success displays a success message in green.
func Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(os.Stdout, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Warning displays a warning message in yellow.
func Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(os.Stdout, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error displays an error message in red on stderr.
func Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Newline prints a newline.
func Newline() {
	fmt.Fprintln(os.Stdout)
}

// KeyValue displays an aligned key-value pair.
func KeyValue(key, value string) {
	fmt.Fprintf(os.Stdout, "  %-12s %s\n", key+":", value)
}
