// Package terminal provides utilities for terminal operations such as clearing text.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// defaultWidth is used when the terminal size cannot be determined.
const defaultWidth = 80

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal behind f, or 80.
func Width(f *os.File) int {
	if f != nil {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// LinesFor returns how many rows text occupies when printed on a line of its
// own in a terminal that is width columns wide.
func LinesFor(text string, width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	n := int(math.Ceil(float64(utf8.RuneCountInString(text)) / float64(width)))
	if n < 1 {
		return 1 // an empty line still takes a row
	}
	return n
}

// ClearPreviousLines erases the current row and the n rows above it, leaving
// the cursor at the start of the topmost erased row.
func ClearPreviousLines(w io.Writer, n int) {
	for i := 0; i <= n; i++ {
		fmt.Fprint(w, "\r\x1b[2K") // Move to start and clear entire line
		if i < n {
			fmt.Fprint(w, "\x1b[1A") // Move up one line (don't move up on last iteration)
		}
	}
}
