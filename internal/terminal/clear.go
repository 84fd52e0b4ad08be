// Package terminal provides small terminal utilities for the CLI prompts.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines clears previously printed text from the terminal.
// It computes how many lines the text occupied from the current terminal width,
// then moves up and erases each line. Used to remove credential prompts after
// the user has entered them.
func ClearPreviousLines(textLength int) {
	// Terminal width drives line wrapping; default when unavailable
	termWidth := 80
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}

	// After Enter, the cursor sits on a fresh line below the input
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K") // move to start and clear entire line
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A") // move up one line
		}
	}
}
