package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/tlxkit/tlxkit/internal/contract"
)

// GetMaxTableNameWidth calculates the maximum width for task names in table
// output based on terminal width and the number of table columns.
func GetMaxTableNameWidth(cfg *contract.Config, columns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Rating columns hold at most "100"; scores hold "100.0000"; the band
	// column is as wide as "Somewhat High". Everything else is borders and padding.
	baseWidth := 5 + 12 + (columns-7)*6 + 2*11 + 16 + 10

	available := termWidth - baseWidth
	if available < 8 {
		// Minimum reasonable name width
		return 8
	}
	if available > 40 {
		// Maximum name width to keep rows on one line
		return 40
	}
	return available
}
