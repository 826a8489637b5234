package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/tlxkit/tlxkit/schema"
)

// Workload band constants, following the usual NASA-TLX interpretation ranges.
const (
	VeryHighValue     = "Very High"     // 80 and above
	HighValue         = "High"          // 50 to 79
	SomewhatHighValue = "Somewhat High" // 30 to 49
	MediumValue       = "Medium"        // 10 to 29
	LowValue          = "Low"           // below 10
	UnavailableValue  = "-"
)

// Color variables for console output.
var (
	VeryHighColor     = color.New(color.FgRed, color.Bold)     // VeryHighColor represents overload.
	HighColor         = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	SomewhatHighColor = color.New(color.FgYellow)              // SomewhatHighColor represents caution, not bold.
	MediumColor       = color.New(color.FgCyan)                // MediumColor is informational.
	LowColor          = color.New(color.FgGreen)
	NaNColor          = color.New(color.FgHiBlack)
	SectionColor      = color.New(color.Bold)
)

// GetPlainLabel returns the workload band of a score. Unavailable scores
// have no band. Used by every output format.
func GetPlainLabel(score schema.Score) string {
	v, ok := score.Value()
	if !ok {
		return UnavailableValue
	}
	switch {
	case v >= 80:
		return VeryHighValue
	case v >= 50:
		return HighValue
	case v >= 30:
		return SomewhatHighValue
	case v >= 10:
		return MediumValue
	default:
		return LowValue
	}
}

// GetColorLabel returns the colored band label for console output.
func GetColorLabel(score schema.Score) string {
	text := GetPlainLabel(score)

	switch text {
	case VeryHighValue:
		return VeryHighColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case SomewhatHighValue:
		return SomewhatHighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	case LowValue:
		return LowColor.Sprint(text)
	default:
		return NaNColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetArchiveDBFilePath returns the path to the SQLite DB file for the results archive.
func GetArchiveDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tlxkit_archive.db"
	}
	return filepath.Join(homeDir, ".tlxkit_archive.db")
}

// TruncateName shortens a task name to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so at least one character of the name survives.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
