package archive

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/tlxkit/tlxkit/schema"
)

// PrintArchiveStatus prints archive status information.
func PrintArchiveStatus(w io.Writer, status schema.ArchiveStatus) {
	_, _ = fmt.Fprintf(w, "Archive Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Sessions: %d\n", status.TotalSessions)
	if status.TotalSessions > 0 {
		_, _ = fmt.Fprintf(w, "Last Session ID: %d\n", status.LastSessionID)
		_, _ = fmt.Fprintf(w, "Last Export: %s\n", status.LastExportTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Export: %s\n", status.OldestExportTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Total Tasks: %d\n", status.TotalTasks)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
