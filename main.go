// Command tlxkit scores NASA-TLX and SAQ workload sessions.
package main

import (
	"os"

	"github.com/tlxkit/tlxkit/cmd"
	"github.com/tlxkit/tlxkit/internal/archive"
	"github.com/tlxkit/tlxkit/internal/contract"
)

func main() {
	defer archive.CloseArchive()
	cmd.SetArchiveManager(archive.Manager)

	if err := cmd.Execute(); err != nil {
		archive.CloseArchive()
		contract.LogWarn("tlxkit", err)
		os.Exit(1)
	}
}
