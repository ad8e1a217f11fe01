// Package controller provides output adapters for displaying repack progress
// and results.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "rezip.dev/pkg/rezip/internal/model"
)

// UI is the interface the command layer drives while a run is in progress.
// JobStarted and JobFinished satisfy the engine's observer contract and may
// be called from worker goroutines.
type UI interface {
	// Start announces a run over total archives with the given worker
	// count.
	Start(total, workers int) error

	// JobStarted reports that an archive entered the pipeline.
	JobStarted(archive m.Archive)

	// JobFinished reports the outcome of one archive.
	JobFinished(outcome m.Outcome)

	// DisplaySummary renders the per-archive outcome table after the
	// run, shutting down any interactive display first.
	DisplaySummary(report m.RunReport) error
}

// NewUI selects the interactive display when stdout is a terminal and the
// plain writer fallback otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
