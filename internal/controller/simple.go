package controller

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "rezip.dev/pkg/rezip/internal/model"
)

// timeRounding keeps summary durations readable.
const timeRounding = 10 * time.Millisecond

// SimpleUI implements UI using cobra Command's output writer. It is the
// fallback for non-interactive sessions (CI logs, piped output).
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start announces the run.
func (s *SimpleUI) Start(total, workers int) error {
	s.printf("Repacking %d archive(s) with %d worker(s)\n", total, workers)
	return nil
}

// JobStarted reports that an archive entered the pipeline.
func (s *SimpleUI) JobStarted(archive m.Archive) {
	s.printf("repacking %s\n", archive.Target)
}

// JobFinished reports the outcome of one archive.
func (s *SimpleUI) JobFinished(outcome m.Outcome) {
	if outcome.Failed() {
		s.printf("%s %s\n", outcome.Status, outcome.Archive.Target)
		return
	}

	s.printf("ok %s\n", outcome.Archive.Target)
}

// DisplaySummary prints the per-archive outcome table.
func (s *SimpleUI) DisplaySummary(report m.RunReport) error {
	s.printf("\n%s", renderSummaryTable(report))
	s.printf("Run %s in %s\n", report.Status, report.Duration.Round(timeRounding))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderSummaryTable(report m.RunReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Archive", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, outcome := range report.Outcomes {
		table.Append([]string{string(outcome.Archive.Target), outcome.Status.String()})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(report.Outcomes)),
		fmt.Sprintf("%d failed", report.FailedCount()),
	})

	table.Render()

	return tableBuffer.String()
}
