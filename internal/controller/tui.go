package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "rezip.dev/pkg/rezip/internal/model"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true)
	tuiOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tuiFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tuiActiveStyle = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI with a Bubble Tea progress display for interactive
// sessions.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress display in the background.
func (t *TUI) Start(total, workers int) error {
	model := newRunModel(total, workers)
	t.program = tea.NewProgram(model, tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// JobStarted reports that an archive entered the pipeline.
func (t *TUI) JobStarted(archive m.Archive) {
	if t.program != nil {
		t.program.Send(jobStartedMsg{archive: archive})
	}
}

// JobFinished reports the outcome of one archive.
func (t *TUI) JobFinished(outcome m.Outcome) {
	if t.program != nil {
		t.program.Send(jobFinishedMsg{outcome: outcome})
	}
}

// DisplaySummary shuts the progress display down and prints the outcome
// table.
func (t *TUI) DisplaySummary(report m.RunReport) error {
	if t.program != nil {
		t.program.Send(runDoneMsg{})
		<-t.done
	}

	status := tuiOKStyle.Render(report.Status.String())
	if !report.Succeeded() {
		status = tuiFailStyle.Render(report.Status.String())
	}

	_, err := fmt.Fprintf(t.output, "\n%sRun %s in %s\n",
		renderSummaryTable(report), status, report.Duration.Round(timeRounding))

	return err
}

type jobStartedMsg struct {
	archive m.Archive
}

type jobFinishedMsg struct {
	outcome m.Outcome
}

type runDoneMsg struct{}

// runModel is the Bubble Tea model for a repack run in flight.
type runModel struct {
	total    int
	workers  int
	finished int
	failed   int
	active   []string
	progress progress.Model
	quitting bool
}

func newRunModel(total, workers int) runModel {
	return runModel{
		total:    total,
		workers:  workers,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.progress.Width = msg.Width - 8
		return rm, nil

	case jobStartedMsg:
		rm.active = append(rm.active, string(msg.archive.Target))
		return rm, nil

	case jobFinishedMsg:
		rm.finished++
		if msg.outcome.Failed() {
			rm.failed++
		}

		rm.active = removeActive(rm.active, string(msg.outcome.Archive.Target))

		if rm.total == 0 {
			return rm, nil
		}

		return rm, rm.progress.SetPercent(float64(rm.finished) / float64(rm.total))

	case runDoneMsg:
		rm.quitting = true
		return rm, tea.Quit

	case progress.FrameMsg:
		updated, cmd := rm.progress.Update(msg)
		if pm, ok := updated.(progress.Model); ok {
			rm.progress = pm
		}

		return rm, cmd

	case tea.KeyMsg:
		// The run keeps going either way; quitting only hides the bar.
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			rm.quitting = true
			return rm, tea.Quit
		}
	}

	return rm, nil
}

func (rm runModel) View() string {
	if rm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render(fmt.Sprintf("Repacking %d archive(s), %d worker(s)", rm.total, rm.workers)))
	b.WriteString("\n\n  ")
	b.WriteString(rm.progress.View())
	b.WriteString("\n\n")

	counts := fmt.Sprintf("  %s done", tuiOKStyle.Render(fmt.Sprintf("%d/%d", rm.finished, rm.total)))
	if rm.failed > 0 {
		counts += fmt.Sprintf(", %s", tuiFailStyle.Render(fmt.Sprintf("%d failed", rm.failed)))
	}

	b.WriteString(counts)
	b.WriteString("\n")

	for _, path := range rm.active {
		b.WriteString(tuiActiveStyle.Render("  → " + path))
		b.WriteString("\n")
	}

	return b.String()
}

func removeActive(active []string, path string) []string {
	for i, candidate := range active {
		if candidate == path {
			return append(active[:i], active[i+1:]...)
		}
	}

	return active
}
