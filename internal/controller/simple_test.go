package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	m "rezip.dev/pkg/rezip/internal/model"
)

func newBufferedUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	tests := []struct {
		name         string
		report       m.RunReport
		wantContains []string
	}{
		{
			name: "empty run",
			report: m.RunReport{
				Status: m.Completed,
			},
			wantContains: []string{"TOTAL 0", "0 FAILED", "completed"},
		},
		{
			name: "all archives repacked",
			report: m.RunReport{
				Status:   m.Completed,
				Duration: 1230 * time.Millisecond,
				Outcomes: []m.Outcome{
					{Archive: m.Archive{Target: "/dist/one.zip"}, Status: m.OK},
					{Archive: m.Archive{Target: "/dist/two.zip"}, Status: m.OK},
				},
			},
			wantContains: []string{"/dist/one.zip", "/dist/two.zip", "TOTAL 2", "0 FAILED", "1.23s"},
		},
		{
			name: "mixed outcomes",
			report: m.RunReport{
				Status: m.Completed,
				Outcomes: []m.Outcome{
					{Archive: m.Archive{Target: "/dist/good.zip"}, Status: m.OK},
					{Archive: m.Archive{Target: "/dist/bad.zip"}, Status: m.ExtractionFailed, Err: errors.New("bad header")},
				},
			},
			wantContains: []string{"/dist/bad.zip", m.ExtractionFailed.String(), "1 FAILED"},
		},
		{
			name: "aborted run",
			report: m.RunReport{
				Status: m.Aborted,
				Outcomes: []m.Outcome{
					{Archive: m.Archive{Target: "/dist/one.zip"}, Status: m.RebuildFailed, Err: errors.New("deflate failed")},
					{Archive: m.Archive{Target: "/dist/two.zip"}, Status: m.Skipped},
				},
			},
			wantContains: []string{m.RebuildFailed.String(), m.Skipped.String(), "aborted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newBufferedUI()

			if err := ui.DisplaySummary(tt.report); err != nil {
				t.Errorf("DisplaySummary() error = %v", err)
				return
			}

			got := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("DisplaySummary() output missing %q, got: %s", want, got)
				}
			}
		})
	}
}

func TestSimpleUI_JobLifecycle(t *testing.T) {
	ui, buf := newBufferedUI()

	if err := ui.Start(2, 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.JobStarted(m.Archive{Target: "/dist/one.zip"})
	ui.JobFinished(m.Outcome{Archive: m.Archive{Target: "/dist/one.zip"}, Status: m.OK})
	ui.JobFinished(m.Outcome{
		Archive: m.Archive{Target: "/dist/two.zip"},
		Status:  m.SwapFailed,
		Err:     errors.New("read-only filesystem"),
	})

	got := buf.String()
	for _, want := range []string{
		"2 archive(s)",
		"repacking /dist/one.zip",
		"ok /dist/one.zip",
		m.SwapFailed.String() + " /dist/two.zip",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got: %s", want, got)
		}
	}
}
