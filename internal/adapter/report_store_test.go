package adapter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	m "rezip.dev/pkg/rezip/internal/model"
)

func TestYAMLReportStore_Roundtrip(t *testing.T) {
	store := NewYAMLReportStore()
	path := m.Path(filepath.Join(t.TempDir(), "report.yaml"))

	saved := m.RunReport{
		Status:   m.Aborted,
		Duration: 1500 * time.Millisecond,
		Outcomes: []m.Outcome{
			{Archive: m.Archive{Target: "/dist/one.zip"}, Status: m.OK},
			{Archive: m.Archive{Target: "/dist/two.zip"}, Status: m.ExtractionFailed, Err: errors.New("bad header")},
			{Archive: m.Archive{Target: "/dist/three.zip"}, Status: m.RebuildFailed, Err: errors.New("deflate failed")},
			{Archive: m.Archive{Target: "/dist/four.zip"}, Status: m.Skipped},
		},
	}

	if err := store.SaveReport(path, saved); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	loaded, err := store.LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}

	if loaded.Status != m.Aborted {
		t.Fatalf("LoadReport() status = %v, want %v", loaded.Status, m.Aborted)
	}

	if loaded.Duration != saved.Duration {
		t.Fatalf("LoadReport() duration = %v, want %v", loaded.Duration, saved.Duration)
	}

	if len(loaded.Outcomes) != len(saved.Outcomes) {
		t.Fatalf("LoadReport() outcomes = %d, want %d", len(loaded.Outcomes), len(saved.Outcomes))
	}

	for i, outcome := range loaded.Outcomes {
		if outcome.Archive.Target != saved.Outcomes[i].Archive.Target {
			t.Errorf("outcome %d target = %s, want %s", i, outcome.Archive.Target, saved.Outcomes[i].Archive.Target)
		}

		if outcome.Status != saved.Outcomes[i].Status {
			t.Errorf("outcome %d status = %v, want %v", i, outcome.Status, saved.Outcomes[i].Status)
		}

		// Errors are flattened to messages on save and do not come back.
		if outcome.Err != nil {
			t.Errorf("outcome %d Err = %v, want nil", i, outcome.Err)
		}
	}
}

func TestYAMLReportStore_SavedFileIsReadable(t *testing.T) {
	store := NewYAMLReportStore()
	path := filepath.Join(t.TempDir(), "report.yaml")

	report := m.RunReport{
		Status: m.Completed,
		Outcomes: []m.Outcome{
			{Archive: m.Archive{Target: "/dist/app.zip"}, Status: m.SwapFailed, Err: errors.New("read-only filesystem")},
		},
	}

	if err := store.SaveReport(m.Path(path), report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	content := string(readBytes(t, path))

	for _, want := range []string{"/dist/app.zip", m.SwapFailed.String(), "read-only filesystem", "failed: 1"} {
		if !strings.Contains(content, want) {
			t.Errorf("report file missing %q:\n%s", want, content)
		}
	}
}

func TestYAMLReportStore_LoadMissingFile(t *testing.T) {
	store := NewYAMLReportStore()

	if _, err := store.LoadReport(m.Path(filepath.Join(t.TempDir(), "gone.yaml"))); err == nil {
		t.Fatalf("LoadReport() expected error for missing file")
	}
}

func TestYAMLReportStore_LoadMalformedFile(t *testing.T) {
	store := NewYAMLReportStore()

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := writeFile(path, "{not yaml: ["); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := store.LoadReport(m.Path(path)); err == nil {
		t.Fatalf("LoadReport() expected error for malformed file")
	}
}
