package adapter

import (
	"path/filepath"
	"reflect"
	"testing"

	m "rezip.dev/pkg/rezip/internal/model"
)

func TestLocalZipInspector_ListEntries(t *testing.T) {
	inspector := NewLocalZipInspector()

	path := filepath.Join(t.TempDir(), "app.zip")
	buildZip(t, path, []string{"b/", "b/file.txt", "a.txt"})

	names, err := inspector.ListEntries(m.Path(path))
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}

	want := []string{"b/file.txt", "a.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("ListEntries() = %v, want %v", names, want)
	}
}

func TestLocalZipInspector_CountEntries(t *testing.T) {
	inspector := NewLocalZipInspector()

	path := filepath.Join(t.TempDir(), "app.zip")
	buildZip(t, path, []string{"dir/", "dir/one.txt", "two.txt", "three.txt"})

	count, err := inspector.CountEntries(m.Path(path))
	if err != nil {
		t.Fatalf("CountEntries() error = %v", err)
	}

	if count != 3 {
		t.Fatalf("CountEntries() = %d, want 3", count)
	}
}

func TestLocalZipInspector_MissingArchive(t *testing.T) {
	inspector := NewLocalZipInspector()

	if _, err := inspector.ListEntries(m.Path(filepath.Join(t.TempDir(), "gone.zip"))); err == nil {
		t.Fatalf("ListEntries() expected error for missing archive")
	}
}

func TestLocalZipInspector_MalformedArchive(t *testing.T) {
	inspector := NewLocalZipInspector()

	path := filepath.Join(t.TempDir(), "bad.zip")
	if err := writeFile(path, "not a zip"); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := inspector.CountEntries(m.Path(path)); err == nil {
		t.Fatalf("CountEntries() expected error for malformed archive")
	}
}
