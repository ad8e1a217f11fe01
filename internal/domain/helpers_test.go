package domain

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// zipEntry describes one entry to synthesize into a fixture archive.
type zipEntry struct {
	name    string
	content string
	dir     bool
}

// writeZip builds a fixture archive with entries in the given physical
// order, stamped with the given modification time.
func writeZip(t *testing.T, path string, modified time.Time, entries []zipEntry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir for fixture %s: %v", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}

	writer := zip.NewWriter(file)

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		if entry.dir {
			header.Method = zip.Store
			header.SetMode(0o755 | os.ModeDir)
		} else {
			header.SetMode(0o644)
		}

		entryWriter, err := writer.CreateHeader(header)
		if err != nil {
			t.Fatalf("add fixture entry %s: %v", entry.name, err)
		}

		if !entry.dir {
			if _, err := entryWriter.Write([]byte(entry.content)); err != nil {
				t.Fatalf("write fixture entry %s: %v", entry.name, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close fixture writer: %v", err)
	}

	if err := file.Close(); err != nil {
		t.Fatalf("close fixture file: %v", err)
	}
}

// entryNames returns the archive's entry names in stored order, directory
// entries included.
func entryNames(t *testing.T, path string) []string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}

	defer func() { _ = reader.Close() }()

	names := make([]string, 0, len(reader.File))
	for _, entry := range reader.File {
		names = append(names, entry.Name)
	}

	return names
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return data
}

// stubFS wraps the local adapter and lets individual operations be forced
// to fail.
type stubFS struct {
	*adapter.LocalArchiveFS

	chtimesErr error
	chmodErr   error
	createErr  error
	renameErr  error
	copyErr    error

	// renameOnlyFor limits renameErr to a single source path so the
	// fallback's sibling rename can still succeed.
	renameOnlyFor string
}

func (s *stubFS) Chtimes(path m.Path, atime, mtime time.Time) error {
	if s.chtimesErr != nil {
		return s.chtimesErr
	}

	return s.LocalArchiveFS.Chtimes(path, atime, mtime)
}

func (s *stubFS) Chmod(path m.Path, mode os.FileMode) error {
	if s.chmodErr != nil {
		return s.chmodErr
	}

	return s.LocalArchiveFS.Chmod(path, mode)
}

func (s *stubFS) Create(path m.Path, perm os.FileMode) (*os.File, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}

	return s.LocalArchiveFS.Create(path, perm)
}

func (s *stubFS) Rename(oldPath, newPath m.Path) error {
	if s.renameErr != nil && (s.renameOnlyFor == "" || s.renameOnlyFor == string(oldPath)) {
		return s.renameErr
	}

	return s.LocalArchiveFS.Rename(oldPath, newPath)
}

func (s *stubFS) CopyFile(src, dst m.Path, perm os.FileMode) error {
	if s.copyErr != nil {
		return s.copyErr
	}

	return s.LocalArchiveFS.CopyFile(src, dst, perm)
}
