package domain

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// ScratchSpace owns the run's working directory. The root is created fresh
// for every invocation (a stale root from a crashed run is removed first)
// and torn down at the end regardless of how the run went.
type ScratchSpace interface {
	// Prepare removes any stale scratch root and creates a fresh one.
	Prepare() error

	// JobDir creates and returns a private subdirectory for one archive,
	// named after its base name. A collision means two jobs mapped to
	// the same directory, which is a naming bug and fails loudly rather
	// than being retried.
	JobDir(archive m.Archive) (m.Path, error)

	// Teardown removes the scratch root recursively. Best-effort: a
	// leftover scratch directory must not fail a build that otherwise
	// succeeded, so failures are logged and swallowed.
	Teardown()
}

type scratchSpace struct {
	root      m.Path
	fsAdapter adapter.ArchiveFS
}

// NewScratchSpace constructs a ScratchSpace rooted at root.
func NewScratchSpace(root m.Path, fsAdapter adapter.ArchiveFS) ScratchSpace {
	return &scratchSpace{root: root, fsAdapter: fsAdapter}
}

func (s *scratchSpace) Prepare() error {
	if err := s.fsAdapter.RemoveAll(s.root); err != nil {
		return fmt.Errorf("%w: remove stale scratch root %s: %w", ErrFilesystem, s.root, err)
	}

	if err := s.fsAdapter.MkdirAll(s.root, 0o750); err != nil {
		return fmt.Errorf("%w: create scratch root %s: %w", ErrFilesystem, s.root, err)
	}

	slog.Debug("scratch root prepared", "root", s.root)

	return nil
}

func (s *scratchSpace) JobDir(archive m.Archive) (m.Path, error) {
	dir := m.Path(filepath.Join(string(s.root), filepath.Base(string(archive.Target))))

	if err := s.fsAdapter.Mkdir(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create job dir %s: %w", ErrFilesystem, dir, err)
	}

	return dir, nil
}

func (s *scratchSpace) Teardown() {
	if err := s.fsAdapter.RemoveAll(s.root); err != nil {
		slog.Error("failed to remove scratch root", "root", s.root, "error", err)
		return
	}

	slog.Debug("scratch root removed", "root", s.root)
}
