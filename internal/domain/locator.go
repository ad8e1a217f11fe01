package domain

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// Locator resolves the set of archives a run should process. Some archives
// are known ahead of time from the build targets; others are materialized by
// auxiliary build steps and only show up on disk, so the explicit list is
// merged with a filesystem scan.
type Locator interface {
	// Resolve returns the explicit paths first, in caller order, followed
	// by every archive under root matching pattern that is not already
	// listed, in traversal order. An empty root disables discovery.
	Resolve(explicit []m.Path, root m.Path, pattern string) ([]m.Archive, error)
}

type locator struct {
	fsAdapter adapter.ArchiveFS
}

// NewLocator constructs a Locator backed by the provided filesystem adapter.
func NewLocator(fsAdapter adapter.ArchiveFS) Locator {
	return &locator{fsAdapter: fsAdapter}
}

func (l *locator) Resolve(explicit []m.Path, root m.Path, pattern string) ([]m.Archive, error) {
	seen := make(map[m.Path]bool, len(explicit))
	archives := make([]m.Archive, 0, len(explicit))

	for _, path := range explicit {
		abs, err := absPath(path)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve %s: %w", ErrFilesystem, path, err)
		}

		if seen[abs] {
			continue
		}

		seen[abs] = true

		archives = append(archives, m.Archive{Target: abs, Explicit: true})
	}

	if root == "" {
		return archives, nil
	}

	discovered, err := l.discover(root, pattern, seen)
	if err != nil {
		return nil, err
	}

	return append(archives, discovered...), nil
}

func (l *locator) discover(root m.Path, pattern string, seen map[m.Path]bool) ([]m.Archive, error) {
	var archives []m.Archive

	err := l.fsAdapter.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return fmt.Errorf("pattern %q: %w", pattern, err)
		}

		if !matched {
			return nil
		}

		abs, err := absPath(m.Path(path))
		if err != nil {
			return err
		}

		if seen[abs] {
			return nil
		}

		seen[abs] = true

		archives = append(archives, m.Archive{Target: abs})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", ErrFilesystem, root, err)
	}

	slog.Debug("archive discovery finished", "root", root, "pattern", pattern, "found", len(archives))

	return archives, nil
}

func absPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}
