package domain

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// Extractor unpacks one archive into a destination directory, preserving
// relative path structure, file bytes and permission bits. Timestamps are
// not preserved; the normalizer overwrites them regardless.
type Extractor interface {
	// Extract unpacks the archive at source into dest. The destination
	// must not exist yet.
	Extract(ctx context.Context, source, dest m.Path) error
}

type extractor struct {
	fsAdapter adapter.ArchiveFS
}

// NewExtractor constructs an Extractor backed by the provided filesystem
// adapter.
func NewExtractor(fsAdapter adapter.ArchiveFS) Extractor {
	return &extractor{fsAdapter: fsAdapter}
}

func (e *extractor) Extract(ctx context.Context, source, dest m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	reader, err := zip.OpenReader(string(source))
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrExtraction, source, err)
	}

	defer func() { _ = reader.Close() }()

	if err := e.fsAdapter.Mkdir(dest, 0o750); err != nil {
		return fmt.Errorf("%w: create extract dir %s: %w", ErrFilesystem, dest, err)
	}

	for _, entry := range reader.File {
		if err := e.extractEntry(entry, dest); err != nil {
			return err
		}
	}

	slog.Debug("archive extracted", "source", source, "entries", len(reader.File))

	return nil
}

func (e *extractor) extractEntry(entry *zip.File, dest m.Path) error {
	// Entry names use forward slashes regardless of platform.
	rel := filepath.FromSlash(entry.Name)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: entry %q escapes extraction dir", ErrExtraction, entry.Name)
	}

	target := filepath.Join(string(dest), rel)

	if entry.FileInfo().IsDir() {
		if err := e.fsAdapter.MkdirAll(m.Path(target), 0o750); err != nil {
			return fmt.Errorf("%w: create dir %s: %w", ErrFilesystem, target, err)
		}

		perm := entry.Mode().Perm()
		if perm == 0 {
			perm = 0o755
		}

		if err := e.fsAdapter.Chmod(m.Path(target), perm); err != nil {
			return fmt.Errorf("%w: set mode on %s: %w", ErrFilesystem, target, err)
		}

		return nil
	}

	if err := e.fsAdapter.MkdirAll(m.Path(filepath.Dir(target)), 0o750); err != nil {
		return fmt.Errorf("%w: create dir for %s: %w", ErrFilesystem, target, err)
	}

	content, err := entry.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %q: %w", ErrExtraction, entry.Name, err)
	}

	defer func() { _ = content.Close() }()

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	file, err := e.fsAdapter.Create(m.Path(target), perm)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrFilesystem, target, err)
	}

	if _, err := io.Copy(file, content); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: read entry %q: %w", ErrExtraction, entry.Name, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrFilesystem, target, err)
	}

	// Create applies the process umask to perm. Reassert the entry mode
	// so the mode recorded in the rebuilt archive does not vary with host
	// settings.
	if err := e.fsAdapter.Chmod(m.Path(target), perm); err != nil {
		return fmt.Errorf("%w: set mode on %s: %w", ErrFilesystem, target, err)
	}

	return nil
}
