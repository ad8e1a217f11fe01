package domain

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// CompressConfig holds the rebuild parameters. They are threaded explicitly
// instead of read from ambient state so the compressor is a pure function
// from (tree, config) to archive bytes.
type CompressConfig struct {
	// OmitDirEntries drops directory placeholder entries from the
	// rebuilt archive. Directory structure is still implied by entry
	// paths, and placeholders only add writer-dependent variance.
	OmitDirEntries bool

	// Level is the Deflate level used for every entry. It must be the
	// same on every run for outputs to be comparable.
	Level int
}

// DefaultCompressConfig returns the canonical rebuild parameters.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		OmitDirEntries: true,
		Level:          flate.BestCompression,
	}
}

// Compressor rebuilds an archive from a normalized tree using canonical
// entry ordering, so the output depends only on entry paths and bytes.
type Compressor interface {
	// Compress writes a new archive at staging containing every file
	// under tree, sorted byte-wise by relative slash path.
	Compress(ctx context.Context, tree, staging m.Path, config CompressConfig) error
}

type compressor struct {
	fsAdapter adapter.ArchiveFS
}

// NewCompressor constructs a Compressor backed by the provided filesystem
// adapter.
func NewCompressor(fsAdapter adapter.ArchiveFS) Compressor {
	return &compressor{fsAdapter: fsAdapter}
}

func (c *compressor) Compress(ctx context.Context, tree, staging m.Path, config CompressConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := c.collectEntries(tree, config)
	if err != nil {
		return fmt.Errorf("%w: enumerate %s: %w", ErrCompression, tree, err)
	}

	// Byte-wise lexicographic order removes traversal-order variance.
	slices.SortFunc(entries, func(a, b treeEntry) int {
		if a.rel < b.rel {
			return -1
		}
		if a.rel > b.rel {
			return 1
		}
		return 0
	})

	if err := c.writeArchive(entries, tree, staging, config); err != nil {
		// Remove the partial staging file; the swap stage must never
		// see it.
		_ = c.fsAdapter.Remove(staging)
		return err
	}

	slog.Debug("archive rebuilt", "tree", tree, "staging", staging, "entries", len(entries))

	return nil
}

// treeEntry is one file (or, with OmitDirEntries disabled, directory)
// scheduled for emission.
type treeEntry struct {
	rel  string
	mode fs.FileMode
	dir  bool
}

func (c *compressor) collectEntries(tree m.Path, config CompressConfig) ([]treeEntry, error) {
	var entries []treeEntry

	err := c.fsAdapter.WalkDir(tree, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == string(tree) {
			return nil
		}

		rel, err := filepath.Rel(string(tree), path)
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if config.OmitDirEntries {
				return nil
			}

			entries = append(entries, treeEntry{
				rel:  filepath.ToSlash(rel) + "/",
				mode: info.Mode().Perm(),
				dir:  true,
			})

			return nil
		}

		entries = append(entries, treeEntry{
			rel:  filepath.ToSlash(rel),
			mode: info.Mode().Perm(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (c *compressor) writeArchive(entries []treeEntry, tree, staging m.Path, config CompressConfig) error {
	file, err := c.fsAdapter.Create(staging, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create staging file %s: %w", ErrCompression, staging, err)
	}

	writer := zip.NewWriter(file)

	// Pin the Deflate level; the default writer level can differ between
	// toolchains.
	writer.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, config.Level)
	})

	for _, entry := range entries {
		if err := c.writeEntry(writer, tree, entry); err != nil {
			_ = writer.Close()
			_ = file.Close()

			return err
		}
	}

	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: finalize %s: %w", ErrCompression, staging, err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrCompression, staging, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrCompression, staging, err)
	}

	return nil
}

func (c *compressor) writeEntry(writer *zip.Writer, tree m.Path, entry treeEntry) error {
	header := &zip.FileHeader{
		Name:     entry.rel,
		Method:   zip.Deflate,
		Modified: CanonicalTime,
	}
	header.SetMode(entry.mode)

	if entry.dir {
		header.Method = zip.Store
		header.SetMode(entry.mode | fs.ModeDir)

		if _, err := writer.CreateHeader(header); err != nil {
			return fmt.Errorf("%w: add dir entry %q: %w", ErrCompression, entry.rel, err)
		}

		return nil
	}

	entryWriter, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: add entry %q: %w", ErrCompression, entry.rel, err)
	}

	source := filepath.Join(string(tree), filepath.FromSlash(entry.rel))

	content, err := c.fsAdapter.Open(m.Path(source))
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrCompression, source, err)
	}

	defer func() { _ = content.Close() }()

	if _, err := io.Copy(entryWriter, content); err != nil {
		return fmt.Errorf("%w: write entry %q: %w", ErrCompression, entry.rel, err)
	}

	return nil
}
