package domain

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// CanonicalTime is the fixed instant applied to every extracted file before
// rebuilding. Zip cannot represent times before 1980, so using the format's
// epoch floor keeps the writer from clamping the value differently between
// runs. After normalization, timestamps carry zero information; only paths
// and bytes remain.
var CanonicalTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Normalizer rewrites the filesystem timestamps of every file in an
// extracted tree to CanonicalTime. This removes the dominant source of
// non-determinism in naive repacking.
type Normalizer interface {
	// Normalize visits every regular file under root and sets its access
	// and modification times to CanonicalTime.
	Normalize(ctx context.Context, root m.Path) error
}

type normalizer struct {
	fsAdapter adapter.ArchiveFS
}

// NewNormalizer constructs a Normalizer backed by the provided filesystem
// adapter.
func NewNormalizer(fsAdapter adapter.ArchiveFS) Normalizer {
	return &normalizer{fsAdapter: fsAdapter}
}

func (n *normalizer) Normalize(ctx context.Context, root m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	files := 0

	err := n.fsAdapter.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		// A file that keeps its original mtime would silently leak
		// non-deterministic metadata into the rebuilt archive, so any
		// failure here is fatal for the job.
		if err := n.fsAdapter.Chtimes(m.Path(path), CanonicalTime, CanonicalTime); err != nil {
			return fmt.Errorf("set times on %s: %w", path, err)
		}

		files++

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: normalize %s: %w", ErrFilesystem, root, err)
	}

	slog.Debug("tree normalized", "root", root, "files", files)

	return nil
}
