package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// Swapper commits a staging archive over the original target so that no
// reader ever observes a zero-length or truncated file at the target path.
type Swapper interface {
	// Swap replaces target with the file at staging. On success the
	// staging file no longer exists. On failure the original target is
	// intact.
	Swap(ctx context.Context, staging, target m.Path) error
}

type swapper struct {
	fsAdapter adapter.ArchiveFS
}

// NewSwapper constructs a Swapper backed by the provided filesystem adapter.
func NewSwapper(fsAdapter adapter.ArchiveFS) Swapper {
	return &swapper{fsAdapter: fsAdapter}
}

func (s *swapper) Swap(ctx context.Context, staging, target m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Same-filesystem rename: a single syscall with no intermediate
	// state observable.
	renameErr := s.fsAdapter.Rename(staging, target)
	if renameErr == nil {
		slog.Debug("archive committed", "target", target)
		return nil
	}

	// Rename can fail when staging and target live on different devices.
	// Fall back to copying next to the target and renaming the copy,
	// which keeps the final replacement atomic. The copy is fully
	// written and synced before the original is touched, so a failure
	// partway leaves the original valid and unchanged.
	info, err := s.fsAdapter.Stat(staging)
	if err != nil {
		return fmt.Errorf("%w: stat staging %s: %w", ErrSwap, staging, err)
	}

	sibling := m.Path(filepath.Join(
		filepath.Dir(string(target)),
		"."+filepath.Base(string(target))+".rezip-copy",
	))

	if err := s.fsAdapter.CopyFile(staging, sibling, info.Mode().Perm()); err != nil {
		_ = s.fsAdapter.Remove(sibling)
		return fmt.Errorf("%w: copy staging to %s (rename failed: %v): %w", ErrSwap, sibling, renameErr, err)
	}

	if err := s.fsAdapter.Rename(sibling, target); err != nil {
		_ = s.fsAdapter.Remove(sibling)
		return fmt.Errorf("%w: commit %s: %w", ErrSwap, target, err)
	}

	if err := s.fsAdapter.Remove(staging); err != nil {
		// The target is already committed; a leftover staging file is
		// cleanup debt, not a job failure.
		slog.Error("failed to remove staging file after commit", "staging", staging, "error", err)
	}

	slog.Debug("archive committed via copy fallback", "target", target)

	return nil
}
