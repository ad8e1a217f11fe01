// Package domain implements the deterministic archive repackaging engine.
package domain

import (
	"context"
	"errors"

	m "rezip.dev/pkg/rezip/internal/model"
)

// Sentinel errors for the pipeline stages. Stage implementations wrap their
// underlying cause with one of these so the engine can classify a failure
// with errors.Is and apply the matching recovery policy.
var (
	// ErrExtraction marks an unreadable or corrupt source archive.
	// Recovered at job granularity: the job is abandoned and the batch
	// continues.
	ErrExtraction = errors.New("archive extraction failed")

	// ErrFilesystem marks scratch directory or timestamp operations that
	// failed. Job-fatal; run-fatal when it happens during shared scratch
	// root setup.
	ErrFilesystem = errors.New("filesystem operation failed")

	// ErrCompression marks a failed archive rebuild. Run-fatal: a broken
	// rebuilder cannot be trusted for any job.
	ErrCompression = errors.New("archive rebuild failed")

	// ErrSwap marks a failed commit of the staging archive. The original
	// file is guaranteed intact; the batch continues.
	ErrSwap = errors.New("artifact swap failed")
)

// statusForError maps a stage failure onto the per-archive outcome status.
func statusForError(err error) m.Status {
	switch {
	// A canceled job did no work; the original archive is untouched.
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return m.Skipped
	case errors.Is(err, ErrExtraction):
		return m.ExtractionFailed
	case errors.Is(err, ErrCompression):
		return m.RebuildFailed
	case errors.Is(err, ErrSwap):
		return m.SwapFailed
	default:
		return m.FilesystemFailed
	}
}
