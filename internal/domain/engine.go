package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rezip.dev/pkg/rezip/internal/adapter"
	m "rezip.dev/pkg/rezip/internal/model"
)

// RepackArgs holds the parameters for one engine invocation.
type RepackArgs struct {
	// Archives is the resolved set to process, in order, as produced by
	// the Locator.
	Archives []m.Archive

	// ScratchDir is the run's working root. It is recreated on entry and
	// removed on exit.
	ScratchDir m.Path

	// Threads bounds the worker pool. Values below 1 mean sequential.
	Threads int

	// Compress holds the rebuild parameters.
	Compress CompressConfig
}

// Observer receives job lifecycle notifications so a UI can track progress.
// Callbacks may arrive from worker goroutines.
type Observer interface {
	JobStarted(archive m.Archive)
	JobFinished(outcome m.Outcome)
}

// Engine is the idempotent repackaging engine: it rewrites each archive so
// that identical logical contents produce byte-identical archives across
// runs, machines and time.
type Engine interface {
	// Repack processes every resolved archive and returns the per-archive
	// outcomes. The returned error is non-nil only for run-fatal
	// conditions (scratch setup failure, rebuild failure); per-archive
	// failures are reported through the outcomes.
	Repack(ctx context.Context, args RepackArgs) (m.RunReport, error)
}

type engine struct {
	extractor  Extractor
	normalizer Normalizer
	compressor Compressor
	swapper    Swapper
	fsAdapter  adapter.ArchiveFS
	observer   Observer
}

// NewEngine constructs an Engine from its pipeline stages.
func NewEngine(
	extractor Extractor,
	normalizer Normalizer,
	compressor Compressor,
	swapper Swapper,
	fsAdapter adapter.ArchiveFS,
	observer Observer,
) Engine {
	if observer == nil {
		observer = noopObserver{}
	}

	return &engine{
		extractor:  extractor,
		normalizer: normalizer,
		compressor: compressor,
		swapper:    swapper,
		fsAdapter:  fsAdapter,
		observer:   observer,
	}
}

func (e *engine) Repack(ctx context.Context, args RepackArgs) (m.RunReport, error) {
	started := time.Now()
	archives := args.Archives

	scratch := NewScratchSpace(args.ScratchDir, e.fsAdapter)
	if err := scratch.Prepare(); err != nil {
		// No job can proceed without the shared scratch root.
		return skippedReport(archives, started), err
	}

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	slog.Info("repack run starting", "archives", len(archives), "workers", threads, "scratch", args.ScratchDir)

	var (
		group    errgroup.Group
		mu       sync.Mutex
		aborted  bool
		runErr   error
		outcomes = make([]m.Outcome, len(archives))
	)

	group.SetLimit(threads)

	for i, archive := range archives {
		i, archive := i, archive
		group.Go(func() error {
			// A rebuild failure stops jobs that have not started, but
			// siblings already in flight run to completion.
			mu.Lock()
			stop := aborted
			mu.Unlock()

			var outcome m.Outcome
			if stop || ctx.Err() != nil {
				outcome = m.Outcome{Archive: archive, Status: m.Skipped}
			} else {
				outcome = e.runJob(ctx, scratch, archive, args.Compress)
			}

			mu.Lock()
			outcomes[i] = outcome

			if outcome.Err != nil && errors.Is(outcome.Err, ErrCompression) {
				aborted = true
				runErr = outcome.Err
			}
			mu.Unlock()

			e.observer.JobFinished(outcome)

			return nil
		})
	}

	// Teardown must not race with jobs still writing under the root.
	_ = group.Wait()
	scratch.Teardown()

	report := m.RunReport{
		Outcomes: outcomes,
		Status:   m.Completed,
		Duration: time.Since(started),
	}

	mu.Lock()
	if aborted {
		report.Status = m.Aborted
	}
	mu.Unlock()

	slog.Info("repack run finished", "status", report.Status, "failed", report.FailedCount(), "duration", report.Duration)

	return report, runErr
}

// runJob takes one archive through extract, normalize, rebuild and swap.
func (e *engine) runJob(ctx context.Context, scratch ScratchSpace, archive m.Archive, config CompressConfig) m.Outcome {
	e.observer.JobStarted(archive)

	job, err := e.prepareJob(scratch, archive)
	if err != nil {
		return e.failJob(archive, err)
	}

	if err := e.extractor.Extract(ctx, archive.Target, job.ExtractDir); err != nil {
		return e.failJob(archive, err)
	}

	if err := e.normalizer.Normalize(ctx, job.ExtractDir); err != nil {
		return e.failJob(archive, err)
	}

	if err := e.compressor.Compress(ctx, job.ExtractDir, job.StagingPath, config); err != nil {
		return e.failJob(archive, err)
	}

	if err := e.swapper.Swap(ctx, job.StagingPath, archive.Target); err != nil {
		// The rebuilt archive exists but could not be committed; drop
		// it so no staging file outlives the job.
		_ = e.fsAdapter.Remove(job.StagingPath)
		return e.failJob(archive, err)
	}

	slog.Debug("archive repacked", "target", archive.Target)

	return m.Outcome{Archive: archive, Status: m.OK}
}

func (e *engine) prepareJob(scratch ScratchSpace, archive m.Archive) (m.Job, error) {
	jobDir, err := scratch.JobDir(archive)
	if err != nil {
		return m.Job{}, err
	}

	target := string(archive.Target)

	return m.Job{
		Archive:    archive,
		ExtractDir: m.Path(filepath.Join(string(jobDir), "tree")),
		// Staged next to the target so the commit is a same-filesystem
		// rename in the common case.
		StagingPath: m.Path(filepath.Join(
			filepath.Dir(target),
			"."+filepath.Base(target)+".rezip-staging",
		)),
	}, nil
}

func (e *engine) failJob(archive m.Archive, err error) m.Outcome {
	slog.Error("repack job failed", "target", archive.Target, "error", err)

	return m.Outcome{
		Archive: archive,
		Status:  statusForError(err),
		Err:     fmt.Errorf("repack %s: %w", archive.Target, err),
	}
}

func skippedReport(archives []m.Archive, started time.Time) m.RunReport {
	outcomes := make([]m.Outcome, len(archives))
	for i, archive := range archives {
		outcomes[i] = m.Outcome{Archive: archive, Status: m.Skipped}
	}

	return m.RunReport{
		Outcomes: outcomes,
		Status:   m.Aborted,
		Duration: time.Since(started),
	}
}

type noopObserver struct{}

func (noopObserver) JobStarted(m.Archive)  {}
func (noopObserver) JobFinished(m.Outcome) {}
