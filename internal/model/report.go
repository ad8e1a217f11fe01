package model

import "time"

// Status represents the outcome of repackaging a single archive.
type Status int

const (
	// OK indicates the archive was rebuilt and swapped into place.
	OK Status = iota
	// ExtractionFailed indicates the source archive could not be read;
	// the original file is untouched.
	ExtractionFailed
	// FilesystemFailed indicates scratch or timestamp operations failed
	// for this archive; the original file is untouched.
	FilesystemFailed
	// RebuildFailed indicates the compressor could not produce a staging
	// archive. This aborts the whole run; the original file is untouched.
	RebuildFailed
	// SwapFailed indicates the rebuilt archive could not be committed;
	// the original file is intact.
	SwapFailed
	// Skipped indicates the job did no work, either because the run
	// aborted before it was scheduled or because it was canceled.
	Skipped
)

// String returns the human-readable label for the status.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case ExtractionFailed:
		return "extraction-failed"
	case FilesystemFailed:
		return "filesystem-failed"
	case RebuildFailed:
		return "rebuild-failed"
	case SwapFailed:
		return "swap-failed"
	case Skipped:
		return "skipped"
	}

	return "unknown"
}

// Outcome records the result of one archive's pass through the pipeline.
type Outcome struct {
	Archive Archive
	Status  Status
	// Err carries the stage failure when Status is not OK.
	Err error
}

// Failed reports whether this archive was left un-normalized.
func (o Outcome) Failed() bool {
	return o.Status != OK
}

// RunStatus represents the overall state of a repackaging run.
type RunStatus int

const (
	// Completed means every job was attempted, though some may have failed.
	Completed RunStatus = iota
	// Aborted means a rebuild failure stopped the run before all jobs
	// were attempted.
	Aborted
)

// String returns the human-readable label for the run status.
func (s RunStatus) String() string {
	if s == Aborted {
		return "aborted"
	}

	return "completed"
}

// RunReport aggregates per-archive outcomes for one engine invocation.
// Outcomes appear in the order the archives were resolved.
type RunReport struct {
	Outcomes []Outcome
	Status   RunStatus
	Duration time.Duration
}

// FailedCount returns the number of archives that were not normalized.
func (r RunReport) FailedCount() int {
	count := 0

	for _, outcome := range r.Outcomes {
		if outcome.Failed() {
			count++
		}
	}

	return count
}

// Succeeded reports whether the run completed with every archive rebuilt.
func (r RunReport) Succeeded() bool {
	return r.Status == Completed && r.FailedCount() == 0
}
