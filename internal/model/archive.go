package model

// Path represents a file system path.
type Path string

// Archive identifies one zip archive queued for repackaging.
type Archive struct {
	// Target is the absolute path of the archive on disk. The rebuilt
	// archive is committed back to this exact path.
	Target Path

	// Explicit is true when the path came from the caller-supplied list
	// rather than from filesystem discovery.
	Explicit bool
}

// Job is the ephemeral per-archive state threaded through the pipeline
// stages. It is owned by exactly one pass of the engine and discarded when
// the archive has been committed or the job has failed.
type Job struct {
	Archive Archive

	// ExtractDir is the job's private subdirectory under the shared
	// scratch root.
	ExtractDir Path

	// StagingPath is where the rebuilt archive is written before the
	// atomic swap over Target.
	StagingPath Path
}
