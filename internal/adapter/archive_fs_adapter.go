// Package adapter contains infrastructure adapters for the rezip CLI.
package adapter

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	m "rezip.dev/pkg/rezip/internal/model"
)

// ArchiveFS abstracts the filesystem operations the repackaging engine
// relies on. It intentionally hides direct `os` access so the pipeline
// stages can be tested with injected failures (timestamp writes that fail,
// renames that refuse to cross devices) without touching the disk.
type ArchiveFS interface {
	// Stat returns metadata for a path so the engine can check existence
	// or distinguish between files and directories.
	Stat(path m.Path) (os.FileInfo, error)

	// WalkDir traverses the tree rooted at root in lexical order.
	WalkDir(root m.Path, fn fs.WalkDirFunc) error

	// Mkdir creates a single directory and fails if it already exists.
	Mkdir(path m.Path, perm os.FileMode) error

	// MkdirAll creates a directory along with any missing parents.
	MkdirAll(path m.Path, perm os.FileMode) error

	// Remove removes a single file.
	Remove(path m.Path) error

	// RemoveAll removes a directory tree. Removing a path that does not
	// exist is not an error.
	RemoveAll(path m.Path) error

	// Rename atomically replaces newPath with oldPath when both live on
	// the same filesystem.
	Rename(oldPath, newPath m.Path) error

	// Chtimes sets the access and modification times of a file.
	Chtimes(path m.Path, atime, mtime time.Time) error

	// Chmod sets the permission bits of a path. Unlike the mode passed to
	// Create, the result is not masked by the process umask.
	Chmod(path m.Path, mode os.FileMode) error

	// Create creates or truncates the file at path for writing with the
	// given permissions.
	Create(path m.Path, perm os.FileMode) (*os.File, error)

	// Open opens the file at path for reading.
	Open(path m.Path) (*os.File, error)

	// CopyFile copies src to dst with the given permissions, flushing
	// dst to stable storage before returning.
	CopyFile(src, dst m.Path, perm os.FileMode) error
}

// LocalArchiveFS is the concrete ArchiveFS backed by the os package.
type LocalArchiveFS struct{}

// NewLocalArchiveFS constructs a LocalArchiveFS ready to be wired into the
// engine.
func NewLocalArchiveFS() *LocalArchiveFS {
	return &LocalArchiveFS{}
}

// Stat returns os.FileInfo metadata for the given path.
func (a *LocalArchiveFS) Stat(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WalkDir traverses the tree rooted at root in lexical order.
func (a *LocalArchiveFS) WalkDir(root m.Path, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(string(root), fn)
}

// Mkdir creates a single directory, failing if it already exists.
func (a *LocalArchiveFS) Mkdir(path m.Path, perm os.FileMode) error {
	return os.Mkdir(string(path), perm)
}

// MkdirAll creates a directory along with any missing parents.
func (a *LocalArchiveFS) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// Remove removes a single file.
func (a *LocalArchiveFS) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// RemoveAll removes a directory tree, treating "not found" as success.
func (a *LocalArchiveFS) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// Rename atomically replaces newPath with oldPath.
func (a *LocalArchiveFS) Rename(oldPath, newPath m.Path) error {
	return os.Rename(string(oldPath), string(newPath))
}

// Chtimes sets the access and modification times of a file.
func (a *LocalArchiveFS) Chtimes(path m.Path, atime, mtime time.Time) error {
	return os.Chtimes(string(path), atime, mtime)
}

// Chmod sets the permission bits of a path.
func (a *LocalArchiveFS) Chmod(path m.Path, mode os.FileMode) error {
	return os.Chmod(string(path), mode)
}

// Create creates or truncates the file at path for writing.
func (a *LocalArchiveFS) Create(path m.Path, perm os.FileMode) (*os.File, error) {
	// #nosec G304 - path is an engine-owned path, not user input
	return os.OpenFile(string(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

// Open opens the file at path for reading.
func (a *LocalArchiveFS) Open(path m.Path) (*os.File, error) {
	// #nosec G304 - path is confined to engine-owned trees
	return os.Open(string(path))
}

// CopyFile copies src to dst with the given permissions and syncs dst
// before returning, so a crash after CopyFile cannot leave a short file.
func (a *LocalArchiveFS) CopyFile(src, dst m.Path, perm os.FileMode) error {
	// #nosec G304 - src is an engine-owned staging path, not user input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	// #nosec G304 - dst is an engine-owned path, not user input
	destFile, err := os.OpenFile(string(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}

	if err := destFile.Sync(); err != nil {
		_ = destFile.Close()
		return err
	}

	return destFile.Close()
}
