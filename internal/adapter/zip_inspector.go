package adapter

import (
	"archive/zip"

	m "rezip.dev/pkg/rezip/internal/model"
)

// ZipInspector provides read-only access to archive contents for commands
// that report on archives without modifying them.
type ZipInspector interface {
	// CountEntries returns the number of file entries (directory
	// placeholders excluded) in the archive at path.
	CountEntries(path m.Path) (int, error)

	// ListEntries returns the entry names of the archive at path in
	// stored order, directory placeholders excluded.
	ListEntries(path m.Path) ([]string, error)
}

// LocalZipInspector implements ZipInspector with archive/zip.
type LocalZipInspector struct{}

// NewLocalZipInspector constructs a LocalZipInspector.
func NewLocalZipInspector() *LocalZipInspector {
	return &LocalZipInspector{}
}

// CountEntries returns the number of file entries in the archive.
func (z *LocalZipInspector) CountEntries(path m.Path) (int, error) {
	entries, err := z.ListEntries(path)
	if err != nil {
		return 0, err
	}

	return len(entries), nil
}

// ListEntries returns file entry names in stored order.
func (z *LocalZipInspector) ListEntries(path m.Path) ([]string, error) {
	reader, err := zip.OpenReader(string(path))
	if err != nil {
		return nil, err
	}

	defer func() { _ = reader.Close() }()

	names := make([]string, 0, len(reader.File))

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		names = append(names, file.Name)
	}

	return names, nil
}
