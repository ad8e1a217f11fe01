package adapter

import (
	"archive/zip"
	"os"
	"testing"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func readBytes(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return data
}

// buildZip writes a fixture archive at path. Names ending in "/" become
// directory entries.
func buildZip(t *testing.T, path string, names []string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}

	writer := zip.NewWriter(file)

	for _, name := range names {
		entryWriter, err := writer.Create(name)
		if err != nil {
			t.Fatalf("add fixture entry %s: %v", name, err)
		}

		if name[len(name)-1] != '/' {
			if _, err := entryWriter.Write([]byte("content of " + name)); err != nil {
				t.Fatalf("write fixture entry %s: %v", name, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close fixture writer: %v", err)
	}

	if err := file.Close(); err != nil {
		t.Fatalf("close fixture file: %v", err)
	}
}
