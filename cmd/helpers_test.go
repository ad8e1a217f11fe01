package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// silenceLogFile points the run log at a per-test location so executing
// commands does not litter the working directory.
func silenceLogFile(t *testing.T) {
	t.Helper()
	viper.Set(logFilenameKey, filepath.Join(t.TempDir(), "rezip.log"))
}

// runRoot executes the CLI with the given arguments and returns its
// combined output.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}
	rootCmd.SetOut(output)
	rootCmd.SetErr(output)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return output.String(), err
}

// writeFixtureZip builds an archive with entries in the given physical
// order. Names ending in "/" become directory entries.
func writeFixtureZip(t *testing.T, path string, modified time.Time, names map[string]string, order []string) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(file)

	for _, name := range order {
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		}

		isDir := name[len(name)-1] == '/'
		if isDir {
			header.Method = zip.Store
			header.SetMode(0o755 | os.ModeDir)
		} else {
			header.SetMode(0o644)
		}

		entryWriter, err := writer.CreateHeader(header)
		require.NoError(t, err)

		if !isDir {
			_, err = entryWriter.Write([]byte(names[name]))
			require.NoError(t, err)
		}
	}

	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

func writeFixtureFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func readFixtureBytes(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return data
}
