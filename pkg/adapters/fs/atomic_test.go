package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacePage(t *testing.T) {
	t.Run("New page", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "D001.md")
		require.NoError(t, replacePage(abs, []byte("# D001\n")))

		got, err := os.ReadFile(abs)
		require.NoError(t, err)
		assert.Equal(t, "# D001\n", string(got))
		info, err := os.Stat(abs)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
	})

	t.Run("Existing index keeps its permissions", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "README.md")
		require.NoError(t, os.WriteFile(abs, []byte("old index"), 0600))
		require.NoError(t, os.Chmod(abs, 0600))

		require.NoError(t, replacePage(abs, []byte("new index")))

		got, err := os.ReadFile(abs)
		require.NoError(t, err)
		assert.Equal(t, "new index", string(got))
		info, err := os.Stat(abs)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("No scratch files are left", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, replacePage(filepath.Join(dir, "SUMMARY.md"), []byte("# Summary\n")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, strings.HasPrefix(entries[0].Name(), TempFilePrefix))
	})

	t.Run("Missing folder", func(t *testing.T) {
		err := replacePage(filepath.Join(t.TempDir(), "documents", "D001.md"), []byte("x"))
		assert.Error(t, err)
	})
}
