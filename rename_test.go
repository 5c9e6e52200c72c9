package remx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameImages(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "deer"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "deer", "IMG_0001.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "toplevel.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "deer", "notes.txt"), []byte("x"), 0644))

	require.NoError(t, RenameImages(root))

	entries, err := os.ReadDir(filepath.Join(root, "deer"))
	require.NoError(t, err)

	var renamed []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".jpg" {
			renamed = append(renamed, e.Name())
		}
	}
	require.Len(t, renamed, 1)
	assert.True(t, strings.HasPrefix(renamed[0], "deer-"), "name carries the directory prefix")
	assert.NotEqual(t, "IMG_0001.jpg", renamed[0])

	// Images directly in root and non-image files are untouched.
	_, err = os.Stat(filepath.Join(root, "toplevel.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "deer", "notes.txt"))
	assert.NoError(t, err)
}
