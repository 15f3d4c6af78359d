package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("batches/a.csv", []byte("a,b\n")))
	file, size, err := store.Open("batches/a.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "a,b\n", string(data))
	assert.EqualValues(t, 4, size)

	require.NoError(t, store.Delete("batches/a.csv"))
	require.NoError(t, store.Delete("batches/a.csv"))
	_, _, err = store.Open("batches/a.csv")
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.csv", "/etc/passwd", "a/../../x"} {
		assert.ErrorIs(t, store.Save(name, []byte("x")), ErrOutsideRoot, name)
	}
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root)
	require.NoError(t, err)

	require.NoError(t, store.Save("old.csv", []byte("old")))
	require.NoError(t, store.Save("new.csv", []byte("new")))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "old.csv"), past, past))

	removed, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, removed)

	_, _, err = store.Open("new.csv")
	assert.NoError(t, err)
}
