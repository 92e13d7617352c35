package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransientFiles(t *testing.T) *TransientFiles {
	t.Helper()
	tf, err := NewTransientFiles(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	return tf
}

func TestTransientWriteReadExists(t *testing.T) {
	tf := newTestTransientFiles(t)

	name, err := tf.Write("upload.png", []byte("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "upload.png", name)
	assert.True(t, tf.Exists("upload.png"))

	data, err := tf.Read("upload.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	_, err = tf.Read("missing.png")
	assert.Error(t, err)
	assert.False(t, tf.Exists("missing.png"))
}

func TestTransientRejectsPathTraversal(t *testing.T) {
	tf := newTestTransientFiles(t)

	_, err := tf.Read("../outside.txt")
	assert.Error(t, err)
	assert.False(t, tf.Exists("../../etc/passwd"))
}

func TestTransientBackupAndDelete(t *testing.T) {
	tf := newTestTransientFiles(t)

	_, err := tf.Write("keep.png", []byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, tf.Backup("keep.png"))

	backed, err := os.ReadFile(filepath.Join(tf.backupDir, "keep.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), backed)

	deleted, failed := tf.DeleteFiles([]string{"keep.png", "already-gone.png"})
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 0, failed)
	assert.False(t, tf.Exists("keep.png"))

	assert.Error(t, tf.Backup("never-existed.png"))
}

func TestTransientURLHelpers(t *testing.T) {
	assert.True(t, IsTransientURL("/uploads/temp/a.png"))
	assert.False(t, IsTransientURL("/files/a.png"))
	assert.Equal(t, "a.png", FileNameFromURL("/uploads/temp/a.png"))
}
