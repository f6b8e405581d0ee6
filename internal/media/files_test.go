package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "system.wav")
	dst := filepath.Join(dir, "mixed.wav")
	require.NoError(t, os.WriteFile(src, []byte("pcm"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("older and longer"), 0644))

	require.NoError(t, CopyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "pcm", string(data))
	assert.FileExists(t, src)

	require.Error(t, CopyFile(filepath.Join(dir, "missing.wav"), dst))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "standup.screen.webm")
	dst := filepath.Join(dir, "archived.webm")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0644))

	require.NoError(t, MoveFile(src, dst))
	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "video", string(data))

	require.Error(t, MoveFile(src, filepath.Join(dir, "again.webm")))
}
