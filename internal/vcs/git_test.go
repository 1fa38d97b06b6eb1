package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	if !Available() {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	info, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInit_MissingBinary(t *testing.T) {
	orig := binGit
	t.Cleanup(func() { binGit = orig })
	binGit = "git-does-not-exist-bowl"

	assert.False(t, Available())
	err := Init(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git init")
}
