package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
)

func memTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte("x"), 0o644))
	}
	return fsys
}

func TestListFiles_ReturnsSortedRelativePaths(t *testing.T) {
	// Given: a nested tree
	fsys := memTree(t,
		"/proj/z.txt",
		"/proj/a/b.go",
		"/proj/a.txt",
		"/proj/.hidden/cfg",
		"/proj/a/deep/er/file.md",
	)
	require.NoError(t, fsys.MkdirAll("/proj/empty", 0o755))

	// When: listing files
	files, err := New(fsys).ListFiles(context.Background(), "/proj")

	// Then: only files are returned, slash-separated and sorted
	require.NoError(t, err)
	assert.Equal(t, []string{
		".hidden/cfg",
		"a.txt",
		"a/b.go",
		"a/deep/er/file.md",
		"z.txt",
	}, files)
}

func TestListFiles_EmptyDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/empty", 0o755))

	files, err := New(fsys).ListFiles(context.Background(), "/empty")

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFiles_RootErrors(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		wantCode string
	}{
		{name: "missing root", root: "/nope", wantCode: ckerrors.ErrCodePathNotFound},
		{name: "root is a file", root: "/proj/file.txt", wantCode: ckerrors.ErrCodeNotADirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := memTree(t, "/proj/file.txt")

			files, err := New(fsys).ListFiles(context.Background(), tt.root)

			require.Error(t, err)
			assert.Nil(t, files)
			assert.True(t, ckerrors.IsIOError(err))
			assert.Equal(t, tt.wantCode, ckerrors.GetCode(err))
		})
	}
}

func TestListFiles_CancelledContext(t *testing.T) {
	fsys := memTree(t, "/proj/a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fsys).ListFiles(ctx, "/proj")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestListFiles_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	// Given: a real tree with a file symlink and a directory symlink
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "ext.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linkdir")))

	t.Run("skipped by default", func(t *testing.T) {
		files, err := New(nil).ListFiles(context.Background(), root)

		require.NoError(t, err)
		assert.Equal(t, []string{"real.txt"}, files)
	})

	t.Run("followed when enabled", func(t *testing.T) {
		files, err := New(nil, WithFollowSymlinks(true)).ListFiles(context.Background(), root)

		require.NoError(t, err)
		assert.Equal(t, []string{"link.txt", "linkdir/ext.txt", "real.txt"}, files)
	})
}

func TestListFiles_SymlinkCycleIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "f.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "sub", "loop")))

	files, err := New(nil, WithFollowSymlinks(true)).ListFiles(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{"sub/f.txt"}, files)
}
