// Package walker lists the regular files below a directory.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
)

// Option configures a Walker.
type Option func(*Walker)

// WithFollowSymlinks makes the walker descend into symlinked directories and
// report symlinked files. By default symlinks are skipped.
func WithFollowSymlinks(follow bool) Option {
	return func(w *Walker) {
		w.followSymlinks = follow
	}
}

// Walker traverses a directory tree through an afero.Fs.
type Walker struct {
	fs             afero.Fs
	followSymlinks bool
}

// New creates a Walker. A nil fsys means the OS filesystem.
func New(fsys afero.Fs, opts ...Option) *Walker {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	w := &Walker{fs: fsys}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ListFiles returns every regular file below root as a slash-separated path
// relative to root, sorted lexicographically. Any traversal failure aborts the
// walk with an IOError; partial results are never returned.
func (w *Walker) ListFiles(ctx context.Context, root string) ([]string, error) {
	info, err := w.fs.Stat(root)
	if err != nil {
		return nil, rootError(root, err)
	}
	if !info.IsDir() {
		return nil, ckerrors.IOError(ckerrors.ErrCodeNotADirectory,
			fmt.Sprintf("not a directory: %s", root), nil).
			WithDetail("path", root)
	}

	var files []string
	if err := w.walk(ctx, root, "", []os.FileInfo{info}, &files); err != nil {
		return nil, err
	}

	sort.Strings(files)
	slog.Debug("walk complete", slog.String("root", root), slog.Int("files", len(files)))
	return files, nil
}

// walk appends the files of dir to files. rel is dir relative to the root in
// slash form; ancestors holds the directories on the current path, used to
// stop symlink cycles.
func (w *Walker) walk(ctx context.Context, dir, rel string, ancestors []os.FileInfo, files *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return walkError(dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		relPath := path.Join(rel, name)

		if entry.Mode()&fs.ModeSymlink != 0 {
			if !w.followSymlinks {
				slog.Debug("skipping symlink", slog.String("path", relPath))
				continue
			}
			target, err := w.fs.Stat(full)
			if err != nil {
				slog.Warn("skipping broken symlink", slog.String("path", relPath), slog.String("error", err.Error()))
				continue
			}
			entry = target
		}

		switch {
		case entry.IsDir():
			if inCycle(ancestors, entry) {
				slog.Warn("skipping symlink cycle", slog.String("path", relPath))
				continue
			}
			if err := w.walk(ctx, full, relPath, append(ancestors, entry), files); err != nil {
				return err
			}
		case entry.Mode().IsRegular():
			*files = append(*files, relPath)
		}
	}
	return nil
}

func inCycle(ancestors []os.FileInfo, dir os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, dir) {
			return true
		}
	}
	return false
}

func rootError(root string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ckerrors.IOError(ckerrors.ErrCodePathNotFound,
			fmt.Sprintf("directory not found: %s", root), err).
			WithDetail("path", root)
	case errors.Is(err, fs.ErrPermission):
		return ckerrors.IOError(ckerrors.ErrCodePermission,
			fmt.Sprintf("permission denied: %s", root), err).
			WithDetail("path", root)
	default:
		return ckerrors.IOError(ckerrors.ErrCodeWalkFailed,
			fmt.Sprintf("cannot access %s", root), err).
			WithDetail("path", root)
	}
}

func walkError(dir string, err error) error {
	code := ckerrors.ErrCodeWalkFailed
	if errors.Is(err, fs.ErrPermission) {
		code = ckerrors.ErrCodePermission
	}
	return ckerrors.IOError(code, fmt.Sprintf("failed to read directory %s", dir), err).
		WithDetail("path", dir)
}
