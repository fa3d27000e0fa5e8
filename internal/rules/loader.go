// Package rules loads a gitignore rule file from disk and compiles it.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
	"github.com/Aman-CERP/checkignore/internal/gitignore"
)

// DefaultFileName is the rule file looked up in the working directory.
const DefaultFileName = ".gitignore"

// cacheSize bounds the number of compiled rule sets kept by LoadCached.
const cacheSize = 64

// cacheEntry is a compiled set plus the file state it was built from.
type cacheEntry struct {
	size    int64
	modTime time.Time
	set     *gitignore.PatternSet
}

// Loader reads rule files through an afero.Fs.
type Loader struct {
	fs    afero.Fs
	cache *lru.Cache[string, cacheEntry]
	mu    sync.Mutex
}

// NewLoader creates a Loader backed by fsys. A nil fsys means the OS filesystem.
func NewLoader(fsys afero.Fs) (*Loader, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create rules cache: %w", err)
	}
	return &Loader{fs: fsys, cache: cache}, nil
}

// DefaultPath returns the rule file path used when --ignore is not given.
func DefaultPath(cwd, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(cwd, fileName)
}

// Load reads and compiles the rule file at path.
func (l *Loader) Load(path string) (*gitignore.PatternSet, error) {
	info, err := l.stat(path)
	if err != nil {
		return nil, err
	}
	return l.compile(path, info)
}

// LoadCached is Load with reuse: while the file keeps the same size and
// modification time, the previously compiled set is returned.
func (l *Loader) LoadCached(path string) (*gitignore.PatternSet, error) {
	info, err := l.stat(path)
	if err != nil {
		l.cache.Remove(path)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache.Get(path); ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		slog.Debug("rules cache hit", slog.String("path", path))
		return e.set, nil
	}

	set, err := l.compile(path, info)
	if err != nil {
		l.cache.Remove(path)
		return nil, err
	}
	l.cache.Add(path, cacheEntry{size: info.Size(), modTime: info.ModTime(), set: set})
	return set, nil
}

// Invalidate drops any cached set for path.
func (l *Loader) Invalidate(path string) {
	l.cache.Remove(path)
}

func (l *Loader) stat(path string) (fs.FileInfo, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, readError(path, err)
	}
	if info.IsDir() {
		return nil, ckerrors.ConfigError(ckerrors.ErrCodeRulesUnreadable,
			fmt.Sprintf("rule file %s is a directory", path), nil).
			WithDetail("path", path)
	}
	return info, nil
}

func (l *Loader) compile(path string, info fs.FileInfo) (*gitignore.PatternSet, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, readError(path, err)
	}

	set, err := gitignore.CompileBytes(data)
	if err != nil {
		if ce, ok := ckerrors.As(err); ok {
			return nil, ce.WithDetail("path", path)
		}
		return nil, err
	}

	for _, w := range set.Warnings() {
		slog.Warn("rule skipped or degraded",
			slog.String("file", path),
			slog.Int("line", w.Line),
			slog.String("pattern", w.Pattern),
			slog.String("reason", w.Message))
	}

	slog.Debug("rules compiled",
		slog.String("path", path),
		slog.Int("rules", set.Len()),
		slog.Int64("bytes", info.Size()))
	return set, nil
}

func readError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ckerrors.ConfigError(ckerrors.ErrCodeRulesNotFound,
			fmt.Sprintf("rule file not found: %s", path), err).
			WithDetail("path", path).
			WithSuggestion("Pass an existing file with --ignore or run from a directory containing .gitignore")
	}
	return ckerrors.ConfigError(ckerrors.ErrCodeRulesUnreadable,
		fmt.Sprintf("cannot read rule file %s", path), err).
		WithDetail("path", path)
}
