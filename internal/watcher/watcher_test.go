package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpCreate, "CREATE"},
		{OpModify, "MODIFY"},
		{OpDelete, "DELETE"},
		{OpRename, "RENAME"},
		{OpRulesChange, "RULES_CHANGE"},
		{Operation(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestRulesChanged(t *testing.T) {
	assert.False(t, RulesChanged(nil))
	assert.False(t, RulesChanged([]FileEvent{{Path: "a", Operation: OpCreate}}))
	assert.True(t, RulesChanged([]FileEvent{{Path: "a"}, {Path: ".gitignore", Operation: OpRulesChange}}))
}

func TestOptions_WithDefaults(t *testing.T) {
	opts := Options{RulesPath: "/r/.gitignore"}.WithDefaults()

	assert.Equal(t, 300*time.Millisecond, opts.DebounceWindow)
	assert.Equal(t, 16, opts.EventBufferSize)
	assert.Equal(t, "/r/.gitignore", opts.RulesPath)

	custom := Options{DebounceWindow: time.Second, EventBufferSize: 2}.WithDefaults()
	assert.Equal(t, time.Second, custom.DebounceWindow)
	assert.Equal(t, 2, custom.EventBufferSize)
}

// startWatcher runs a watcher on root until the test ends.
func startWatcher(t *testing.T, root string, opts Options) *Watcher {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx, root)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register directories.
	time.Sleep(150 * time.Millisecond)
	return w
}

func waitFor(t *testing.T, w *Watcher, match func(FileEvent) bool) FileEvent {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case batch, ok := <-w.Events():
			require.True(t, ok, "events channel closed")
			for _, e := range batch {
				if match(e) {
					return e
				}
			}
		case <-deadline:
			t.Fatal("timeout waiting for event")
			return FileEvent{}
		}
	}
}

func TestWatcher_ReportsFileCreateInSubdirectory(t *testing.T) {
	// Given: a watched tree with a subdirectory
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	w := startWatcher(t, root, Options{DebounceWindow: 20 * time.Millisecond})

	// When: a file is created below it
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "new.txt"), []byte("x"), 0o644))

	// Then: a slash-separated relative event arrives
	e := waitFor(t, w, func(e FileEvent) bool { return e.Path == "sub/new.txt" })
	assert.Contains(t, []Operation{OpCreate, OpModify}, e.Operation)
}

func TestWatcher_ReportsRuleFileOutsideRoot(t *testing.T) {
	// Given: a rule file in a different directory
	root := t.TempDir()
	rulesDir := t.TempDir()
	rulesPath := filepath.Join(rulesDir, "rules")
	require.NoError(t, os.WriteFile(rulesPath, []byte("*.log\n"), 0o644))

	w := startWatcher(t, root, Options{DebounceWindow: 20 * time.Millisecond, RulesPath: rulesPath})

	// When: the rule file is rewritten and a sibling changes
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "other"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(rulesPath, []byte("*.tmp\n"), 0o644))

	// Then: a rules change is reported and the sibling is not
	e := waitFor(t, w, func(e FileEvent) bool { return e.Operation == OpRulesChange })
	assert.Equal(t, rulesPath, e.Path)
}

func TestWatcher_StopClosesChannels(t *testing.T) {
	w, err := New(DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
	_, ok = <-w.Errors()
	assert.False(t, ok)
}

func TestWatcher_StartOnMissingRoot(t *testing.T) {
	w, err := New(DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}
