package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitBatch(t *testing.T, d *Debouncer) []FileEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for debounced batch")
		return nil
	}
}

func TestDebouncer_SingleEvent_PassesThrough(t *testing.T) {
	// Given: a debouncer with short window
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	// When: a single event is added
	d.Add(FileEvent{Path: "test.go", Operation: OpCreate, Timestamp: time.Now()})

	// Then: the event passes through after the debounce window
	batch := waitBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, "test.go", batch[0].Path)
	assert.Equal(t, OpCreate, batch[0].Operation)
}

func TestDebouncer_BurstBecomesOneBatch(t *testing.T) {
	d := NewDebouncer(80 * time.Millisecond)
	defer d.Stop()

	// When: events arrive faster than the window
	for i := 0; i < 5; i++ {
		d.Add(FileEvent{Path: "test.go", Operation: OpModify})
		time.Sleep(10 * time.Millisecond)
	}
	d.Add(FileEvent{Path: "b.go", Operation: OpCreate})

	// Then: one batch, one entry per path, sorted by path
	batch := waitBatch(t, d)
	require.Len(t, batch, 2)
	assert.Equal(t, "b.go", batch[0].Path)
	assert.Equal(t, "test.go", batch[1].Path)
	assert.Equal(t, OpModify, batch[1].Operation)
}

func TestMerge_Rules(t *testing.T) {
	tests := []struct {
		name   string
		ops    []Operation
		want   Operation
		absent bool
	}{
		{name: "create then modify", ops: []Operation{OpCreate, OpModify}, want: OpCreate},
		{name: "create then delete", ops: []Operation{OpCreate, OpDelete}, absent: true},
		{name: "modify then delete", ops: []Operation{OpModify, OpDelete}, want: OpDelete},
		{name: "delete then create", ops: []Operation{OpDelete, OpCreate}, want: OpModify},
		{name: "modify then rename", ops: []Operation{OpModify, OpRename}, want: OpRename},
		{name: "rules change is sticky", ops: []Operation{OpRulesChange, OpDelete}, want: OpRulesChange},
		{name: "rules change wins late", ops: []Operation{OpCreate, OpRulesChange}, want: OpRulesChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := pendingEvent{first: tt.ops[0], event: FileEvent{Path: "x", Operation: tt.ops[0]}}
			keep := true
			for _, op := range tt.ops[1:] {
				pe, keep = merge(pe, FileEvent{Path: "x", Operation: op})
			}

			if tt.absent {
				assert.False(t, keep)
				return
			}
			require.True(t, keep)
			assert.Equal(t, tt.want, pe.event.Operation)
		})
	}
}

func TestDebouncer_CancelledPathEmitsNothing(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "temp.go", Operation: OpCreate})
	d.Add(FileEvent{Path: "temp.go", Operation: OpDelete})

	select {
	case batch := <-d.Output():
		t.Fatalf("expected no batch, got %v", batch)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncer_Stop_ClosesOutput(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	d.Stop()
	d.Stop()
	d.Add(FileEvent{Path: "late.go", Operation: OpCreate})

	_, ok := <-d.Output()
	assert.False(t, ok, "channel should be closed")
}
