package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, d *Debouncer) []FileEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced batch")
		return nil
	}
}

func TestDebouncer_Coalescing(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want []Operation
	}{
		{name: "create then modify", ops: []Operation{OpCreate, OpModify}, want: []Operation{OpCreate}},
		{name: "modify then delete", ops: []Operation{OpModify, OpDelete}, want: []Operation{OpDelete}},
		{name: "delete then create", ops: []Operation{OpDelete, OpCreate}, want: []Operation{OpModify}},
		{name: "modify twice", ops: []Operation{OpModify, OpModify}, want: []Operation{OpModify}},
		{name: "config change wins", ops: []Operation{OpModify, OpConfigChange, OpModify}, want: []Operation{OpConfigChange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a debouncer with a short window
			d := NewDebouncer(20*time.Millisecond, nil)
			defer d.Stop()

			// When: several events arrive for one path
			for _, op := range tt.ops {
				d.Add(FileEvent{Path: "/docs/a.md", Operation: op, Timestamp: time.Now()})
			}

			// Then: one merged event is emitted
			batch := receive(t, d)
			got := make([]Operation, 0, len(batch))
			for _, ev := range batch {
				got = append(got, ev.Operation)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDebouncer_CreateThenDeleteCancels(t *testing.T) {
	// Given: a debouncer
	d := NewDebouncer(20*time.Millisecond, nil)
	defer d.Stop()

	// When: a file is created and deleted, then another file changes
	d.Add(FileEvent{Path: "/docs/tmp.md", Operation: OpCreate})
	d.Add(FileEvent{Path: "/docs/tmp.md", Operation: OpDelete})
	d.Add(FileEvent{Path: "/docs/b.md", Operation: OpModify})

	// Then: only the surviving change is emitted
	batch := receive(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, "/docs/b.md", batch[0].Path)
}

func TestDebouncer_BatchSortedByPath(t *testing.T) {
	// Given: a debouncer
	d := NewDebouncer(20*time.Millisecond, nil)
	defer d.Stop()

	// When: events arrive out of order
	d.Add(FileEvent{Path: "/docs/c.md", Operation: OpModify})
	d.Add(FileEvent{Path: "/docs/a.md", Operation: OpCreate})
	d.Add(FileEvent{Path: "/docs/b.md", Operation: OpDelete})

	// Then: the batch is ordered by path
	batch := receive(t, d)
	require.Len(t, batch, 3)
	assert.Equal(t, "/docs/a.md", batch[0].Path)
	assert.Equal(t, "/docs/b.md", batch[1].Path)
	assert.Equal(t, "/docs/c.md", batch[2].Path)
}

func TestDebouncer_StopClosesOutput(t *testing.T) {
	// Given: a debouncer with a pending event
	d := NewDebouncer(time.Hour, nil)
	d.Add(FileEvent{Path: "/docs/a.md", Operation: OpModify})

	// When: it is stopped twice
	d.Stop()
	d.Stop()

	// Then: the output is closed and later adds are ignored
	_, ok := <-d.Output()
	assert.False(t, ok)
	d.Add(FileEvent{Path: "/docs/b.md", Operation: OpModify})
}
