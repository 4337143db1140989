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

func startWatcher(t *testing.T, opts Options) (*Watcher, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))

	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	go func() { _ = w.Start(ctx, root) }()

	// Give the watcher time to register directories
	time.Sleep(200 * time.Millisecond)
	return w, root
}

func waitBatch(t *testing.T, w *Watcher) []FileEvent {
	t.Helper()
	select {
	case batch := <-w.Events():
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for file events")
		return nil
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	// When: a malformed pattern is given
	_, err := New(Options{Patterns: []string{"docs/[a"}})

	// Then: creation fails
	assert.Error(t, err)
}

func TestWatcher_ReportsMatchingFiles(t *testing.T) {
	// Given: a watcher restricted to markdown under docs
	w, root := startWatcher(t, Options{
		DebounceWindow: 50 * time.Millisecond,
		Patterns:       []string{"docs/**/*.md"},
	})

	// When: a matching and a non-matching file are written
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "intro.md"), []byte("# Intro"), 0o644))

	// Then: only the markdown file is reported
	batch := waitBatch(t, w)
	require.NotEmpty(t, batch)
	for _, ev := range batch {
		assert.Equal(t, "intro.md", filepath.Base(ev.Path))
	}
}

func TestWatcher_ConfigChange(t *testing.T) {
	// Given: a watcher with patterns that exclude the config file
	w, root := startWatcher(t, Options{
		DebounceWindow: 50 * time.Millisecond,
		Patterns:       []string{"docs/**/*.md"},
	})

	// When: the project config is written
	require.NoError(t, os.WriteFile(filepath.Join(root, ".contentgraph.yaml"), []byte("version: 1\n"), 0o644))

	// Then: a config change is reported
	batch := waitBatch(t, w)
	require.Len(t, batch, 1)
	assert.Equal(t, OpConfigChange, batch[0].Operation)
}

func TestWatcher_Relevant(t *testing.T) {
	// Given: a watcher rooted at a known path
	w, err := New(Options{Patterns: []string{"./docs/**/*.{md,mdx}"}})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	w.rootPath = "/repo"

	// Then: paths are matched relative to the root
	assert.True(t, w.Relevant("/repo/docs/guide/intro.mdx"))
	assert.False(t, w.Relevant("/repo/src/Button.tsx"))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "CONFIG_CHANGE", OpConfigChange.String())
	assert.Equal(t, "UNKNOWN", Operation(99).String())
}
