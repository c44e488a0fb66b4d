package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	writeFile(t, a, "<a/>")

	w := New(DefaultConfig())
	changes := map[string]int{}
	removed := map[string]bool{}
	fw := NewFileWatcher(w, dir, func(path string, doc *Document) {
		if doc == nil {
			removed[path] = true
			return
		}
		changes[path]++
	})

	ctx := context.Background()
	fw.scan(ctx)
	require.Equal(t, 1, changes[a])
	require.Equal(t, "<a/>", w.Get(a).Text)

	// Unchanged files are not parsed again.
	fw.scan(ctx)
	require.Equal(t, 1, changes[a])

	writeFile(t, a, "<a><b></a>")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(a, later, later))
	fw.scan(ctx)
	require.Equal(t, 2, changes[a])
	require.Len(t, w.Get(a).Diagnostics(), 1)

	require.NoError(t, os.Remove(a))
	fw.scan(ctx)
	require.True(t, removed[a])
	require.Nil(t, w.Get(a))
}

func TestFileWatcherStartStop(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	writeFile(t, a, "<a/>")

	cfg := DefaultConfig()
	cfg.PollInterval.Duration = 10 * time.Millisecond
	w := New(cfg)

	seen := make(chan string, 1)
	fw := NewFileWatcher(w, dir, func(path string, doc *Document) {
		select {
		case seen <- path:
		default:
		}
	})
	fw.Start(context.Background())
	defer fw.Stop()

	select {
	case path := <-seen:
		require.Equal(t, a, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the file")
	}
}

func TestFileWatcherPrime(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	writeFile(t, a, "<a/>")
	writeFile(t, b, "<b/>")

	w := New(DefaultConfig())
	var changed []string
	fw := NewFileWatcher(w, dir, func(path string, doc *Document) {
		changed = append(changed, path)
	})
	fw.Prime()

	ctx := context.Background()
	fw.scan(ctx)
	require.Empty(t, changed)

	writeFile(t, b, "<b><c></b>")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(b, later, later))
	fw.scan(ctx)
	require.Equal(t, []string{b}, changed)
}
