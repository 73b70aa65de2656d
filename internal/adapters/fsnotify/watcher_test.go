package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("he\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	fired := make(chan string, 8)
	require.NoError(t, w.Watch(path, func(p string) { fired <- p }))

	require.NoError(t, os.WriteFile(path, []byte("he\nshe\n"), 0644))

	select {
	case p := <-fired:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire within 3s")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("he\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	fired := make(chan string, 8)
	require.NoError(t, w.Watch(path, func(p string) { fired <- p }))

	require.NoError(t, os.WriteFile(other, []byte("noise\n"), 0644))

	select {
	case p := <-fired:
		t.Fatalf("unexpected event for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
