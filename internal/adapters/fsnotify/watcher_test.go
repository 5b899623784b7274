package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnProfileWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 8)
	require.NoError(t, w.Watch(dir, func(path string) { changed <- path }))

	target := filepath.Join(dir, "new.xml.fdm_material")
	require.NoError(t, os.WriteFile(target, []byte("<Filament/>"), 0o644))

	select {
	case path := <-changed:
		assert.Equal(t, "new.xml.fdm_material", filepath.Base(path))
	case <-time.After(2 * time.Second):
		t.Fatal("no change event for profile write")
	}
}

func TestWatcher_IgnoresNonProfileFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 8)
	require.NoError(t, w.Watch(dir, func(path string) { changed <- path }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case path := <-changed:
		t.Fatalf("unexpected event for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Watch(t.TempDir(), func(string) {}))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
