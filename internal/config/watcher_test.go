package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcherForDir(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates():
		return u
	case <-time.After(3 * time.Second):
		t.Fatal("no config update within 3s")
	}
	return Update{}
}

func TestWatcher_PublishesReload(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	writeConfig(t, dir, "theme = \"light\"\n[sheet]\ndirection = \"down\"\n")

	u := waitUpdate(t, w)
	require.NoError(t, u.Err)
	assert.Equal(t, "light", u.Config.Theme)
	assert.Equal(t, "down", u.Config.Sheet.Direction)
}

func TestWatcher_ReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	writeConfig(t, dir, "theme = ")

	u := waitUpdate(t, w)
	require.Error(t, u.Err)
	require.NotNil(t, u.Config)
	assert.Equal(t, "dark", u.Config.GetTheme())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	select {
	case u := <-w.Updates():
		t.Fatalf("unexpected update: %+v", u)
	case <-time.After(3 * reloadDebounce):
	}
}

func TestWatcher_PublishKeepsLatest(t *testing.T) {
	w := &Watcher{updates: make(chan Update, 1)}
	w.publish(Update{Config: &UserConfig{Theme: "light"}})
	w.publish(Update{Config: &UserConfig{Theme: "system"}})

	u := <-w.Updates()
	assert.Equal(t, "system", u.Config.Theme)
	select {
	case <-w.Updates():
		t.Fatal("only one update should be pending")
	default:
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := NewWatcherForDir(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
