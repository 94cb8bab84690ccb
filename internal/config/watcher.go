package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/asheshgoplani/dragsheet/internal/logging"
)

var configLog = logging.ForComponent(logging.CompConfig)

// reloadDebounce coalesces the burst of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// Update is a reloaded config. Err is set when the file failed to parse, in
// which case Config holds defaults.
type Update struct {
	Config *UserConfig
	Err    error
}

// Watcher watches the config directory and publishes a reloaded config after
// every change to config.toml.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	updates chan Update
	// shared is set for the default directory, whose reloads also refresh
	// the LoadUserConfig cache.
	shared bool

	closeOnce sync.Once
}

// NewWatcher creates a watcher for the config directory, creating it when
// missing. Call Run to begin watching.
func NewWatcher() (*Watcher, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	w, err := NewWatcherForDir(dir)
	if err != nil {
		return nil, err
	}
	w.shared = true
	return w, nil
}

// NewWatcherForDir watches dir instead of the default config directory.
func NewWatcherForDir(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:     dir,
		watcher: fw,
		updates: make(chan Update, 1),
	}, nil
}

// Updates delivers reloaded configs. Only the latest pending update is kept.
func (w *Watcher) Updates() <-chan Update { return w.updates }

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	var (
		debounceTimer *time.Timer
		mu            sync.Mutex
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != UserConfigFileName {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, w.reload)
			mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			configLog.Warn("config_watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	path := filepath.Join(w.dir, UserConfigFileName)
	cfg, err := readUserConfig(path)
	if err != nil {
		configLog.Warn("config_reload_failed", slog.String("path", path), slog.String("error", err.Error()))
	} else {
		configLog.Info("config_reloaded", slog.String("path", path))
		if w.shared {
			userConfigCacheMu.Lock()
			userConfigCache = cfg
			userConfigCacheMu.Unlock()
		}
	}
	w.publish(Update{Config: cfg, Err: err})
}

// publish replaces any update the reader has not consumed yet.
func (w *Watcher) publish(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
