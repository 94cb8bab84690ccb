package ui

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	dark "github.com/thiagokokada/dark-mode-go"

	"github.com/asheshgoplani/dragsheet/internal/logging"
)

var uiLog = logging.ForComponent(logging.CompUI)

// ThemeChangedMsg reports that the OS switched between dark and light mode.
type ThemeChangedMsg struct {
	Theme Theme
}

// ThemeWatcher follows the OS dark mode setting for the "system" theme.
type ThemeWatcher struct {
	changeCh  chan Theme    // buffered, latest change wins
	closeCh   chan struct{} // signals the watch goroutine to stop
	closeOnce sync.Once
}

// NewThemeWatcher creates and starts a theme watcher.
// Returns nil if WatchDarkMode fails (caller should fall back gracefully).
func NewThemeWatcher(parentCtx context.Context) *ThemeWatcher {
	ctx, cancel := context.WithCancel(parentCtx)

	events, errs, err := dark.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		uiLog.Warn("theme_watcher_init_failed", slog.String("error", err.Error()))
		return nil
	}
	return newThemeWatcher(cancel, events, errs)
}

func newThemeWatcher(cancel context.CancelFunc, events <-chan bool, errs <-chan error) *ThemeWatcher {
	tw := &ThemeWatcher{
		changeCh: make(chan Theme, 1),
		closeCh:  make(chan struct{}),
	}
	go tw.watchLoop(cancel, events, errs)
	return tw
}

func (tw *ThemeWatcher) watchLoop(cancel context.CancelFunc, events <-chan bool, errs <-chan error) {
	defer cancel()
	for {
		select {
		case <-tw.closeCh:
			return
		case isDark, ok := <-events:
			if !ok {
				return
			}
			theme := ThemeLight
			if isDark {
				theme = ThemeDark
			}
			uiLog.Debug("os_theme_changed", slog.String("theme", string(theme)))
			// Replace a change the UI has not picked up yet
			select {
			case <-tw.changeCh:
			default:
			}
			tw.changeCh <- theme
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				uiLog.Warn("theme_watcher_error", slog.String("error", err.Error()))
			}
		}
	}
}

// ChangeChannel returns the channel that receives OS theme changes.
func (tw *ThemeWatcher) ChangeChannel() <-chan Theme {
	return tw.changeCh
}

// Close stops the watcher goroutine. Safe to call multiple times.
func (tw *ThemeWatcher) Close() {
	tw.closeOnce.Do(func() {
		close(tw.closeCh)
	})
}

// listenForThemeChange waits for the next OS theme change.
func listenForThemeChange(tw *ThemeWatcher) tea.Cmd {
	if tw == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case theme := <-tw.changeCh:
			return ThemeChangedMsg{Theme: theme}
		case <-tw.closeCh:
			return nil
		}
	}
}
