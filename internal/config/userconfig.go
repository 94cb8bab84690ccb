// Package config loads the user's config.toml and turns it into sheet and
// logging configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	dark "github.com/thiagokokada/dark-mode-go"

	"github.com/asheshgoplani/dragsheet/internal/logging"
	"github.com/asheshgoplani/dragsheet/internal/motion"
	"github.com/asheshgoplani/dragsheet/internal/sheet"
)

// UserConfigFileName is the TOML config file for user preferences
const UserConfigFileName = "config.toml"

// HomeEnv overrides the config directory.
const HomeEnv = "DRAGSHEET_HOME"

// UserConfig represents user-facing configuration in TOML format
type UserConfig struct {
	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`

	Sheet  SheetSettings  `toml:"sheet"`
	Motion MotionSettings `toml:"motion"`
	Logs   LogSettings    `toml:"logs"`
}

// SheetSettings configures the sheet's layout and initial state
type SheetSettings struct {
	// Direction is "bottom-to-top" (default) or "top-to-bottom"
	Direction string `toml:"direction"`

	// Visible shows the sheet on startup
	Visible bool `toml:"visible"`

	// Threshold is the release distance in rows. 0 derives it from the
	// terminal height.
	Threshold float64 `toml:"threshold"`

	// HeightRatio is the share of the terminal the open sheet covers (default: 1.0)
	HeightRatio float64 `toml:"height_ratio"`

	// HandleHeight is the number of rows of the drag area (default: 2)
	HandleHeight int `toml:"handle_height"`

	Title string `toml:"title"`

	Content ContentSettings `toml:"content"`
}

// ContentSettings configures what renders inside the sheet
type ContentSettings struct {
	// Mode is "scroll" (default) or "list"
	Mode string `toml:"mode"`

	ShowScrollbar bool `toml:"show_scrollbar"`

	// MouseWheel scrolls content with the wheel
	// Default: true (pointer to distinguish "not set" from "explicitly false")
	MouseWheel *bool `toml:"mouse_wheel"`

	// WheelDelta is rows per wheel step (default: 3)
	WheelDelta int `toml:"wheel_delta"`

	// Filtering enables "/" fuzzy filtering in list mode
	// Default: true
	Filtering *bool `toml:"filtering"`

	ShowStatusBar  bool `toml:"show_status_bar"`
	ShowPagination bool `toml:"show_pagination"`
}

// MotionSettings tunes the sheet's animations
type MotionSettings struct {
	// Entry spring on the origami scale (defaults: 3, 2, 8)
	EntryVelocity float64 `toml:"entry_velocity"`
	EntryTension  float64 `toml:"entry_tension"`
	EntryFriction float64 `toml:"entry_friction"`

	// RestThreshold ends the spring once distance and speed drop below it (default: 0.1)
	RestThreshold float64 `toml:"rest_threshold"`

	// SnapBackMS is the duration of a snap back to open (default: 200)
	SnapBackMS int `toml:"snap_back_ms"`

	// DismissMS is the duration of the exit animation (default: 400)
	DismissMS int `toml:"dismiss_ms"`

	// Easing is "ease-in-out" (default), "linear" or "ease-out-cubic"
	Easing string `toml:"easing"`
}

// LogSettings defines debug log configuration
type LogSettings struct {
	// DebugLevel sets the minimum log level: "debug", "info", "warn", "error"
	// Default: "info"
	DebugLevel string `toml:"debug_level"`

	// DebugFormat sets the log format: "json" (default) or "text"
	DebugFormat string `toml:"debug_format"`

	// DebugMaxMB is the max size in MB for debug.log before rotation
	// Default: 10
	DebugMaxMB int `toml:"debug_max_mb"`

	// DebugBackups is the number of rotated debug.log files to keep
	// Default: 5
	DebugBackups int `toml:"debug_backups"`

	// DebugRetentionDays is the number of days to keep rotated debug logs
	// Default: 10
	DebugRetentionDays int `toml:"debug_retention_days"`

	// DebugCompress enables gzip compression for rotated debug logs
	DebugCompress bool `toml:"debug_compress"`

	// AggregateIntervalS is the event aggregation flush interval in seconds
	// Default: 30
	AggregateIntervalS int `toml:"aggregate_interval_secs"`
}

// Default user config
var defaultUserConfig = UserConfig{Theme: "dark"}

// Cache for user config (loaded once per session)
var (
	userConfigCache   *UserConfig
	userConfigCacheMu sync.RWMutex
)

// GetConfigDir returns ~/.dragsheet, or $DRAGSHEET_HOME when set
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".dragsheet"), nil
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFileName), nil
}

// LoadUserConfig loads the user configuration from TOML file
// Returns cached config after first load
func LoadUserConfig() (*UserConfig, error) {
	userConfigCacheMu.RLock()
	if userConfigCache != nil {
		defer userConfigCacheMu.RUnlock()
		return userConfigCache, nil
	}
	userConfigCacheMu.RUnlock()

	userConfigCacheMu.Lock()
	defer userConfigCacheMu.Unlock()

	// Double-check after acquiring write lock
	if userConfigCache != nil {
		return userConfigCache, nil
	}

	configPath, err := GetUserConfigPath()
	if err != nil {
		userConfigCache = defaults()
		return userConfigCache, nil
	}

	config, err := readUserConfig(configPath)
	userConfigCache = config
	return userConfigCache, err
}

// readUserConfig decodes path. A missing file yields defaults; a parse error
// yields defaults and the error so the caller can show it.
func readUserConfig(path string) (*UserConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaults(), nil
	}

	var config UserConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return defaults(), fmt.Errorf("config.toml parse error: %w", err)
	}
	return &config, nil
}

func defaults() *UserConfig {
	c := defaultUserConfig
	return &c
}

// ReloadUserConfig forces a reload of the user config
func ReloadUserConfig() (*UserConfig, error) {
	ClearUserConfigCache()
	return LoadUserConfig()
}

// ClearUserConfigCache clears the cached user config, allowing tests to reset state
// This does NOT reload - the next LoadUserConfig() call will read fresh from disk
func ClearUserConfigCache() {
	userConfigCacheMu.Lock()
	userConfigCache = nil
	userConfigCacheMu.Unlock()
}

// GetTheme returns the configured theme, defaulting to "dark"
func (c *UserConfig) GetTheme() string {
	switch c.Theme {
	case "dark", "light", "system":
		return c.Theme
	default:
		return "dark"
	}
}

// ResolveTheme resolves the configured theme to "dark" or "light".
// If theme is "system", detects the OS dark mode setting.
// Falls back to "dark" on detection failure.
func (c *UserConfig) ResolveTheme() string {
	theme := c.GetTheme()
	if theme != "system" {
		return theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil {
		return "dark"
	}
	if isDark {
		return "dark"
	}
	return "light"
}

// Resolve converts the motion settings to animation parameters with defaults
// applied. An unknown easing falls back to ease-in-out and is reported.
func (m MotionSettings) Resolve() (entry motion.SpringParams, snapBack, dismiss motion.TimingParams, err error) {
	entry = motion.DefaultEntrySpring
	if m.EntryVelocity != 0 {
		entry.Velocity = m.EntryVelocity
	}
	if m.EntryTension != 0 {
		entry.Tension = m.EntryTension
	}
	if m.EntryFriction != 0 {
		entry.Friction = m.EntryFriction
	}
	if m.RestThreshold > 0 {
		entry.RestThreshold = m.RestThreshold
	}

	easing, err := motion.ParseEasing(m.Easing)

	snapBack = motion.DefaultSnapBack
	if m.SnapBackMS > 0 {
		snapBack.Duration = time.Duration(m.SnapBackMS) * time.Millisecond
	}
	snapBack.Easing = easing

	dismiss = motion.DefaultDismiss
	if m.DismissMS > 0 {
		dismiss.Duration = time.Duration(m.DismissMS) * time.Millisecond
	}
	dismiss.Easing = easing
	return entry, snapBack, dismiss, err
}

// Resolve converts the content settings to content options.
func (c ContentSettings) Resolve() (sheet.ContentOptions, error) {
	return sheet.ResolveContent(sheet.ContentFlags{
		Mode:           c.Mode,
		ShowScrollbar:  c.ShowScrollbar,
		MouseWheel:     boolOr(c.MouseWheel, true),
		WheelDelta:     c.WheelDelta,
		Filtering:      boolOr(c.Filtering, true),
		ShowStatusBar:  c.ShowStatusBar,
		ShowPagination: c.ShowPagination,
	})
}

// Resolve converts the sheet settings to a sheet configuration without
// motion parameters. An unknown direction falls back to bottom-to-top and is
// reported. Numeric values are passed through unvalidated.
func (s SheetSettings) Resolve() (sheet.Config, error) {
	cfg := sheet.DefaultConfig()
	dir, err := motion.ParseDirection(s.Direction)
	cfg.Direction = dir
	cfg.Visible = s.Visible
	cfg.Threshold = s.Threshold
	if s.HeightRatio != 0 {
		cfg.HeightRatio = s.HeightRatio
	}
	if s.HandleHeight != 0 {
		cfg.HandleHeight = s.HandleHeight
	}
	cfg.Title = s.Title
	return cfg, err
}

// SheetConfig combines the sheet and motion settings. Every fallback taken is
// reported in the joined error; the returned values are always usable.
func (c *UserConfig) SheetConfig() (sheet.Config, sheet.ContentOptions, error) {
	cfg, dirErr := c.Sheet.Resolve()
	entry, snapBack, dismiss, easeErr := c.Motion.Resolve()
	cfg.Entry, cfg.SnapBack, cfg.Dismiss = entry, snapBack, dismiss
	content, contentErr := c.Sheet.Content.Resolve()
	return cfg, content, errors.Join(dirErr, easeErr, contentErr)
}

// LoggingConfig maps the [logs] section onto logging.Config.
func (c *UserConfig) LoggingConfig(logDir string, debug bool) logging.Config {
	return logging.Config{
		LogDir:                logDir,
		Level:                 c.Logs.DebugLevel,
		Format:                c.Logs.DebugFormat,
		MaxSizeMB:             c.Logs.DebugMaxMB,
		MaxBackups:            c.Logs.DebugBackups,
		MaxAgeDays:            c.Logs.DebugRetentionDays,
		Compress:              c.Logs.DebugCompress,
		AggregateIntervalSecs: c.Logs.AggregateIntervalS,
		Debug:                 debug,
	}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// CreateExampleConfig creates an example config file if none exists
func CreateExampleConfig() (string, error) {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return "", err
	}

	// Don't overwrite existing config
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return "", fmt.Errorf("failed to write example config: %w", err)
	}
	return configPath, nil
}

const exampleConfig = `# dragsheet configuration
# Changes are picked up while dragsheet is running.

# Color scheme: "dark" (default), "light", or "system"
# theme = "system"

[sheet]
# Edge the sheet slides in from: "bottom-to-top" (default) or "top-to-bottom"
# direction = "bottom-to-top"
# Show the sheet on startup
# visible = false
# Rows a drag must travel before release dismisses. 0 = one eighth of the
# terminal height.
# threshold = 0
# Share of the terminal the open sheet covers
# height_ratio = 1.0
# Rows of the drag area
# handle_height = 2
# title = "Details"

[sheet.content]
# "scroll" (default) or "list" (one item per non-empty line)
# mode = "scroll"
# show_scrollbar = false
# mouse_wheel = true
# wheel_delta = 3
# filtering = true
# show_status_bar = false
# show_pagination = false

[motion]
# Entry spring (origami scale)
# entry_velocity = 3.0
# entry_tension = 2.0
# entry_friction = 8.0
# rest_threshold = 0.1
# snap_back_ms = 200
# dismiss_ms = 400
# "ease-in-out" (default), "linear" or "ease-out-cubic"
# easing = "ease-in-out"

[logs]
# Written to debug.log in this directory when DRAGSHEET_DEBUG=1
# debug_level = "info"
# debug_format = "json"
# debug_max_mb = 10
# debug_backups = 5
# debug_retention_days = 10
# debug_compress = false
# aggregate_interval_secs = 30
`
