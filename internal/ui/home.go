// Package ui is the demo host for the sheet: a background page, a footer
// with clickable buttons, and the sheet overlaid on top.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/asheshgoplani/dragsheet/internal/config"
	"github.com/asheshgoplani/dragsheet/internal/motion"
	"github.com/asheshgoplani/dragsheet/internal/sheet"
)

// Version is set by the CLI for the header.
var Version = "dev"

const footerHeight = 1

// ConfigReloadedMsg carries a config reloaded from disk.
type ConfigReloadedMsg struct {
	Update config.Update
}

// Option customizes a Home.
type Option func(*Home)

// WithConfigUpdates applies configs published on ch while running.
func WithConfigUpdates(ch <-chan config.Update) Option {
	return func(h *Home) { h.configUpdates = ch }
}

// WithThemeWatcher follows OS theme changes when the theme is "system".
func WithThemeWatcher(tw *ThemeWatcher) Option {
	return func(h *Home) { h.themeWatcher = tw }
}

// WithClock overrides the sheet's animation clock.
func WithClock(clock func() time.Time) Option {
	return func(h *Home) { h.clock = clock }
}

// WithOverrides reapplies session settings, such as command-line flags, to
// every config reloaded from disk.
func WithOverrides(apply func(config.UserConfig) config.UserConfig) Option {
	return func(h *Home) { h.overrides = apply }
}

// WithConfigError shows an error from loading the config at startup.
func WithConfigError(err error) Option {
	return func(h *Home) { h.startupErr = err }
}

// Home is the root model. It owns the sheet's visibility intent.
type Home struct {
	cfg   *config.UserConfig
	sheet *sheet.Model
	help  help.Model
	zones *zone.Manager
	zoneP string

	width  int
	height int

	sheetOpen bool
	closes    int
	showHelp  bool
	warning   string

	// direction is set once the user flips the sheet and then outlives
	// config reloads.
	direction *motion.Direction
	overrides func(config.UserConfig) config.UserConfig

	clock         func() time.Time
	startupErr    error
	configUpdates <-chan config.Update
	themeWatcher  *ThemeWatcher
}

// NewHome builds the host around content. Config warnings are shown in the
// footer and never fatal.
func NewHome(cfg *config.UserConfig, content sheet.Content, opts ...Option) *Home {
	h := &Home{
		cfg:   cfg,
		help:  help.New(),
		zones: zone.New(),
	}
	h.zoneP = h.zones.NewPrefix()
	for _, opt := range opts {
		opt(h)
	}

	InitTheme(cfg.ResolveTheme())

	sc, _, err := cfg.SheetConfig()
	h.noteConfigError(errors.Join(h.startupErr, err))
	sc.Clock = h.clock
	h.sheetOpen = sc.Visible
	h.sheet = sheet.New(sc, h, content)
	h.sheet.SetStyles(SheetStyles())
	return h
}

// HandleVisible is called by the sheet when a drag dismisses it.
func (h *Home) HandleVisible(visible bool) {
	h.sheetOpen = visible
}

// OnClose is called by the sheet after every completed dismissal.
func (h *Home) OnClose() {
	h.closes++
	uiLog.Info("sheet_closed", slog.Int("closes", h.closes))
}

// Sheet exposes the sheet for inspection.
func (h *Home) Sheet() *sheet.Model { return h.sheet }

// SheetOpen is the host's view of the visibility intent.
func (h *Home) SheetOpen() bool { return h.sheetOpen }

// Closes counts completed dismissals.
func (h *Home) Closes() int { return h.closes }

// Close releases the zone manager.
func (h *Home) Close() {
	h.zones.Close()
}

func (h *Home) Init() tea.Cmd {
	return tea.Batch(
		h.sheet.Init(),
		listenForConfig(h.configUpdates),
		listenForThemeChange(h.themeWatcher),
	)
}

// listenForConfig waits for the next reloaded config.
func listenForConfig(ch <-chan config.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Update: u}
	}
}

func (h *Home) setSheetVisible(v bool) tea.Cmd {
	h.sheetOpen = v
	return h.sheet.SetVisible(v)
}

func (h *Home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height
		h.help.Width = msg.Width
		_, cmd := h.sheet.Update(tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-footerHeight, 0)})
		return h, cmd

	case sheet.FrameMsg:
		_, cmd := h.sheet.Update(msg)
		return h, cmd

	case tea.KeyMsg:
		return h, h.handleKey(msg)

	case tea.MouseMsg:
		return h, h.handleMouse(msg)

	case ConfigReloadedMsg:
		cmd := h.applyConfig(msg.Update)
		return h, tea.Batch(cmd, listenForConfig(h.configUpdates))

	case ThemeChangedMsg:
		if h.cfg.GetTheme() == "system" {
			h.applyTheme(msg.Theme)
		}
		return h, listenForThemeChange(h.themeWatcher)
	}
	return h, nil
}

func (h *Home) handleKey(msg tea.KeyMsg) tea.Cmd {
	if h.sheet.CapturesKeys() {
		_, cmd := h.sheet.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return tea.Quit
	case key.Matches(msg, Keys.Toggle):
		return h.setSheetVisible(!h.sheetOpen)
	case key.Matches(msg, Keys.Open):
		return h.setSheetVisible(true)
	case key.Matches(msg, Keys.Close):
		return h.setSheetVisible(false)
	case key.Matches(msg, Keys.Direction):
		cfg := h.sheet.Config()
		cfg.Direction = cfg.Direction.Flip()
		h.direction = &cfg.Direction
		return h.sheet.Reconfigure(cfg)
	case key.Matches(msg, Keys.Help):
		h.showHelp = !h.showHelp
		h.help.ShowAll = h.showHelp
		return nil
	}

	_, cmd := h.sheet.Update(msg)
	return cmd
}

func (h *Home) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		switch {
		case h.zones.Get(h.zoneP + "open").InBounds(msg):
			return h.setSheetVisible(true)
		case h.zones.Get(h.zoneP + "close").InBounds(msg):
			return h.setSheetVisible(false)
		}
	}
	_, cmd := h.sheet.Update(msg)
	return cmd
}

// applyConfig reconfigures the running sheet. The visibility intent and the
// content stay as they are; a broken file keeps the previous settings.
// Session overrides win over the file.
func (h *Home) applyConfig(u config.Update) tea.Cmd {
	if u.Config == nil {
		return nil
	}
	if u.Err != nil {
		h.noteConfigError(u.Err)
		return nil
	}
	cfg := *u.Config
	if h.overrides != nil {
		cfg = h.overrides(cfg)
	}
	h.cfg = &cfg

	sc, _, err := h.cfg.SheetConfig()
	h.warning = ""
	h.noteConfigError(err)
	if h.direction != nil {
		sc.Direction = *h.direction
	}
	cmd := h.sheet.Reconfigure(sc)

	if theme := h.cfg.GetTheme(); theme != "system" {
		h.applyTheme(Theme(theme))
	} else {
		h.applyTheme(Theme(h.cfg.ResolveTheme()))
	}
	return cmd
}

func (h *Home) applyTheme(theme Theme) {
	InitTheme(string(theme))
	h.sheet.SetStyles(SheetStyles())
	uiLog.Info("theme_applied", slog.String("theme", string(theme)))
}

func (h *Home) noteConfigError(err error) {
	if err == nil {
		return
	}
	h.warning = strings.ReplaceAll(err.Error(), "\n", "; ")
	uiLog.Warn("config_warning", slog.String("error", err.Error()))
}

func (h *Home) View() string {
	if h.width == 0 {
		return "Loading..."
	}
	bodyHeight := max(h.height-footerHeight, 0)
	page := lipgloss.NewStyle().
		Width(h.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(h.pageView())

	return h.zones.Scan(lipgloss.JoinVertical(lipgloss.Left,
		h.sheet.Overlay(page),
		h.footerView(),
	))
}

func (h *Home) pageView() string {
	cfg := h.sheet.Config()
	lines := []string{
		TitleStyle.Render("dragsheet") + " " + DimStyle.Render(Version),
		"",
		TextStyle.Render("Drag the sheet's handle past the threshold to dismiss it."),
		TextStyle.Render("Release earlier and it snaps back open."),
		"",
		DimStyle.Render(fmt.Sprintf("direction  %s", cfg.Direction)),
		DimStyle.Render(fmt.Sprintf("threshold  %.0f rows", h.sheet.Threshold())),
		DimStyle.Render(fmt.Sprintf("theme      %s", GetCurrentTheme())),
	}
	if h.warning != "" {
		lines = append(lines, "", WarningStyle.Render("config: "+h.warning))
	}
	if h.showHelp {
		lines = append(lines, "", h.help.View(Keys))
	}
	return strings.Join(lines, "\n")
}

func (h *Home) footerView() string {
	open := h.zones.Mark(h.zoneP+"open", ButtonStyle.Render("open"))
	closeBtn := h.zones.Mark(h.zoneP+"close", ButtonStyle.Render("close"))
	counter := CounterStyle.Render(fmt.Sprintf("dismissed %d", h.closes))
	left := lipgloss.JoinHorizontal(lipgloss.Top, open, " ", closeBtn, "  ", counter, "  ")

	hints := ""
	if !h.showHelp {
		h.help.ShowAll = false
		hints = h.help.View(Keys)
	}
	return FooterStyle.Render(left + hints)
}
