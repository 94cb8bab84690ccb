package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/asheshgoplani/dragsheet/internal/sheet"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// currentTheme holds the active theme (set at init)
var currentTheme Theme = ThemeDark

type palette struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Green, Yellow, Red         lipgloss.Color
}

// Dark Theme - Tokyo Night
var darkColors = palette{
	Bg:      lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Green:   lipgloss.Color("#9ece6a"),
	Yellow:  lipgloss.Color("#e0af68"),
	Red:     lipgloss.Color("#f7768e"),
}

// Light Theme - Tokyo Night Light variant
var lightColors = palette{
	Bg:      lipgloss.Color("#d5d6db"),
	Surface: lipgloss.Color("#e9e9ec"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Green:   lipgloss.Color("#485e30"),
	Yellow:  lipgloss.Color("#8f5e15"),
	Red:     lipgloss.Color("#8c4351"),
}

// Active color variables (set by InitTheme)
var (
	ColorBg      lipgloss.Color
	ColorSurface lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorGreen   lipgloss.Color
	ColorYellow  lipgloss.Color
	ColorRed     lipgloss.Color
)

// themeMu protects global color/style variables during live theme switches.
var themeMu sync.RWMutex

// InitTheme sets the active color palette based on theme name
// Must be called before any UI rendering
func InitTheme(theme string) {
	themeMu.Lock()
	defer themeMu.Unlock()

	p := darkColors
	currentTheme = ThemeDark
	if theme == string(ThemeLight) {
		p = lightColors
		currentTheme = ThemeLight
	}
	ColorBg = p.Bg
	ColorSurface = p.Surface
	ColorBorder = p.Border
	ColorText = p.Text
	ColorTextDim = p.TextDim
	ColorAccent = p.Accent
	ColorGreen = p.Green
	ColorYellow = p.Yellow
	ColorRed = p.Red

	// Reinitialize styles with new colors
	initStyles()
}

// GetCurrentTheme returns the active theme
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

func init() {
	// Default to dark theme at package init
	InitTheme("dark")
}

// Base Styles
var (
	TitleStyle   lipgloss.Style
	TextStyle    lipgloss.Style
	DimStyle     lipgloss.Style
	WarningStyle lipgloss.Style
	FooterStyle  lipgloss.Style
	ButtonStyle  lipgloss.Style
	CounterStyle lipgloss.Style

	SheetFrameStyle  lipgloss.Style
	SheetHandleStyle lipgloss.Style
	SheetTitleStyle  lipgloss.Style
)

func initStyles() {
	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	TextStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	WarningStyle = lipgloss.NewStyle().
		Foreground(ColorYellow)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	ButtonStyle = lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorAccent).
		Padding(0, 1)

	CounterStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	SheetFrameStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Background(ColorSurface)

	SheetHandleStyle = lipgloss.NewStyle().
		Foreground(ColorBorder)

	SheetTitleStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Padding(0, 1)
}

// SheetStyles returns the sheet's visual props in the active theme.
func SheetStyles() sheet.Styles {
	themeMu.RLock()
	defer themeMu.RUnlock()

	s := sheet.DefaultStyles()
	s.Frame = SheetFrameStyle
	s.Handle = SheetHandleStyle
	s.Title = SheetTitleStyle
	return s
}

// MenuKey renders a key hint like "space toggle".
func MenuKey(key, description string) string {
	return TitleStyle.Render(key) + " " + DimStyle.Render(description)
}
