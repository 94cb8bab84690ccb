package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorsDefined(t *testing.T) {
	colors := []string{
		string(ColorBg),
		string(ColorSurface),
		string(ColorBorder),
		string(ColorText),
		string(ColorAccent),
	}
	for _, c := range colors {
		assert.NotEmpty(t, c)
	}
}

func TestInitThemeSwitchesPalette(t *testing.T) {
	t.Cleanup(func() { InitTheme("dark") })

	InitTheme("light")
	assert.Equal(t, ThemeLight, GetCurrentTheme())
	assert.Equal(t, lightColors.Accent, ColorAccent)

	InitTheme("anything-else")
	assert.Equal(t, ThemeDark, GetCurrentTheme())
	assert.Equal(t, darkColors.Accent, ColorAccent)
}

func TestSheetStylesFollowTheme(t *testing.T) {
	t.Cleanup(func() { InitTheme("dark") })

	InitTheme("light")
	s := SheetStyles()
	assert.Equal(t, ColorBorder, s.Frame.GetBorderTopForeground())
	assert.Equal(t, "━", s.HandleGlyph)
	assert.True(t, s.Title.GetBold())
}
