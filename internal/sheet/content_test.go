package sheet

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContentKeepsSelectedModeOnly(t *testing.T) {
	flags := ContentFlags{
		Mode:           "list",
		ShowScrollbar:  true,
		MouseWheel:     true,
		WheelDelta:     5,
		Filtering:      true,
		ShowStatusBar:  true,
		ShowPagination: true,
	}

	opts, err := ResolveContent(flags)
	require.NoError(t, err)
	assert.Equal(t, ContentList, opts.Mode)
	assert.Equal(t, ListOptions{Filtering: true, ShowStatusBar: true, ShowPagination: true}, opts.List)
	assert.Zero(t, opts.Scroll)

	flags.Mode = "scroll"
	opts, err = ResolveContent(flags)
	require.NoError(t, err)
	assert.Equal(t, ScrollOptions{ShowScrollbar: true, MouseWheel: true, WheelDelta: 5}, opts.Scroll)
	assert.Zero(t, opts.List)
}

func TestResolveContentDefaults(t *testing.T) {
	opts, err := ResolveContent(ContentFlags{})
	require.NoError(t, err)
	assert.Equal(t, ContentScroll, opts.Mode)
	assert.Equal(t, 3, opts.Scroll.WheelDelta)

	opts, err = ResolveContent(ContentFlags{Mode: "grid"})
	require.Error(t, err)
	assert.Equal(t, ContentScroll, opts.Mode)
}

func TestParseContentMode(t *testing.T) {
	for in, want := range map[string]ContentMode{"": ContentScroll, "Scroll": ContentScroll, " list ": ContentList} {
		got, err := ParseContentMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNewContentListSkipsBlankLines(t *testing.T) {
	c := NewContent(ContentOptions{Mode: ContentList}, "one\n\n  \ntwo\nthree\n")
	lc, ok := c.(*ListContent)
	require.True(t, ok)
	assert.Len(t, lc.l.Items(), 3)
	assert.Equal(t, "one", lc.Selected())

	lc.SetSize(20, 10)
	lc.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, "two", lc.Selected())

	lc.GotoTop()
	assert.Equal(t, "one", lc.Selected())
	assert.False(t, lc.Capturing())
}

func TestListContentNeverQuits(t *testing.T) {
	c := NewContent(ContentOptions{Mode: ContentList, List: ListOptions{Filtering: true}}, "alpha\nbeta")

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		if cmd := c.Update(k); cmd != nil {
			assert.NotEqual(t, tea.QuitMsg{}, cmd(), k.String())
		}
	}
}

func TestListContentEscClearsFilter(t *testing.T) {
	c := NewContent(ContentOptions{Mode: ContentList, List: ListOptions{Filtering: true}}, "alpha\nbeta\ngamma").(*ListContent)
	c.SetSize(20, 10)

	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, c.Capturing())
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, c.Capturing())
	require.Equal(t, list.FilterApplied, c.l.FilterState())

	cmd := c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.Equal(t, list.Unfiltered, c.l.FilterState())
}

func TestFuzzyFilterMatchesInOrder(t *testing.T) {
	targets := []string{"release notes", "readme", "changelog", "roadmap"}
	ranks := fuzzyFilter("rdme", targets)
	require.Len(t, ranks, 1)
	assert.Equal(t, 1, ranks[0].Index)
	assert.Equal(t, []int{0, 3, 4, 5}, ranks[0].MatchedIndexes)

	ranks = fuzzyFilter("rdm", targets)
	require.Len(t, ranks, 2, "readme and roadmap")
	assert.Empty(t, fuzzyFilter("zzz", targets))
}

func TestScrollContentScrollbar(t *testing.T) {
	text := strings.Repeat("row\n", 30)
	c := NewScrollContent(text, ScrollOptions{ShowScrollbar: true, MouseWheel: true, WheelDelta: 3})
	c.SetSize(10, 5)
	assert.Equal(t, 9, c.vp.Width)

	lines := strings.Split(c.View(), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "┃")
	assert.Contains(t, lines[4], "│")

	c.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 3, c.vp.YOffset)
	c.GotoTop()
	assert.Zero(t, c.vp.YOffset)
}

func TestScrollContentWithoutScrollbar(t *testing.T) {
	c := NewScrollContent("a\nb", ScrollOptions{})
	c.SetSize(10, 2)
	assert.Equal(t, 10, c.vp.Width)
	assert.NotContains(t, c.View(), "│")
}
