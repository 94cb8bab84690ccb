package sheet

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Content is what the sheet renders below its drag area. The sheet owns the
// content and is the only caller of these methods.
type Content interface {
	SetSize(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
	// GotoTop scrolls back to the resting position; called on every mount.
	GotoTop()
	// Capturing reports whether the content wants every key (e.g. while a
	// filter prompt is open).
	Capturing() bool
}

// ContentMode selects how content is rendered.
type ContentMode int

const (
	ContentScroll ContentMode = iota
	ContentList
)

func (m ContentMode) String() string {
	if m == ContentList {
		return "list"
	}
	return "scroll"
}

// ParseContentMode parses "scroll" or "list". The empty string is scroll.
func ParseContentMode(s string) (ContentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scroll":
		return ContentScroll, nil
	case "list":
		return ContentList, nil
	}
	return ContentScroll, fmt.Errorf("unknown content mode %q", s)
}

// ScrollOptions are the options a scroll container honours.
type ScrollOptions struct {
	ShowScrollbar bool
	MouseWheel    bool
	WheelDelta    int
}

// ListOptions are the options a list container honours.
type ListOptions struct {
	Filtering      bool
	ShowStatusBar  bool
	ShowPagination bool
}

// ContentOptions holds the resolved options of exactly one mode.
type ContentOptions struct {
	Mode   ContentMode
	Scroll ScrollOptions
	List   ListOptions
}

// ContentFlags is the flat option set exposed by configuration, shared by
// every mode.
type ContentFlags struct {
	Mode           string
	ShowScrollbar  bool
	MouseWheel     bool
	WheelDelta     int
	Filtering      bool
	ShowStatusBar  bool
	ShowPagination bool
}

// ResolveContent keeps the flags that apply to the selected mode and drops
// the rest. An unknown mode resolves to scroll and returns the parse error.
func ResolveContent(f ContentFlags) (ContentOptions, error) {
	mode, err := ParseContentMode(f.Mode)
	opts := ContentOptions{Mode: mode}
	switch mode {
	case ContentList:
		opts.List = ListOptions{
			Filtering:      f.Filtering,
			ShowStatusBar:  f.ShowStatusBar,
			ShowPagination: f.ShowPagination,
		}
	default:
		delta := f.WheelDelta
		if delta <= 0 {
			delta = 3
		}
		opts.Scroll = ScrollOptions{
			ShowScrollbar: f.ShowScrollbar,
			MouseWheel:    f.MouseWheel,
			WheelDelta:    delta,
		}
	}
	return opts, err
}

// NewContent builds the content for opts from text. List mode makes one item
// per non-empty line.
func NewContent(opts ContentOptions, text string) Content {
	if opts.Mode == ContentList {
		var items []string
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				items = append(items, line)
			}
		}
		return NewListContent(items, opts.List)
	}
	return NewScrollContent(text, opts.Scroll)
}

// ScrollContent renders text in a scrollable viewport.
type ScrollContent struct {
	vp   viewport.Model
	opts ScrollOptions
}

func NewScrollContent(text string, opts ScrollOptions) *ScrollContent {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = opts.MouseWheel
	if opts.WheelDelta > 0 {
		vp.MouseWheelDelta = opts.WheelDelta
	}
	vp.SetContent(text)
	return &ScrollContent{vp: vp, opts: opts}
}

func (c *ScrollContent) SetSize(width, height int) {
	if c.opts.ShowScrollbar && width > 1 {
		width--
	}
	c.vp.Width = max(width, 0)
	c.vp.Height = max(height, 0)
}

func (c *ScrollContent) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.vp, cmd = c.vp.Update(msg)
	return cmd
}

func (c *ScrollContent) View() string {
	view := c.vp.View()
	if !c.opts.ShowScrollbar || c.vp.Height <= 0 {
		return view
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, view, c.scrollbar())
}

func (c *ScrollContent) scrollbar() string {
	h := c.vp.Height
	thumb := -1
	if c.vp.TotalLineCount() > h {
		thumb = int(math.Round(c.vp.ScrollPercent() * float64(h-1)))
	}
	rows := make([]string, h)
	for i := range rows {
		if i == thumb {
			rows[i] = "┃"
		} else {
			rows[i] = "│"
		}
	}
	return strings.Join(rows, "\n")
}

func (c *ScrollContent) GotoTop() { c.vp.GotoTop() }

func (c *ScrollContent) Capturing() bool { return false }

// ListContent renders lines as a selectable, optionally filterable list.
type ListContent struct {
	l list.Model
}

type listItem string

func (i listItem) Title() string       { return string(i) }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return string(i) }

func NewListContent(lines []string, opts ListOptions) *ListContent {
	items := make([]list.Item, len(lines))
	for i, line := range lines {
		items[i] = listItem(line)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(opts.ShowStatusBar)
	l.SetShowPagination(opts.ShowPagination)
	l.SetFilteringEnabled(opts.Filtering)
	l.Filter = fuzzyFilter
	// Quitting belongs to the host; esc only clears a filter here.
	l.DisableQuitKeybindings()
	return &ListContent{l: l}
}

// fuzzyFilter ranks list items with sahilm/fuzzy, best match first.
func fuzzyFilter(term string, targets []string) []list.Rank {
	matches := fuzzy.Find(term, targets)
	ranks := make([]list.Rank, len(matches))
	for i, m := range matches {
		ranks[i] = list.Rank{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return ranks
}

func (c *ListContent) SetSize(width, height int) {
	c.l.SetSize(max(width, 0), max(height, 0))
}

func (c *ListContent) Update(msg tea.Msg) tea.Cmd {
	if mouse, ok := msg.(tea.MouseMsg); ok {
		switch mouse.Button {
		case tea.MouseButtonWheelUp:
			c.l.CursorUp()
		case tea.MouseButtonWheelDown:
			c.l.CursorDown()
		}
		return nil
	}
	var cmd tea.Cmd
	c.l, cmd = c.l.Update(msg)
	return cmd
}

func (c *ListContent) View() string { return c.l.View() }

func (c *ListContent) GotoTop() {
	c.l.ResetFilter()
	c.l.Select(0)
}

func (c *ListContent) Capturing() bool { return c.l.FilterState() == list.Filtering }

// Selected returns the highlighted line, or "" for an empty list.
func (c *ListContent) Selected() string {
	if item, ok := c.l.SelectedItem().(listItem); ok {
		return string(item)
	}
	return ""
}
