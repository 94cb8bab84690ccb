package sheet

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/asheshgoplani/dragsheet/internal/motion"
)

// frameStyle draws the frame border only on the edge facing the screen
// centre, the edge the user grabs.
func (m *Model) frameStyle() lipgloss.Style {
	f := m.styles.Frame.BorderLeft(false).BorderRight(false)
	if m.cfg.Direction == motion.TopToBottom {
		return f.BorderTop(false).BorderBottom(true)
	}
	return f.BorderTop(true).BorderBottom(false)
}

// innerSize is the space inside the frame at full sheet height.
func (m *Model) innerSize() (width, height int) {
	f := m.frameStyle()
	width = max(m.width-f.GetHorizontalFrameSize(), 0)
	height = max(m.sheetHeight()-f.GetVerticalFrameSize(), 0)
	return width, height
}

func (m *Model) titleRows() int {
	if m.cfg.Title == "" {
		return 0
	}
	return 1
}

// layout resizes the content to the rows left after the handle and title.
func (m *Model) layout() {
	w, h := m.innerSize()
	m.content.SetSize(w, max(h-m.cfg.HandleHeight-m.titleRows(), 0))
}

func (m *Model) handleView(width int) string {
	glyph := m.styles.HandleGlyph
	if glyph == "" {
		glyph = "━"
	}
	n := min(m.styles.HandleWidth, width)
	bar := ""
	if n > 0 {
		bar = m.styles.Handle.Render(strings.Repeat(glyph, n))
	}

	rows := make([]string, m.cfg.HandleHeight)
	idx := (len(rows) - 1) / 2
	if m.cfg.Direction == motion.TopToBottom {
		idx = len(rows) - 1 - idx
	}
	rows[idx] = lipgloss.PlaceHorizontal(width, lipgloss.Center, bar)
	return strings.Join(rows, "\n")
}

func (m *Model) titleView(width int) string {
	if m.cfg.Title == "" {
		return ""
	}
	avail := width - m.styles.Title.GetHorizontalFrameSize()
	title := m.cfg.Title
	if avail <= 0 {
		title = ""
	} else if runewidth.StringWidth(title) > avail {
		title = runewidth.Truncate(title, avail, "…")
	}
	return m.styles.Title.Render(title)
}

// render draws the sheet at full height.
func (m *Model) render() string {
	w, h := m.innerSize()
	parts := []string{m.handleView(w)}
	if m.cfg.Title != "" {
		parts = append(parts, m.titleView(w))
	}
	parts = append(parts, m.content.View())
	if m.cfg.Direction == motion.TopToBottom {
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
	}

	body := clipLines(lipgloss.JoinVertical(lipgloss.Left, parts...), h)
	f := m.frameStyle()
	return f.
		Width(w + f.GetHorizontalPadding()).
		Height(h + f.GetVerticalPadding()).
		MaxWidth(m.width).
		MaxHeight(m.sheetHeight()).
		Render(body)
}

// View renders the sheet on a blank screen. It is empty while unmounted.
func (m *Model) View() string {
	if !m.presented || m.height <= 0 {
		return ""
	}
	return m.Overlay("")
}

// Overlay draws the sheet over background, replacing whole rows. Rows the
// sheet has slid off stay visible.
func (m *Model) Overlay(background string) string {
	if !m.presented || m.height <= 0 {
		return background
	}
	rows := make([]string, m.height)
	copy(rows, strings.Split(background, "\n"))

	top := m.top()
	for i, line := range strings.Split(m.render(), "\n") {
		y := top + i
		if y < 0 || y >= m.height {
			continue
		}
		rows[y] = line
	}
	return strings.Join(rows, "\n")
}

// clipLines keeps at most n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
