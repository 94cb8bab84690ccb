// Package sheet is a drag-to-dismiss panel for Bubble Tea programs. It binds a
// motion.Controller and a gesture.Interpreter to terminal mouse input, frame
// ticks and a visibility intent owned by the host.
package sheet

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/asheshgoplani/dragsheet/internal/gesture"
	"github.com/asheshgoplani/dragsheet/internal/logging"
	"github.com/asheshgoplani/dragsheet/internal/motion"
)

var sheetLog = logging.ForComponent(logging.CompSheet)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FrameMsg advances a sheet's animation by one frame. Frames carry the
// generation of the motion that scheduled them; once that motion is
// superseded its frames are dropped and the tick chain ends.
type FrameMsg struct {
	ID         int
	Generation uint64
	Time       time.Time
}

// Model is a sheet. Use pointers; the zero value is not usable.
type Model struct {
	id      int
	cfg     Config
	owner   Owner
	content Content
	styles  Styles

	ctrl *motion.Controller
	gest *gesture.Interpreter

	// visible is the visibility intent; presented is true from mount until
	// an exit animation completes.
	visible      bool
	presented    bool
	pendingEntry bool

	width  int
	height int

	dragStartY int
	overshoot  rate.Sometimes
	dismissals int
}

// New creates a hidden sheet. When cfg.Visible is set, Init starts the entry.
func New(cfg Config, owner Owner, content Content) *Model {
	cfg = cfg.withDefaults()
	if owner == nil {
		owner = OwnerFuncs{}
	}
	m := &Model{
		id:        nextID(),
		cfg:       cfg,
		owner:     owner,
		content:   content,
		styles:    DefaultStyles(),
		overshoot: rate.Sometimes{Interval: 250 * time.Millisecond},
	}
	m.ctrl = motion.New(motion.Options{Direction: cfg.Direction, Clock: cfg.Clock})
	m.gest = gesture.New(m.gestureConfig(), m.ctrl)
	return m
}

func (m *Model) gestureConfig() gesture.Config {
	return gesture.Config{
		Direction: m.cfg.Direction,
		Threshold: m.cfg.threshold(m.ctrl.Extent()),
		SnapBack:  motion.Timing(m.cfg.SnapBack),
		Dismiss:   motion.Timing(m.cfg.Dismiss),
		OnDismiss: m.dismissedByDrag,
	}
}

// Init starts the entry animation when the sheet is configured visible.
func (m *Model) Init() tea.Cmd {
	if m.cfg.Visible {
		return m.SetVisible(true)
	}
	return nil
}

// ID identifies this sheet's frame messages.
func (m *Model) ID() int { return m.id }

// Visible returns the visibility intent.
func (m *Model) Visible() bool { return m.visible }

// Presented reports whether the sheet is mounted: visible, or still running
// its exit animation.
func (m *Model) Presented() bool { return m.presented }

// Projection is the clamped offset the sheet renders at.
func (m *Model) Projection() float64 { return m.ctrl.Projection() }

// Offset is the raw offset.
func (m *Model) Offset() float64 { return m.ctrl.Offset() }

// Animating reports whether a programmatic motion is in flight.
func (m *Model) Animating() bool { return m.ctrl.IsAnimating() }

// Dragging reports whether a drag is in progress.
func (m *Model) Dragging() bool { return m.gest.Phase() == gesture.Active }

// Generation is the generation of the current motion.
func (m *Model) Generation() uint64 { return m.ctrl.Generation() }

// Threshold is the release threshold in effect.
func (m *Model) Threshold() float64 { return m.gest.Config().Threshold }

// Config returns the active configuration.
func (m *Model) Config() Config { return m.cfg }

// Dismissals counts completed dismissals.
func (m *Model) Dismissals() int { return m.dismissals }

// Content returns the sheet's content.
func (m *Model) Content() Content { return m.content }

// CapturesKeys reports whether the content wants all keys, so the host
// should not interpret them.
func (m *Model) CapturesKeys() bool { return m.presented && m.content.Capturing() }

// SetStyles replaces the visual props.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
	m.layout()
}

// SetVisible applies a new visibility intent. Repeating the current intent is
// a no-op; a change supersedes any motion in flight.
func (m *Model) SetVisible(v bool) tea.Cmd {
	if v == m.visible {
		return nil
	}
	m.visible = v
	sheetLog.Info("visibility_changed", slog.Bool("visible", v), slog.Bool("presented", m.presented))
	if v {
		return m.show()
	}
	return m.hide()
}

// Toggle flips the visibility intent.
func (m *Model) Toggle() tea.Cmd { return m.SetVisible(!m.visible) }

func (m *Model) show() tea.Cmd {
	if !m.presented {
		m.presented = true
		m.content.GotoTop()
		m.ctrl.Jump(m.ctrl.RestingClosed())
	}
	if m.height <= 0 {
		// Mounted before the first WindowSizeMsg; enter once there is a
		// viewport to enter.
		m.pendingEntry = true
		return nil
	}
	m.ctrl.AnimateTo(m.ctrl.RestingOpen(), motion.Spring(m.cfg.Entry), nil)
	return m.frame()
}

func (m *Model) hide() tea.Cmd {
	m.pendingEntry = false
	if m.gest.Phase() == gesture.Active {
		// The request outranks the drag; dropping it keeps a later release
		// from settling the sheet open again.
		m.gest.Reset()
	}
	if !m.presented {
		return nil
	}
	m.ctrl.AnimateTo(m.ctrl.RestingClosed(), motion.Timing(m.cfg.Dismiss), m.dismissedByRequest)
	return m.frame()
}

// dismissedByDrag is the continuation of a Closed settle.
func (m *Model) dismissedByDrag() {
	m.visible = false
	m.owner.HandleVisible(false)
	m.owner.OnClose()
	m.unmount("drag")
}

// dismissedByRequest is the continuation of a requested hide. The owner
// already holds the new intent, so only OnClose is reported.
func (m *Model) dismissedByRequest() {
	m.owner.OnClose()
	m.unmount("request")
}

func (m *Model) unmount(cause string) {
	m.presented = false
	m.dismissals++
	sheetLog.Info("sheet_unmounted", slog.String("cause", cause), slog.Int("dismissals", m.dismissals))
}

func (m *Model) frame() tea.Cmd {
	id, gen := m.id, m.ctrl.Generation()
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{ID: id, Generation: gen, Time: t}
	})
}

// Reconfigure applies a new configuration without remounting. A direction
// change mirrors the sheet's position, so a closed sheet moves to the new
// closed bound and a moving one keeps its distance from open. An active drag
// is settled first under the direction it was made in; the returned command
// drives that settle.
func (m *Model) Reconfigure(cfg Config) tea.Cmd {
	cfg = cfg.withDefaults()
	cfg.Clock = m.cfg.Clock
	var cmd tea.Cmd
	if cfg.Direction != m.cfg.Direction && m.gest.Phase() == gesture.Active {
		m.gest.Cancel()
		cmd = m.frame()
	}
	m.cfg = cfg
	m.ctrl.SetDirection(cfg.Direction)
	m.gest.SetConfig(m.gestureConfig())
	m.layout()
	sheetLog.Info("sheet_reconfigured",
		slog.String("direction", cfg.Direction.String()),
		slog.Float64("threshold", m.Threshold()))
	return cmd
}

// Update handles frames, mouse input and resizes. Keys are forwarded to the
// content while the sheet is presented; hosts interpret their own keys first.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		return m, m.handleFrame(msg)

	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if m.presented {
			return m, m.content.Update(msg)
		}
	}
	return m, nil
}

func (m *Model) handleFrame(msg FrameMsg) tea.Cmd {
	if msg.ID != m.id || msg.Generation != m.ctrl.Generation() {
		return nil
	}
	if m.ctrl.Step(m.cfg.Clock()) {
		return m.frame()
	}
	return nil
}

func (m *Model) resize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	gen := m.ctrl.Generation()
	if m.gest.Phase() == gesture.Active {
		m.gest.Cancel()
	}
	m.ctrl.SetExtent(float64(height))
	m.gest.SetConfig(m.gestureConfig())
	m.layout()

	if m.pendingEntry && height > 0 {
		m.pendingEntry = false
		m.ctrl.Jump(m.ctrl.RestingClosed())
		m.ctrl.AnimateTo(m.ctrl.RestingOpen(), motion.Spring(m.cfg.Entry), nil)
	}
	if m.ctrl.IsAnimating() && m.ctrl.Generation() != gen {
		// A retargeted motion keeps its generation and its tick chain.
		return m.frame()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.visible && m.onHandle(msg.Y) {
				m.dragStartY = msg.Y
				m.gest.Begin()
			}
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if m.presented && m.onSheet(msg.Y) {
				return m.content.Update(msg)
			}
		}

	case tea.MouseActionMotion:
		if m.gest.Phase() == gesture.Active {
			m.gest.Move(float64(msg.Y - m.dragStartY))
			if m.ctrl.Offset() != m.ctrl.Projection() {
				m.overshoot.Do(func() {
					sheetLog.Debug("drag_overshoot",
						slog.Float64("offset", m.ctrl.Offset()),
						slog.Float64("projection", m.ctrl.Projection()))
				})
			}
		}

	case tea.MouseActionRelease:
		// Some terminals report releases without a button.
		if m.gest.Phase() == gesture.Active {
			m.gest.Move(float64(msg.Y - m.dragStartY))
			m.gest.End()
			return m.frame()
		}
	}
	return nil
}

// sheetHeight is the number of rows the open sheet covers.
func (m *Model) sheetHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := int(math.Round(m.cfg.HeightRatio * float64(m.height)))
	return min(max(h, m.cfg.HandleHeight+m.frameStyle().GetVerticalFrameSize()+1), m.height)
}

// top is the screen row of the sheet's first line at the current projection.
func (m *Model) top() int {
	shift := int(math.Round(m.ctrl.Projection()))
	if m.cfg.Direction == motion.TopToBottom {
		return shift
	}
	return m.height - m.sheetHeight() + shift
}

// onHandle reports whether screen row y is inside the drag area: the frame's
// edge facing the screen centre plus the handle rows.
func (m *Model) onHandle(y int) bool {
	if !m.presented || m.height <= 0 {
		return false
	}
	f := m.frameStyle()
	top, h := m.top(), m.sheetHeight()
	if m.cfg.Direction == motion.TopToBottom {
		grab := f.GetBorderBottomSize() + f.GetPaddingBottom() + m.cfg.HandleHeight
		return y >= top+h-grab && y < top+h
	}
	grab := f.GetBorderTopSize() + f.GetPaddingTop() + m.cfg.HandleHeight
	return y >= top && y < top+grab
}

func (m *Model) onSheet(y int) bool {
	top := m.top()
	return y >= top && y < top+m.sheetHeight()
}
