// Package gesture turns the lifecycle of a single-axis drag into an open or
// closed settle decision and drives the sheet's position accordingly.
package gesture

import (
	"log/slog"
	"math"

	"github.com/asheshgoplani/dragsheet/internal/logging"
	"github.com/asheshgoplani/dragsheet/internal/motion"
)

var gestureLog = logging.ForComponent(logging.CompGesture)

// DefaultThreshold is the release distance, in offset units, past which a drag
// dismisses the sheet.
const DefaultThreshold = 100

// Phase is the lifecycle state of the current drag.
type Phase int

const (
	Idle Phase = iota
	Active
	Ended
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Ended:
		return "ended"
	default:
		return "idle"
	}
}

// Decision is where a released drag comes to rest.
type Decision int

const (
	Open Decision = iota
	Closed
)

func (d Decision) String() string {
	if d == Closed {
		return "closed"
	}
	return "open"
}

// Decide classifies a final translation. Only the threshold's magnitude is
// used: bottom-to-top sheets close at t >= |threshold|, top-to-bottom sheets
// at t <= -|threshold|. Release velocity plays no part.
func Decide(t float64, dir motion.Direction, threshold float64) Decision {
	limit := math.Abs(threshold)
	if dir == motion.TopToBottom {
		if t <= -limit {
			return Closed
		}
		return Open
	}
	if t >= limit {
		return Closed
	}
	return Open
}

// Positioner is the part of the position controller the interpreter drives.
type Positioner interface {
	FollowGesture(delta float64)
	AnimateTo(target float64, p motion.Profile, onComplete func()) uint64
	RestingOpen() float64
	RestingClosed() float64
}

// Config configures an Interpreter.
type Config struct {
	Direction motion.Direction
	// Threshold is the release distance; its sign is ignored.
	Threshold float64
	// SnapBack animates an Open settle.
	SnapBack motion.Profile
	// Dismiss animates a Closed settle.
	Dismiss motion.Profile
	// OnDismiss runs once a Closed settle animation finishes.
	OnDismiss func()
}

// Interpreter is the drag lifecycle state machine.
type Interpreter struct {
	cfg         Config
	pos         Positioner
	phase       Phase
	translation float64
	samples     int
}

// New creates an idle interpreter.
func New(cfg Config, pos Positioner) *Interpreter {
	return &Interpreter{cfg: cfg, pos: pos}
}

// Phase returns the lifecycle state.
func (in *Interpreter) Phase() Phase { return in.phase }

// Translation returns the accumulated translation of the active drag.
func (in *Interpreter) Translation() float64 { return in.translation }

// Config returns the active configuration.
func (in *Interpreter) Config() Config { return in.cfg }

// SetConfig replaces the configuration. An active drag keeps going and is
// decided with the new threshold.
func (in *Interpreter) SetConfig(cfg Config) { in.cfg = cfg }

// Begin starts a drag. Beginning while already active restarts the drag, which
// happens when the terminal swallowed a release.
func (in *Interpreter) Begin() {
	if in.phase == Active {
		gestureLog.Debug("gesture_restarted", slog.Float64("translation", in.translation))
	}
	in.phase = Active
	in.translation = 0
	in.samples = 0
	gestureLog.Debug("gesture_began")
}

// Move relays the accumulated translation of the active drag, unfiltered.
// Samples outside an active drag are ignored.
func (in *Interpreter) Move(translation float64) {
	if in.phase != Active {
		return
	}
	in.translation = translation
	in.samples++
	in.pos.FollowGesture(translation)
	logging.Sample(logging.CompGesture, "translation", translation)
}

// End releases the drag, dispatches the settle animation and returns the
// decision. ok is false when no drag was active.
func (in *Interpreter) End() (d Decision, ok bool) {
	if in.phase != Active {
		return Open, false
	}
	in.phase = Ended

	d = Decide(in.translation, in.cfg.Direction, in.cfg.Threshold)
	gestureLog.Info("settle_decided",
		slog.String("decision", d.String()),
		slog.Float64("translation", in.translation),
		slog.Float64("threshold", in.cfg.Threshold),
		slog.Int("samples", in.samples))

	switch d {
	case Closed:
		in.pos.AnimateTo(in.pos.RestingClosed(), in.cfg.Dismiss, in.cfg.OnDismiss)
	default:
		in.pos.AnimateTo(in.pos.RestingOpen(), in.cfg.SnapBack, nil)
	}

	in.phase = Idle
	in.translation = 0
	in.samples = 0
	return d, true
}

// Cancel ends a drag interrupted by the host. Leaving the active state always
// settles, so Cancel decides exactly like End.
func (in *Interpreter) Cancel() (Decision, bool) {
	if in.phase == Active {
		gestureLog.Debug("gesture_cancelled", slog.Float64("translation", in.translation))
	}
	return in.End()
}

// Reset drops an active drag without settling. The caller is expected to
// start its own motion, which supersedes the one the drag left behind.
func (in *Interpreter) Reset() {
	if in.phase == Active {
		gestureLog.Debug("gesture_reset", slog.Float64("translation", in.translation))
	}
	in.phase = Idle
	in.translation = 0
	in.samples = 0
}
