package motion

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Easing shapes the progress curve of a timing profile.
type Easing int

const (
	EaseInOut Easing = iota
	EaseLinear
	EaseOutCubic
)

func (e Easing) String() string {
	switch e {
	case EaseLinear:
		return "linear"
	case EaseOutCubic:
		return "ease-out-cubic"
	default:
		return "ease-in-out"
	}
}

// ParseEasing parses an easing name. The empty string is EaseInOut.
func ParseEasing(s string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ease-in-out", "ease_in_out":
		return EaseInOut, nil
	case "linear":
		return EaseLinear, nil
	case "ease-out-cubic", "ease_out_cubic":
		return EaseOutCubic, nil
	}
	return EaseInOut, fmt.Errorf("unknown easing %q", s)
}

// apply maps linear progress t in [0,1] to eased progress.
func (e Easing) apply(t float64) float64 {
	switch e {
	case EaseLinear:
		return t
	case EaseOutCubic:
		t--
		return t*t*t + 1
	default:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}
}

// SpringParams configures the entry profile.
//
// Tension and Friction use the origami scale common to mobile animation
// toolkits; Velocity is the initial speed toward the target in offset units
// per second. The spring is at rest once both the distance to the target and
// the speed drop below RestThreshold.
type SpringParams struct {
	Velocity      float64
	Tension       float64
	Friction      float64
	RestThreshold float64
}

// TimingParams configures the fixed-duration exit and settle profiles.
type TimingParams struct {
	Duration time.Duration
	Easing   Easing
}

var (
	DefaultEntrySpring = SpringParams{Velocity: 3, Tension: 2, Friction: 8, RestThreshold: 0.1}
	DefaultSnapBack    = TimingParams{Duration: 200 * time.Millisecond, Easing: EaseInOut}
	DefaultDismiss     = TimingParams{Duration: 400 * time.Millisecond, Easing: EaseInOut}
)

// springFPS is the fixed integration rate of spring motion. Frames arriving
// at other rates are integrated in whole steps of this size.
const springFPS = 60

const springStep = time.Second / springFPS

type profileKind int

const (
	kindTiming profileKind = iota
	kindSpring
)

// Profile is a programmatic motion curve: a spring (entry) or a fixed
// duration timing (exit and settle).
type Profile struct {
	kind   profileKind
	spring SpringParams
	timing TimingParams
}

// Spring returns an entry profile.
func Spring(p SpringParams) Profile {
	if p.RestThreshold <= 0 {
		p.RestThreshold = DefaultEntrySpring.RestThreshold
	}
	return Profile{kind: kindSpring, spring: p}
}

// Timing returns an exit/settle profile.
func Timing(p TimingParams) Profile {
	return Profile{kind: kindTiming, timing: p}
}

// IsSpring reports whether p is an entry spring.
func (p Profile) IsSpring() bool { return p.kind == kindSpring }

// SpringParams returns the spring parameters of an entry profile.
func (p Profile) SpringParams() SpringParams { return p.spring }

// TimingParams returns the timing parameters of an exit/settle profile.
func (p Profile) TimingParams() TimingParams { return p.timing }

func (p Profile) String() string {
	if p.kind == kindSpring {
		return fmt.Sprintf("spring(v=%g,t=%g,f=%g)", p.spring.Velocity, p.spring.Tension, p.spring.Friction)
	}
	return fmt.Sprintf("timing(%s,%s)", p.timing.Duration, p.timing.Easing)
}

// newSpring converts origami tension/friction to a harmonica spring with unit
// mass: stiffness = (tension-30)*3.62+194, damping = (friction-8)*3+25.
func newSpring(p SpringParams) harmonica.Spring {
	stiffness := (p.Tension-30)*3.62 + 194
	damping := (p.Friction-8)*3 + 25
	if stiffness < 1 {
		stiffness = 1
	}
	if damping < 0 {
		damping = 0
	}
	omega := math.Sqrt(stiffness)
	return harmonica.NewSpring(harmonica.FPS(springFPS), omega, damping/(2*omega))
}
