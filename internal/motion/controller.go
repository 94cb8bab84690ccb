package motion

import (
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/asheshgoplani/dragsheet/internal/logging"
)

var motionLog = logging.ForComponent(logging.CompMotion)

// maxCatchUp bounds how much elapsed time a single Step integrates. A stalled
// event loop resumes the spring where it left off instead of replaying
// minutes of physics.
const maxCatchUp = time.Second

// Options configures a Controller.
type Options struct {
	Direction Direction
	// Extent is the viewport size along the dismiss axis.
	Extent float64
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Controller owns a sheet's offset along its dismiss axis.
//
// Exactly one motion writes the offset at a time. Every new motion bumps the
// generation; a programmatic motion only commits steps and fires its
// completion while its generation is current, so a superseded animation's
// completion never runs.
type Controller struct {
	dir    Direction
	extent float64
	clock  func() time.Time

	offset     float64
	source     Source
	generation uint64
	anim       *animation
}

type animation struct {
	generation uint64
	from       float64
	target     float64
	profile    Profile
	onComplete func()

	started time.Time

	// spring state
	spring   harmonica.Spring
	velocity float64
	last     time.Time
	pending  time.Duration
}

// New creates a controller resting at the closed position.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	c := &Controller{
		dir:    opts.Direction,
		extent: opts.Extent,
		clock:  opts.Clock,
	}
	c.offset = c.RestingClosed()
	return c
}

// RestingOpen is the fully open offset.
func (c *Controller) RestingOpen() float64 { return 0 }

// RestingClosed is the fully closed offset: +extent or -extent by direction.
func (c *Controller) RestingClosed() float64 { return c.dir.Sign() * c.extent }

// Direction returns the configured direction.
func (c *Controller) Direction() Direction { return c.dir }

// Extent returns the viewport size along the dismiss axis.
func (c *Controller) Extent() float64 { return c.extent }

// Offset returns the raw offset, which may lie outside the resting bounds
// while a gesture drags past them.
func (c *Controller) Offset() float64 { return c.offset }

// Generation returns the generation of the current motion.
func (c *Controller) Generation() uint64 { return c.generation }

// Source returns which kind of motion owns the offset.
func (c *Controller) Source() Source { return c.source }

// IsAnimating reports whether a programmatic motion is in flight.
func (c *Controller) IsAnimating() bool { return c.anim != nil }

// Target returns the target of the in-flight animation, or the current
// offset when nothing is animating.
func (c *Controller) Target() float64 {
	if c.anim != nil {
		return c.anim.target
	}
	return c.offset
}

// Projection is the offset clamped to the resting bounds. It is the only value
// rendering should use.
func (c *Controller) Projection() float64 {
	lo := math.Min(c.RestingOpen(), c.RestingClosed())
	hi := math.Max(c.RestingOpen(), c.RestingClosed())
	return math.Max(lo, math.Min(hi, c.offset))
}

// FollowGesture tracks the pointer 1:1. The first call of a gesture
// supersedes whatever motion was running.
func (c *Controller) FollowGesture(delta float64) {
	if c.source != SourceGesture {
		c.supersede(SourceGesture)
	}
	c.offset = delta
}

// AnimateTo starts a programmatic motion toward target and returns its
// generation. onComplete runs from Step once the target is reached, unless
// another motion supersedes this one first.
func (c *Controller) AnimateTo(target float64, p Profile, onComplete func()) uint64 {
	c.supersede(SourceProgrammatic)

	now := c.clock()
	a := &animation{
		generation: c.generation,
		from:       c.offset,
		target:     target,
		profile:    p,
		onComplete: onComplete,
		started:    now,
		last:       now,
	}
	if p.IsSpring() {
		a.spring = newSpring(p.spring)
		a.velocity = p.spring.Velocity * sign(target-c.offset)
	}
	c.anim = a

	motionLog.Debug("animation_started",
		slog.Uint64("generation", a.generation),
		slog.String("profile", p.String()),
		slog.Float64("from", a.from),
		slog.Float64("target", target))
	return a.generation
}

// Jump supersedes any motion and places the offset directly.
func (c *Controller) Jump(offset float64) {
	c.supersede(SourceNone)
	c.offset = offset
}

// Step advances the in-flight animation to now. It returns true while a
// programmatic motion is still running afterwards.
func (c *Controller) Step(now time.Time) bool {
	a := c.anim
	if a == nil {
		return false
	}

	var done bool
	if a.profile.IsSpring() {
		done = c.stepSpring(a, now)
	} else {
		done = c.stepTiming(a, now)
	}
	logging.Sample(logging.CompMotion, "offset", c.offset)
	if !done {
		return true
	}

	c.offset = a.target
	c.anim = nil
	c.source = SourceNone
	motionLog.Debug("animation_completed",
		slog.Uint64("generation", a.generation),
		slog.Float64("offset", c.offset),
		slog.Duration("elapsed", now.Sub(a.started)))

	if a.onComplete != nil && a.generation == c.generation {
		a.onComplete()
	}
	// The continuation may have started a new motion.
	return c.anim != nil
}

func (c *Controller) stepTiming(a *animation, now time.Time) bool {
	d := a.profile.timing.Duration
	elapsed := now.Sub(a.started)
	if d <= 0 || elapsed >= d {
		return true
	}
	progress := a.profile.timing.Easing.apply(float64(elapsed) / float64(d))
	c.offset = a.from + (a.target-a.from)*progress
	return false
}

func (c *Controller) stepSpring(a *animation, now time.Time) bool {
	a.pending += now.Sub(a.last)
	a.last = now
	if a.pending > maxCatchUp {
		a.pending = maxCatchUp
	}

	rest := a.profile.spring.RestThreshold
	pos := c.offset
	for {
		if math.Abs(pos-a.target) < rest && math.Abs(a.velocity) < rest {
			c.offset = pos
			return true
		}
		if a.pending < springStep {
			break
		}
		pos, a.velocity = a.spring.Update(pos, a.velocity, a.target)
		a.pending -= springStep
	}
	c.offset = pos
	return false
}

// SetExtent changes the viewport size. Offsets resting at, or animating
// toward, the closed bound follow it.
func (c *Controller) SetExtent(extent float64) {
	oldClosed := c.RestingClosed()
	c.extent = extent
	c.followClosedBound(oldClosed)
}

// SetDirection changes the dismiss direction. The offset and any motion in
// flight are mirrored across the open bound, so the sheet keeps its distance
// from open and a closed sheet lands on the new closed bound.
func (c *Controller) SetDirection(d Direction) {
	if d == c.dir {
		return
	}
	c.dir = d
	c.offset = c.mirror(c.offset)
	if a := c.anim; a != nil {
		a.from, a.target, a.velocity = c.mirror(a.from), c.mirror(a.target), -a.velocity
	}
}

func (c *Controller) mirror(v float64) float64 {
	open := c.RestingOpen()
	return open - (v - open)
}

func (c *Controller) followClosedBound(oldClosed float64) {
	newClosed := c.RestingClosed()
	switch {
	case c.anim != nil && c.anim.target == oldClosed:
		c.anim.target = newClosed
	case c.anim == nil && c.source != SourceGesture && c.offset == oldClosed:
		c.offset = newClosed
	}
}

func (c *Controller) supersede(next Source) {
	if c.anim != nil {
		motionLog.Debug("animation_superseded",
			slog.Uint64("generation", c.anim.generation),
			slog.String("by", next.String()))
	}
	c.generation++
	c.anim = nil
	c.source = next
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
