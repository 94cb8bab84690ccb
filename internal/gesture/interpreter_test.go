package gesture_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/asheshgoplani/dragsheet/internal/gesture"
	"github.com/asheshgoplani/dragsheet/internal/motion"
)

type animateCall struct {
	target   float64
	profile  motion.Profile
	complete func()
}

// recordingPositioner captures what the interpreter asks of the controller.
type recordingPositioner struct {
	closed  float64
	follows []float64
	anims   []animateCall
}

func (r *recordingPositioner) FollowGesture(d float64) { r.follows = append(r.follows, d) }

func (r *recordingPositioner) AnimateTo(target float64, p motion.Profile, done func()) uint64 {
	r.anims = append(r.anims, animateCall{target: target, profile: p, complete: done})
	return uint64(len(r.anims))
}

func (r *recordingPositioner) RestingOpen() float64   { return 0 }
func (r *recordingPositioner) RestingClosed() float64 { return r.closed }

func TestDecideThresholdMonotonicity(t *testing.T) {
	const T = 100.0
	for _, t1 := range []float64{-500, -1, 0, 50, 99.999} {
		require.Equal(t, gesture.Open, gesture.Decide(t1, motion.BottomToTop, T), "t=%v", t1)
	}
	for _, t2 := range []float64{100, 100.001, 150, 10_000} {
		require.Equal(t, gesture.Closed, gesture.Decide(t2, motion.BottomToTop, T), "t=%v", t2)
	}

	for _, t1 := range []float64{500, 1, 0, -50, -149.9} {
		require.Equal(t, gesture.Open, gesture.Decide(t1, motion.TopToBottom, -150), "t=%v", t1)
	}
	for _, t2 := range []float64{-150, -160, -10_000} {
		require.Equal(t, gesture.Closed, gesture.Decide(t2, motion.TopToBottom, -150), "t=%v", t2)
	}
}

func TestDecideIgnoresThresholdSign(t *testing.T) {
	require.Equal(t, gesture.Closed, gesture.Decide(120, motion.BottomToTop, -100))
	require.Equal(t, gesture.Closed, gesture.Decide(-160, motion.TopToBottom, 150))
}

func TestZeroTranslationSettlesOpen(t *testing.T) {
	pos := &recordingPositioner{closed: 800}
	in := gesture.New(gesture.Config{Direction: motion.BottomToTop, Threshold: 100}, pos)

	in.Begin()
	d, ok := in.End()
	require.True(t, ok)
	require.Equal(t, gesture.Open, d)
	require.Len(t, pos.anims, 1)
	require.Equal(t, 0.0, pos.anims[0].target)
	require.Nil(t, pos.anims[0].complete)
}

func TestLifecycle(t *testing.T) {
	pos := &recordingPositioner{closed: 800}
	snap := motion.Timing(motion.DefaultSnapBack)
	dismiss := motion.Timing(motion.DefaultDismiss)
	in := gesture.New(gesture.Config{Direction: motion.BottomToTop, Threshold: 100, SnapBack: snap, Dismiss: dismiss}, pos)
	require.Equal(t, gesture.Idle, in.Phase())

	in.Move(42)
	require.Empty(t, pos.follows, "moves outside a drag are ignored")

	in.Begin()
	require.Equal(t, gesture.Active, in.Phase())
	for _, s := range []float64{0, 20, 60, 90} {
		in.Move(s)
	}
	require.Equal(t, []float64{0, 20, 60, 90}, pos.follows, "samples pass through unchanged and in order")
	require.Equal(t, 90.0, in.Translation())

	d, ok := in.End()
	require.True(t, ok)
	require.Equal(t, gesture.Open, d)
	require.Equal(t, gesture.Idle, in.Phase())
	require.Zero(t, in.Translation(), "translation is discarded after the settle")
	require.Len(t, pos.anims, 1)
	require.Equal(t, snap, pos.anims[0].profile)

	_, ok = in.End()
	require.False(t, ok, "a second release without a drag is not a gesture")
	require.Len(t, pos.anims, 1)
}

func TestClosedUsesDismissProfileAndContinuation(t *testing.T) {
	pos := &recordingPositioner{closed: 800}
	dismiss := motion.Timing(motion.DefaultDismiss)
	dismissed := 0
	in := gesture.New(gesture.Config{
		Direction: motion.BottomToTop,
		Threshold: 100,
		SnapBack:  motion.Timing(motion.DefaultSnapBack),
		Dismiss:   dismiss,
		OnDismiss: func() { dismissed++ },
	}, pos)

	in.Begin()
	in.Move(130)
	d, _ := in.End()
	require.Equal(t, gesture.Closed, d)
	require.Len(t, pos.anims, 1)
	require.Equal(t, 800.0, pos.anims[0].target)
	require.Equal(t, dismiss, pos.anims[0].profile)
	require.Zero(t, dismissed, "the continuation waits for the animation")

	pos.anims[0].complete()
	require.Equal(t, 1, dismissed)
}

func TestBeginRestartsActiveDrag(t *testing.T) {
	pos := &recordingPositioner{closed: 800}
	in := gesture.New(gesture.Config{Direction: motion.BottomToTop, Threshold: 100}, pos)

	in.Begin()
	in.Move(150)
	in.Begin()
	require.Zero(t, in.Translation())
	in.Move(10)
	d, _ := in.End()
	require.Equal(t, gesture.Open, d)
}

func TestCancelSettles(t *testing.T) {
	pos := &recordingPositioner{closed: -800}
	in := gesture.New(gesture.Config{Direction: motion.TopToBottom, Threshold: 150}, pos)

	_, ok := in.Cancel()
	require.False(t, ok)

	in.Begin()
	in.Move(-200)
	d, ok := in.Cancel()
	require.True(t, ok)
	require.Equal(t, gesture.Closed, d)
	require.Equal(t, -800.0, pos.anims[0].target)
}

// scenario drives a real controller through a drag and settles it.
type scenario struct {
	dir       motion.Direction
	extent    float64
	threshold float64
	samples   []float64
}

type outcome struct {
	decision      gesture.Decision
	offset        float64
	handleVisible []bool
	closes        int
}

func run(t *testing.T, sc scenario) outcome {
	t.Helper()
	now := time.Unix(0, 0)
	ctrl := motion.New(motion.Options{Direction: sc.dir, Extent: sc.extent, Clock: func() time.Time { return now }})
	ctrl.Jump(ctrl.RestingOpen())

	var out outcome
	in := gesture.New(gesture.Config{
		Direction: sc.dir,
		Threshold: sc.threshold,
		SnapBack:  motion.Timing(motion.DefaultSnapBack),
		Dismiss:   motion.Timing(motion.DefaultDismiss),
		OnDismiss: func() {
			out.handleVisible = append(out.handleVisible, false)
			out.closes++
		},
	}, ctrl)

	in.Begin()
	for _, s := range sc.samples {
		in.Move(s)
		require.Equal(t, s, ctrl.Offset())
	}
	out.decision, _ = in.End()

	for i := 0; i < 100 && ctrl.Step(now); i++ {
		now = now.Add(16 * time.Millisecond)
	}
	require.False(t, ctrl.IsAnimating())
	out.offset = ctrl.Offset()
	return out
}

func TestScenarioA_BottomToTopCloses(t *testing.T) {
	out := run(t, scenario{motion.BottomToTop, 800, 100, []float64{0, 20, 60, 110}})
	require.Equal(t, gesture.Closed, out.decision)
	require.Equal(t, 800.0, out.offset)
	require.Equal(t, []bool{false}, out.handleVisible)
	require.Equal(t, 1, out.closes)
}

func TestScenarioB_BottomToTopSnapsBack(t *testing.T) {
	out := run(t, scenario{motion.BottomToTop, 800, 100, []float64{0, 20, 60, 90}})
	require.Equal(t, gesture.Open, out.decision)
	require.Equal(t, 0.0, out.offset)
	require.Empty(t, out.handleVisible)
	require.Zero(t, out.closes)
}

func TestScenarioC_TopToBottomCloses(t *testing.T) {
	out := run(t, scenario{motion.TopToBottom, 800, -150, []float64{0, -50, -160}})
	require.Equal(t, gesture.Closed, out.decision)
	require.Equal(t, -800.0, out.offset)
	require.Equal(t, 1, out.closes)
}
