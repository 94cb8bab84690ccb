package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", BottomToTop, false},
		{"bottom-to-top", BottomToTop, false},
		{"Top-To-Bottom", TopToBottom, false},
		{" top_to_bottom ", TopToBottom, false},
		{"sideways", BottomToTop, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
		} else {
			require.NoError(t, err, tt.in)
		}
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	for _, d := range []Direction{BottomToTop, TopToBottom} {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		require.Equal(t, d, parsed)
		require.Equal(t, d, d.Flip().Flip())
	}
	require.Equal(t, 1.0, BottomToTop.Sign())
	require.Equal(t, -1.0, TopToBottom.Sign())
}

func TestParseEasing(t *testing.T) {
	e, err := ParseEasing("linear")
	require.NoError(t, err)
	require.Equal(t, EaseLinear, e)

	e, err = ParseEasing("")
	require.NoError(t, err)
	require.Equal(t, EaseInOut, e)

	_, err = ParseEasing("bounce")
	require.Error(t, err)
}

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []Easing{EaseLinear, EaseInOut, EaseOutCubic} {
		require.InDelta(t, 0, e.apply(0), 1e-9, e.String())
		require.InDelta(t, 1, e.apply(1), 1e-9, e.String())
	}
}

func TestSpringDefaultsRestThreshold(t *testing.T) {
	p := Spring(SpringParams{Velocity: 1, Tension: 40, Friction: 7})
	require.True(t, p.IsSpring())
	require.Equal(t, DefaultEntrySpring.RestThreshold, p.SpringParams().RestThreshold)

	tp := Timing(DefaultDismiss)
	require.False(t, tp.IsSpring())
	require.Equal(t, 400*time.Millisecond, tp.TimingParams().Duration)
}

func TestNewSpringApproachesTarget(t *testing.T) {
	s := newSpring(DefaultEntrySpring)
	pos, vel := 10.0, 0.0
	for i := 0; i < springFPS*5; i++ {
		pos, vel = s.Update(pos, vel, 0)
	}
	require.InDelta(t, 0, pos, 0.01)
	require.InDelta(t, 0, vel, 0.1)
}
