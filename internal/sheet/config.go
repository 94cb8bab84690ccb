package sheet

import (
	"time"

	"github.com/asheshgoplani/dragsheet/internal/gesture"
	"github.com/asheshgoplani/dragsheet/internal/motion"
)

// FrameInterval is the delay between animation frames.
const FrameInterval = 16 * time.Millisecond

// DefaultThresholdRatio derives the release threshold from the viewport when
// none is configured: 100 units on an 800 unit viewport.
const DefaultThresholdRatio = 1.0 / 8

// Sheet layout defaults.
const (
	DefaultHeightRatio  = 1.0
	DefaultHandleHeight = 2
	minHandleHeight     = 1
)

// Config configures a sheet. It is resolved once and applied with New or
// Reconfigure.
type Config struct {
	Direction motion.Direction
	// Visible is the initial visibility intent.
	Visible bool
	// Threshold is the release distance in rows. Zero derives it from the
	// viewport height with DefaultThresholdRatio.
	Threshold float64
	// HeightRatio is the fraction of the viewport the sheet covers when open.
	HeightRatio float64
	// HandleHeight is the number of rows of the drag area.
	HandleHeight int
	Title        string

	Entry    motion.SpringParams
	SnapBack motion.TimingParams
	Dismiss  motion.TimingParams

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// DefaultConfig returns a bottom-to-top, initially hidden, full-height sheet.
func DefaultConfig() Config {
	return Config{
		Direction:    motion.BottomToTop,
		HeightRatio:  DefaultHeightRatio,
		HandleHeight: DefaultHandleHeight,
		Entry:        motion.DefaultEntrySpring,
		SnapBack:     motion.DefaultSnapBack,
		Dismiss:      motion.DefaultDismiss,
	}
}

func (c Config) withDefaults() Config {
	if c.HeightRatio <= 0 || c.HeightRatio > 1 {
		c.HeightRatio = DefaultHeightRatio
	}
	if c.HandleHeight < minHandleHeight {
		c.HandleHeight = DefaultHandleHeight
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// threshold returns the configured threshold or one derived from extent.
// Before the first resize there is no extent and the package default applies.
func (c Config) threshold(extent float64) float64 {
	switch {
	case c.Threshold != 0:
		return c.Threshold
	case extent <= 0:
		return gesture.DefaultThreshold
	}
	return max(extent*DefaultThresholdRatio, 1)
}
