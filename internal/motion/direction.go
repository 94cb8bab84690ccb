package motion

import (
	"fmt"
	"strings"
)

// Direction is the edge a sheet enters from. It fixes the sign of the closed
// resting position.
type Direction int

const (
	// BottomToTop sheets rise from the bottom edge and are dismissed by
	// dragging down (positive offsets).
	BottomToTop Direction = iota
	// TopToBottom sheets drop from the top edge and are dismissed by
	// dragging up (negative offsets).
	TopToBottom
)

// String returns the config spelling of the direction.
func (d Direction) String() string {
	switch d {
	case TopToBottom:
		return "top-to-bottom"
	default:
		return "bottom-to-top"
	}
}

// Sign is +1 for BottomToTop and -1 for TopToBottom.
func (d Direction) Sign() float64 {
	if d == TopToBottom {
		return -1
	}
	return 1
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == TopToBottom {
		return BottomToTop
	}
	return TopToBottom
}

// ParseDirection parses "bottom-to-top" or "top-to-bottom". The empty string
// is the default, BottomToTop.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom-to-top", "bottom_to_top", "up":
		return BottomToTop, nil
	case "top-to-bottom", "top_to_bottom", "down":
		return TopToBottom, nil
	}
	return BottomToTop, fmt.Errorf("unknown direction %q", s)
}

// Source identifies which kind of motion currently owns the offset.
type Source int

const (
	SourceNone Source = iota
	SourceGesture
	SourceProgrammatic
)

func (s Source) String() string {
	switch s {
	case SourceGesture:
		return "gesture"
	case SourceProgrammatic:
		return "programmatic"
	default:
		return "none"
	}
}
