// Package tool implements the per-tool annotation state machines: point
// taps, box drawing with move/resize, and polygon capture in vertex or
// freehand sub-modes.
package tool

import (
	"fmt"
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/google/uuid"
)

// Kind identifies the active tool.
type Kind int

const (
	KindPoint Kind = iota
	KindBox
	KindPolygon
	KindFreehand
	// KindTransform routes single-pointer drags to pan instead of a tool.
	KindTransform
)

// ParseKind maps the host's tool mode string onto a Kind.
func ParseKind(mode string) (Kind, error) {
	switch mode {
	case "point":
		return KindPoint, nil
	case "rect":
		return KindBox, nil
	case "polygon":
		return KindPolygon, nil
	case "freedraw":
		return KindFreehand, nil
	case "transform":
		return KindTransform, nil
	}
	return 0, fmt.Errorf("unknown tool mode %q", mode)
}

// String returns the host-facing mode name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindBox:
		return "rect"
	case KindPolygon:
		return "polygon"
	case KindFreehand:
		return "freedraw"
	case KindTransform:
		return "transform"
	}
	return "unknown"
}

// EventType is the pointer event class delivered to a tool.
type EventType int

const (
	Down EventType = iota
	Move
	Up
	Cancel
)

// Event is one pointer event already converted to intrinsic space. Visual
// carries the raw on-screen position for thresholds that are specified in
// visual pixels (tap jitter, handle hit areas).
type Event struct {
	Type   EventType
	Pos    geometry.Point2D
	Visual geometry.Point2D
	Time   time.Time
}

// CommitKind tags a finalized payload.
type CommitKind int

const (
	CommitTap CommitKind = iota
	CommitBoxes
	CommitPolygon
)

// Commit is a finalized geometric payload in intrinsic coordinates.
type Commit struct {
	Kind     CommitKind
	Point    geometry.Point2D
	Boxes    []geometry.Rect
	Vertices []geometry.Point2D
}

// BoxShape is one drawn-but-uncommitted box.
type BoxShape struct {
	ID   uuid.UUID
	Rect geometry.Rect
}

// Config holds the tool tunables. All distances are intrinsic pixels
// unless noted.
type Config struct {
	TapWindow        time.Duration
	TapJitterRadius  float64 // visual px
	BoxMinCommitSize float64
	BoxMinResizeSize float64
	HandleHitRadius  float64 // visual px
	CloseRadius      float64
	FreehandSpacing  float64
	DoubleTapWindow  time.Duration
	CollinearTol     float64
}

// DefaultConfig returns the standard tool tunables.
func DefaultConfig() Config {
	return Config{
		TapWindow:        500 * time.Millisecond,
		TapJitterRadius:  6,
		BoxMinCommitSize: 10,
		BoxMinResizeSize: 20,
		HandleHitRadius:  10,
		CloseRadius:      20,
		FreehandSpacing:  4,
		DoubleTapWindow:  300 * time.Millisecond,
		CollinearTol:     1.5,
	}
}
