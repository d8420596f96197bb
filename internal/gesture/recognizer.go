// Package gesture tracks live pointer contacts, recognizes pinch
// zoom/pan, and arbitrates whether tool state machines may see events.
package gesture

import (
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// PointerKind distinguishes the input device of a contact. The recognizer
// only counts contacts; kind is carried for downstream consumers.
type PointerKind int

const (
	KindTouch PointerKind = iota
	KindMouse
	KindPen
)

// PointerSample is one live contact. ID uniquely identifies a physical
// contact until release.
type PointerSample struct {
	ID   int
	Pos  geometry.Point2D
	Kind PointerKind
}

// Phase is the recognizer state.
type Phase int

const (
	// Idle passes single-pointer events through to the active tool.
	Idle Phase = iota
	// Pinching owns pan/zoom mutation; tool events are suppressed.
	Pinching
)

// Config holds the recognizer tunables.
type Config struct {
	MinZoom  float64
	MaxZoom  float64
	Cooldown time.Duration
}

// ZoomBounds returns the zoom clamp range for a pan mode. Normalized pan
// models the view as a crop and cannot zoom below the full image.
func ZoomBounds(mode view.PanMode) (min, max float64) {
	if mode == view.PanNormalized {
		return 1.0, 4.0
	}
	return 0.5, 8.0
}

// DefaultConfig returns the recognizer tunables for a pan mode.
func DefaultConfig(mode view.PanMode) Config {
	min, max := ZoomBounds(mode)
	return Config{MinZoom: min, MaxZoom: max, Cooldown: 400 * time.Millisecond}
}

// pinchState snapshots the view at the moment a second contact landed.
type pinchState struct {
	initialDistance float64
	initialMidpoint geometry.Point2D
	initialZoom     float64
	initialPanX     float64
	initialPanY     float64
	lastMidpoint    geometry.Point2D
}

// Recognizer is the gesture state machine. It is not safe for concurrent
// use; the engine serializes all calls.
type Recognizer struct {
	cfg      Config
	now      func() time.Time
	phase    Phase
	pointers []PointerSample
	pinch    *pinchState
	coolEnd  time.Time
}

// New creates a recognizer. now is the clock used for the post-pinch
// cooldown; pass time.Now outside tests.
func New(cfg Config, now func() time.Time) *Recognizer {
	if now == nil {
		now = time.Now
	}
	return &Recognizer{cfg: cfg, now: now}
}

// Phase returns the current recognizer phase.
func (r *Recognizer) Phase() Phase { return r.phase }

// ActivePointers returns the number of live contacts.
func (r *Recognizer) ActivePointers() int { return len(r.pointers) }

// ToolsVetoed reports whether tool state machines must ignore pointer
// events right now: during a pinch, while more than one contact is down,
// or within the post-pinch cooldown.
func (r *Recognizer) ToolsVetoed() bool {
	if r.phase == Pinching || len(r.pointers) > 1 {
		return true
	}
	return r.now().Before(r.coolEnd)
}

// PointerDown registers a contact. It reports whether this event started a
// pinch, in which case the caller must discard any in-progress shape.
func (r *Recognizer) PointerDown(s PointerSample, vt view.ViewTransform) (pinchStarted bool) {
	r.upsert(s)
	if r.phase == Idle && len(r.pointers) >= 2 {
		r.phase = Pinching
		a, b := r.pointers[0].Pos, r.pointers[1].Pos
		mid := a.Midpoint(b)
		r.pinch = &pinchState{
			initialDistance: a.Distance(b),
			initialMidpoint: mid,
			initialZoom:     vt.ZoomLevel,
			initialPanX:     vt.PanX,
			initialPanY:     vt.PanY,
			lastMidpoint:    mid,
		}
		return true
	}
	return false
}

// PointerMove updates a contact position. While pinching it returns the
// view transform with the new zoom and pan applied; otherwise it returns
// the input unchanged and false.
func (r *Recognizer) PointerMove(s PointerSample, vt view.ViewTransform) (view.ViewTransform, bool) {
	r.upsert(s)
	if r.phase != Pinching || r.pinch == nil || len(r.pointers) < 2 {
		return vt, false
	}

	a, b := r.pointers[0].Pos, r.pointers[1].Pos
	dist := a.Distance(b)
	mid := a.Midpoint(b)

	if r.pinch.initialDistance <= 0 {
		// Both contacts landed on the same spot. Stay pinching but
		// produce no delta until they separate.
		if dist <= 0 {
			return vt, false
		}
		r.pinch.initialDistance = dist
		r.pinch.initialMidpoint = mid
		r.pinch.lastMidpoint = mid
		return vt, false
	}

	scaleFactor := dist / r.pinch.initialDistance
	newZoom := geometry.Clamp(r.pinch.initialZoom*scaleFactor, r.cfg.MinZoom, r.cfg.MaxZoom)

	out := vt
	out.ZoomLevel = newZoom
	switch vt.Mode {
	case view.PanPixels:
		out.PanX = vt.PanX + (mid.X - r.pinch.lastMidpoint.X)
		out.PanY = vt.PanY + (mid.Y - r.pinch.lastMidpoint.Y)
	default:
		out.PanX, out.PanY = r.focalPan(mid, newZoom, vt.Viewport)
	}
	r.pinch.lastMidpoint = mid
	return out, true
}

// focalPan solves for the normalized pan that keeps the content point that
// was under the initial midpoint under the current midpoint at the new
// zoom.
func (r *Recognizer) focalPan(mid geometry.Point2D, newZoom float64, viewport geometry.Rect) (panX, panY float64) {
	solve := func(initialPan, startFrac, nowFrac float64) float64 {
		z0 := r.pinch.initialZoom
		if z0 <= 0 {
			return initialPan
		}
		focal := initialPan*(1-1/z0) + startFrac/z0
		denom := 1 - 1/newZoom
		if denom <= 1e-9 {
			// Whole image visible; pan has no effect.
			return initialPan
		}
		return geometry.Clamp((focal-nowFrac/newZoom)/denom, 0, 1)
	}

	startFracX := (r.pinch.initialMidpoint.X - viewport.X) / viewport.Width
	startFracY := (r.pinch.initialMidpoint.Y - viewport.Y) / viewport.Height
	nowFracX := (mid.X - viewport.X) / viewport.Width
	nowFracY := (mid.Y - viewport.Y) / viewport.Height

	return solve(r.pinch.initialPanX, startFracX, nowFracX),
		solve(r.pinch.initialPanY, startFracY, nowFracY)
}

// PointerUp removes a contact. Dropping below two contacts ends the pinch
// and starts the cooldown that vetoes tool gestures.
func (r *Recognizer) PointerUp(id int) {
	r.remove(id)
	if r.phase == Pinching && len(r.pointers) < 2 {
		r.phase = Idle
		r.pinch = nil
		r.coolEnd = r.now().Add(r.cfg.Cooldown)
	}
}

// PointerCancel is treated like PointerUp for cleanup purposes.
func (r *Recognizer) PointerCancel(id int) {
	r.PointerUp(id)
}

// Reset drops all contacts and gesture state.
func (r *Recognizer) Reset() {
	r.pointers = r.pointers[:0]
	r.pinch = nil
	r.phase = Idle
}

func (r *Recognizer) upsert(s PointerSample) {
	for i := range r.pointers {
		if r.pointers[i].ID == s.ID {
			r.pointers[i] = s
			return
		}
	}
	r.pointers = append(r.pointers, s)
}

func (r *Recognizer) remove(id int) {
	for i := range r.pointers {
		if r.pointers[i].ID == id {
			r.pointers = append(r.pointers[:i], r.pointers[i+1:]...)
			return
		}
	}
}
