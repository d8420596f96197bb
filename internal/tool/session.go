package tool

import (
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// Session owns the state of the currently active tool. It is created on
// tool activation and must be discarded wholesale on tool switch; there is
// no partial hand-off between tools.
type Session struct {
	kind  Kind
	cfg   Config
	point *pointTool
	box   *boxTool
	poly  *polygonTool
}

// NewSession creates the state machine for a tool kind. canvas is the
// intrinsic content rectangle used for clamping.
func NewSession(kind Kind, cfg Config, canvas geometry.Rect) *Session {
	s := &Session{kind: kind, cfg: cfg}
	switch kind {
	case KindPoint:
		s.point = newPointTool(cfg)
	case KindBox:
		s.box = newBoxTool(cfg, canvas)
	case KindPolygon:
		s.poly = newPolygonTool(cfg, false)
	case KindFreehand:
		s.poly = newPolygonTool(cfg, true)
	}
	return s
}

// Kind returns the tool this session drives.
func (s *Session) Kind() Kind { return s.kind }

// HandleEvent routes a pointer event to the active tool's state machine.
// effectiveScale converts visual-pixel thresholds into intrinsic space.
// A non-nil Commit means the tool finalized a shape on this event.
func (s *Session) HandleEvent(ev Event, effectiveScale float64) *Commit {
	switch s.kind {
	case KindPoint:
		return s.point.handle(ev)
	case KindBox:
		return s.box.handle(ev, effectiveScale)
	case KindPolygon, KindFreehand:
		return s.poly.handle(ev)
	}
	return nil
}

// Commit finalizes the session's accumulated shape, if it is in a
// committable state: every box for the box tool, the closed ring for the
// polygon tools. The point tool commits on tap, never here.
func (s *Session) Commit() *Commit {
	switch s.kind {
	case KindBox:
		return s.box.commitAll()
	case KindPolygon, KindFreehand:
		return s.poly.commit()
	}
	return nil
}

// DeleteSelected removes the selected box. No-op for other tools.
func (s *Session) DeleteSelected() bool {
	if s.kind == KindBox {
		return s.box.deleteSelected()
	}
	return false
}

// UndoVertex pops the last polygon vertex, or reopens a closed polygon.
func (s *Session) UndoVertex() {
	if s.kind == KindPolygon || s.kind == KindFreehand {
		s.poly.undo()
	}
}

// CancelActive aborts the in-flight pointer interaction without touching
// completed shapes: a box mid-draw or a freehand stroke is dropped, drawn
// boxes and placed vertices stay. Called when a pinch takes over the
// gesture; a tool switch replaces the whole session instead.
func (s *Session) CancelActive() {
	switch s.kind {
	case KindPoint:
		s.point.reset()
	case KindBox:
		s.box.cancelActive()
	case KindPolygon, KindFreehand:
		s.poly.cancelActive()
	}
}

// Snapshot is a read-only copy of the in-progress geometry for the
// feedback renderer.
type Snapshot struct {
	Kind     Kind
	Boxes    []BoxShape
	Selected int
	Vertices []geometry.Point2D
	Closed   bool
}

// Snapshot copies the current in-progress shapes.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Kind: s.kind, Selected: -1}
	switch s.kind {
	case KindBox:
		snap.Boxes = make([]BoxShape, len(s.box.boxes))
		copy(snap.Boxes, s.box.boxes)
		snap.Selected = s.box.selected
	case KindPolygon, KindFreehand:
		snap.Vertices = make([]geometry.Point2D, len(s.poly.vertices))
		copy(snap.Vertices, s.poly.vertices)
		snap.Closed = s.poly.closed
	}
	return snap
}
