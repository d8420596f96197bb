package tool

import (
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// polygonTool captures a polygon either vertex-by-vertex or as a freehand
// stroke. A closed polygon is locked until reopened, undone or committed.
type polygonTool struct {
	cfg      Config
	freehand bool

	vertices []geometry.Point2D
	closed   bool

	drawing     bool
	pressed     bool
	pressVisual geometry.Point2D
	pressTime   time.Time
	lastTapPos  geometry.Point2D
	lastTapTime time.Time
}

func newPolygonTool(cfg Config, freehand bool) *polygonTool {
	return &polygonTool{cfg: cfg, freehand: freehand}
}

func (t *polygonTool) handle(ev Event) *Commit {
	if t.freehand {
		t.handleFreehand(ev)
	} else {
		t.handleVertex(ev)
	}
	return nil
}

func (t *polygonTool) handleVertex(ev Event) {
	switch ev.Type {
	case Down:
		if t.closed {
			return
		}
		t.pressed = true
		t.pressVisual = ev.Visual
		t.pressTime = ev.Time
	case Up:
		if t.closed || !t.pressed {
			return
		}
		t.pressed = false

		// A long press or a drag is a pan-like gesture, not a vertex tap.
		if ev.Time.Sub(t.pressTime) > t.cfg.TapWindow ||
			ev.Visual.Distance(t.pressVisual) > t.cfg.TapJitterRadius {
			return
		}

		// Double-tap on the spot of the previous vertex closes without
		// appending a duplicate.
		if len(t.vertices) >= 3 &&
			ev.Time.Sub(t.lastTapTime) <= t.cfg.DoubleTapWindow &&
			ev.Pos.Distance(t.lastTapPos) <= t.cfg.CloseRadius {
			t.closed = true
			return
		}

		// Tapping back near the first vertex closes the ring.
		if len(t.vertices) >= 3 && ev.Pos.Distance(t.vertices[0]) <= t.cfg.CloseRadius {
			t.closed = true
			t.lastTapPos = ev.Pos
			t.lastTapTime = ev.Time
			return
		}

		t.vertices = append(t.vertices, ev.Pos)
		t.lastTapPos = ev.Pos
		t.lastTapTime = ev.Time
	case Cancel:
		t.pressed = false
	}
}

func (t *polygonTool) handleFreehand(ev Event) {
	switch ev.Type {
	case Down:
		if t.closed {
			return
		}
		t.drawing = true
		t.vertices = []geometry.Point2D{ev.Pos}
	case Move:
		if !t.drawing {
			return
		}
		if ev.Pos.Distance(t.vertices[len(t.vertices)-1]) >= t.cfg.FreehandSpacing {
			t.vertices = append(t.vertices, ev.Pos)
		}
	case Up:
		if !t.drawing {
			return
		}
		t.drawing = false
		pts := geometry.Resample(t.vertices, t.cfg.FreehandSpacing)
		if len(pts) < 3 || geometry.PathLength(pts) < 3*t.cfg.FreehandSpacing {
			t.vertices = nil
			return
		}
		pts = geometry.CollapseCollinear(pts, t.cfg.CollinearTol)
		if len(pts) < 3 {
			t.vertices = nil
			return
		}
		t.vertices = pts
		t.closed = true
	case Cancel:
		t.drawing = false
		t.vertices = nil
	}
}

// cancelActive aborts the in-flight capture. A freehand stroke mid-draw
// is dropped; placed vertices and a closed ring survive.
func (t *polygonTool) cancelActive() {
	t.pressed = false
	if t.freehand && t.drawing {
		t.drawing = false
		t.vertices = nil
	}
}

// undo pops the last vertex, or reopens the polygon if it is closed.
func (t *polygonTool) undo() {
	if t.closed {
		t.closed = false
		return
	}
	if len(t.vertices) > 0 {
		t.vertices = t.vertices[:len(t.vertices)-1]
	}
}

// commit finalizes a closed polygon with at least three vertices. A
// degenerate ring (all vertices collinear) has no interior to report and
// stays uncommitted.
func (t *polygonTool) commit() *Commit {
	if !t.closed || len(t.vertices) < 3 {
		return nil
	}
	if geometry.PolygonArea(t.vertices) < 1e-9 {
		return nil
	}
	verts := make([]geometry.Point2D, len(t.vertices))
	copy(verts, t.vertices)
	t.reset()
	return &Commit{Kind: CommitPolygon, Vertices: verts}
}

func (t *polygonTool) reset() {
	t.vertices = nil
	t.closed = false
	t.drawing = false
	t.pressed = false
}
