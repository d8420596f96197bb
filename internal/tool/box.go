package tool

import (
	"math"

	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/google/uuid"
)

type boxPhase int

const (
	boxIdle boxPhase = iota
	boxDrawing
	boxMoving
	boxResizing
)

// Corner handle indices, clockwise from top-left.
const (
	handleTopLeft = iota
	handleTopRight
	handleBottomRight
	handleBottomLeft
)

// boxTool manages a list of boxes with draw, move and handle-resize
// interactions. Boxes stay local until an explicit commit serializes the
// whole list.
type boxTool struct {
	cfg    Config
	canvas geometry.Rect

	boxes    []BoxShape
	selected int

	phase      boxPhase
	drawAnchor geometry.Point2D
	grabOffset geometry.Point2D
	// resize state: the corner diagonally opposite the grabbed handle
	// stays fixed; signX/signY record which side of it the handle lives on.
	resizeAnchor geometry.Point2D
	signX, signY float64
}

func newBoxTool(cfg Config, canvas geometry.Rect) *boxTool {
	return &boxTool{cfg: cfg, canvas: canvas, selected: -1}
}

func (t *boxTool) handle(ev Event, effectiveScale float64) *Commit {
	switch ev.Type {
	case Down:
		t.pointerDown(ev, effectiveScale)
	case Move:
		t.pointerMove(ev)
	case Up:
		t.pointerUp()
	case Cancel:
		t.pointerUp()
	}
	return nil
}

func (t *boxTool) pointerDown(ev Event, effectiveScale float64) {
	// Handle hit areas are specified in visual pixels so they stay
	// grabbable when zoomed out.
	hitRadius := t.cfg.HandleHitRadius
	if effectiveScale > 0 {
		hitRadius /= effectiveScale
	}

	if t.selected >= 0 {
		if h, ok := t.hitHandle(t.boxes[t.selected].Rect, ev.Pos, hitRadius); ok {
			t.beginResize(h)
			return
		}
	}

	// Topmost box first.
	for i := len(t.boxes) - 1; i >= 0; i-- {
		if t.boxes[i].Rect.Contains(ev.Pos) {
			t.selected = i
			t.phase = boxMoving
			t.grabOffset = ev.Pos.Sub(t.boxes[i].Rect.TopLeft())
			return
		}
	}

	t.boxes = append(t.boxes, BoxShape{
		ID:   uuid.New(),
		Rect: geometry.NewRect(ev.Pos.X, ev.Pos.Y, 0, 0),
	})
	t.selected = len(t.boxes) - 1
	t.phase = boxDrawing
	t.drawAnchor = ev.Pos
}

func (t *boxTool) pointerMove(ev Event) {
	if t.selected < 0 {
		return
	}
	switch t.phase {
	case boxDrawing:
		r := geometry.RectFromCorners(t.drawAnchor, ev.Pos)
		t.boxes[t.selected].Rect = r.ClampInto(t.canvas)
	case boxMoving:
		r := t.boxes[t.selected].Rect
		target := ev.Pos.Sub(t.grabOffset)
		r = geometry.NewRect(target.X, target.Y, r.Width, r.Height)
		t.boxes[t.selected].Rect = r.ClampInto(t.canvas)
	case boxResizing:
		t.boxes[t.selected].Rect = t.resizedRect(ev.Pos)
	}
}

func (t *boxTool) pointerUp() {
	if t.phase == boxDrawing && t.selected >= 0 {
		r := t.boxes[t.selected].Rect
		if r.Width < t.cfg.BoxMinCommitSize || r.Height < t.cfg.BoxMinCommitSize {
			// Too small to be intentional, drop it silently.
			t.boxes = append(t.boxes[:t.selected], t.boxes[t.selected+1:]...)
			t.selected = -1
		}
	}
	t.phase = boxIdle
}

func (t *boxTool) beginResize(handle int) {
	r := t.boxes[t.selected].Rect
	switch handle {
	case handleTopLeft:
		t.resizeAnchor = r.BottomRight()
		t.signX, t.signY = -1, -1
	case handleTopRight:
		t.resizeAnchor = geometry.NewPoint2D(r.X, r.Y+r.Height)
		t.signX, t.signY = 1, -1
	case handleBottomRight:
		t.resizeAnchor = r.TopLeft()
		t.signX, t.signY = 1, 1
	case handleBottomLeft:
		t.resizeAnchor = geometry.NewPoint2D(r.X+r.Width, r.Y)
		t.signX, t.signY = -1, 1
	}
	t.phase = boxResizing
}

// resizedRect keeps the anchor corner fixed and floors the moving corner
// at the minimum resize size on its original side of the anchor.
func (t *boxTool) resizedRect(pos geometry.Point2D) geometry.Rect {
	min := t.cfg.BoxMinResizeSize
	dx := pos.X - t.resizeAnchor.X
	dy := pos.Y - t.resizeAnchor.Y
	if t.signX > 0 {
		dx = math.Max(dx, min)
	} else {
		dx = math.Min(dx, -min)
	}
	if t.signY > 0 {
		dy = math.Max(dy, min)
	} else {
		dy = math.Min(dy, -min)
	}
	corner := geometry.NewPoint2D(t.resizeAnchor.X+dx, t.resizeAnchor.Y+dy)
	return geometry.RectFromCorners(t.resizeAnchor, corner).ClampInto(t.canvas)
}

func (t *boxTool) hitHandle(r geometry.Rect, pos geometry.Point2D, radius float64) (int, bool) {
	corners := []geometry.Point2D{
		r.TopLeft(),
		{X: r.X + r.Width, Y: r.Y},
		r.BottomRight(),
		{X: r.X, Y: r.Y + r.Height},
	}
	for i, c := range corners {
		if pos.Distance(c) <= radius {
			return i, true
		}
	}
	return 0, false
}

// cancelActive aborts the in-flight interaction. A box still being drawn
// is dropped; completed boxes survive.
func (t *boxTool) cancelActive() {
	if t.phase == boxDrawing && t.selected >= 0 {
		t.boxes = append(t.boxes[:t.selected], t.boxes[t.selected+1:]...)
		t.selected = -1
	}
	t.phase = boxIdle
}

// deleteSelected removes the selected box, if any.
func (t *boxTool) deleteSelected() bool {
	if t.selected < 0 {
		return false
	}
	t.boxes = append(t.boxes[:t.selected], t.boxes[t.selected+1:]...)
	t.selected = -1
	t.phase = boxIdle
	return true
}

// commitAll serializes every box and clears the list. Returns nil when
// there is nothing to commit.
func (t *boxTool) commitAll() *Commit {
	if len(t.boxes) == 0 {
		return nil
	}
	rects := make([]geometry.Rect, len(t.boxes))
	for i, b := range t.boxes {
		rects[i] = b.Rect
	}
	t.reset()
	return &Commit{Kind: CommitBoxes, Boxes: rects}
}

func (t *boxTool) reset() {
	t.boxes = nil
	t.selected = -1
	t.phase = boxIdle
}
