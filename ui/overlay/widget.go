// Package overlay provides the transparent annotation widget layered over
// the host's content. It feeds pointer input into the gesture engine and
// renders the active tool's in-progress geometry.
package overlay

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/engine"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/gesture"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

const (
	// mousePointerID is the synthetic contact ID for the single desktop
	// pointer; touch drivers report one contact the same way.
	mousePointerID = 1

	// Wheel zoom runs through the pinch recognizer as a symmetric
	// two-contact gesture so focal preservation and clamping apply.
	wheelPointerA = 1001
	wheelPointerB = 1002
	wheelArm      = 40.0
	wheelStep     = 1.25
)

// Widget is the transparent overlay surface. All pointer events route to
// the engine; the raster draws whatever the engine's tool session holds.
type Widget struct {
	widget.BaseWidget

	engine  *engine.Engine
	raster  *fynecanvas.Raster
	pressed bool
}

var _ fyne.Widget = (*Widget)(nil)
var _ fyne.Draggable = (*Widget)(nil)
var _ desktop.Mouseable = (*Widget)(nil)
var _ mobile.Touchable = (*Widget)(nil)

// New creates an overlay widget bound to an engine.
func New(e *engine.Engine) *Widget {
	w := &Widget{engine: e}
	w.raster = fynecanvas.NewRaster(w.draw)
	w.ExtendBaseWidget(w)
	return w
}

// CreateRenderer returns the raster-backed renderer.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

// Resize keeps the engine's viewport in sync with the widget layout.
func (w *Widget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	w.engine.SetViewport(geometry.NewRect(0, 0, float64(size.Width), float64(size.Height)))
}

// draw renders the feedback layer at device resolution. The feedback is
// rasterized at viewport resolution and scaled up, so thresholds stay in
// visual units regardless of the display's pixel density.
func (w *Widget) draw(pxW, pxH int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	fb := renderFeedback(w.engine.View(), w.engine.Snapshot())
	if fb == nil {
		return out
	}
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), fb, fb.Bounds(), xdraw.Over, nil)
	return out
}

func sample(id int, pos fyne.Position, kind gesture.PointerKind) gesture.PointerSample {
	return gesture.PointerSample{
		ID:   id,
		Pos:  geometry.NewPoint2D(float64(pos.X), float64(pos.Y)),
		Kind: kind,
	}
}

// MouseDown starts a pointer contact for the primary button.
func (w *Widget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	w.pressed = true
	w.engine.PointerDown(sample(mousePointerID, ev.Position, gesture.KindMouse))
	w.Refresh()
}

// MouseUp ends the primary pointer contact.
func (w *Widget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !w.pressed {
		return
	}
	w.pressed = false
	w.engine.PointerUp(sample(mousePointerID, ev.Position, gesture.KindMouse))
	w.Refresh()
}

// Dragged reports pointer movement while a button or contact is held.
func (w *Widget) Dragged(ev *fyne.DragEvent) {
	w.engine.PointerMove(sample(mousePointerID, ev.Position, gesture.KindMouse))
	w.Refresh()
}

// DragEnd is handled through MouseUp / TouchUp; nothing to do here.
func (w *Widget) DragEnd() {}

// TouchDown starts a touch contact.
func (w *Widget) TouchDown(ev *mobile.TouchEvent) {
	w.pressed = true
	w.engine.PointerDown(sample(mousePointerID, ev.Position, gesture.KindTouch))
	w.Refresh()
}

// TouchUp ends a touch contact.
func (w *Widget) TouchUp(ev *mobile.TouchEvent) {
	w.pressed = false
	w.engine.PointerUp(sample(mousePointerID, ev.Position, gesture.KindTouch))
	w.Refresh()
}

// TouchCancel drops a touch contact without committing anything.
func (w *Widget) TouchCancel(ev *mobile.TouchEvent) {
	w.pressed = false
	w.engine.PointerCancel(sample(mousePointerID, ev.Position, gesture.KindTouch))
	w.Refresh()
}

// Scrolled zooms around the cursor. The wheel step is replayed as a
// short symmetric pinch so the zoom shares the pinch path's focal
// preservation, clamping and cooldown.
func (w *Widget) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	factor := wheelStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / wheelStep
	}
	w.zoomStep(ev.Position, factor)
}

func (w *Widget) zoomStep(pos fyne.Position, factor float64) {
	cx, cy := float64(pos.X), float64(pos.Y)
	left := gesture.PointerSample{ID: wheelPointerA, Pos: geometry.NewPoint2D(cx-wheelArm, cy), Kind: gesture.KindMouse}
	right := gesture.PointerSample{ID: wheelPointerB, Pos: geometry.NewPoint2D(cx+wheelArm, cy), Kind: gesture.KindMouse}

	w.engine.PointerDown(left)
	w.engine.PointerDown(right)
	left.Pos = geometry.NewPoint2D(cx-wheelArm*factor, cy)
	right.Pos = geometry.NewPoint2D(cx+wheelArm*factor, cy)
	w.engine.PointerMove(left)
	w.engine.PointerMove(right)
	w.engine.PointerUp(right)
	w.engine.PointerUp(left)
	w.Refresh()
}

// TappedSecondary deletes the selected box, if any.
func (w *Widget) TappedSecondary(*fyne.PointEvent) {
	w.engine.DeleteSelected()
	w.Refresh()
}

// MouseIn implements desktop.Hoverable alongside Mouseable; unused.
func (w *Widget) MouseIn(*desktop.MouseEvent) {}

// MouseMoved is unused; movement while pressed arrives via Dragged.
func (w *Widget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut is unused.
func (w *Widget) MouseOut() {}
