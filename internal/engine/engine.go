// Package engine routes pointer events between the gesture recognizer,
// the active tool state machine and the view transform, and publishes
// committed shapes to the host.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/app"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/gesture"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/host"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/signal"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/tool"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// BoxSnapper optionally refines committed boxes against the underlying
// image before they are published.
type BoxSnapper interface {
	SnapBox(r geometry.Rect) geometry.Rect
}

// Options configures an Engine.
type Options struct {
	PanMode view.PanMode
	Gesture gesture.Config
	Tool    tool.Config
	Channel signal.Config
	// Snapper may be nil; when set, box commits pass through it.
	Snapper BoxSnapper
	// Clock for timing decisions; nil means time.Now.
	Clock func() time.Time
}

// DefaultOptions returns the standard engine configuration for a pan
// mode.
func DefaultOptions(mode view.PanMode) Options {
	return Options{
		PanMode: mode,
		Gesture: gesture.DefaultConfig(mode),
		Tool:    tool.DefaultConfig(),
		Channel: signal.DefaultConfig(),
	}
}

// Engine is the single entry point for pointer events. All methods are
// safe for concurrent use; one mutex serializes event handling, so
// exactly one consumer (pinch handling or the active tool) mutates state
// per event.
type Engine struct {
	mu sync.Mutex

	state      *app.State
	remote     host.Host
	channel    *signal.Channel
	nonces     *signal.NonceSource
	recognizer *gesture.Recognizer
	session    *tool.Session
	snapper    BoxSnapper

	opts Options
	now  func() time.Time
	vt   view.ViewTransform

	// transform-mode drag state
	dragging bool
	dragLast geometry.Point2D
}

// New creates an engine bound to a host. The engine stays inert until
// Configure provides a valid host configuration and SetViewport a laid
// out frame.
func New(state *app.State, remote host.Host, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	e := &Engine{
		state:   state,
		remote:  remote,
		snapper: opts.Snapper,
		opts:    opts,
		now:     opts.Clock,
		nonces:  signal.NewNonceSource(opts.Clock),
	}
	e.channel = signal.NewChannel(opts.Channel, remote, remote.RequestProcess, opts.Clock)
	e.recognizer = gesture.New(opts.Gesture, opts.Clock)
	e.vt.Mode = opts.PanMode
	e.vt.ZoomLevel = defaultZoom(opts.PanMode)
	return e
}

func defaultZoom(mode view.PanMode) float64 {
	min, _ := gesture.ZoomBounds(mode)
	if min > 1 {
		return min
	}
	return 1
}

// Configure applies the host configuration polled by the mount cycle.
// A tool mode change discards the in-progress session and wipes pending
// signals.
func (e *Engine) Configure(cfg host.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !cfg.Valid() {
		return
	}
	e.vt.Intrinsic = geometry.NewSize(cfg.IntrinsicWidth, cfg.IntrinsicHeight)

	kind, err := tool.ParseKind(cfg.ToolMode)
	if err != nil {
		log.Printf("engine: %v", err)
		return
	}
	if e.session == nil || e.session.Kind() != kind {
		e.session = tool.NewSession(kind, e.opts.Tool,
			geometry.NewRect(0, 0, cfg.IntrinsicWidth, cfg.IntrinsicHeight))
		e.channel.ClearAll()
		e.state.SetActiveTool(cfg.ToolMode)
	}

	if cfg.HasViewSeed {
		min, max := gesture.ZoomBounds(e.vt.Mode)
		e.vt.ZoomLevel = geometry.Clamp(cfg.ZoomSeed, min, max)
		e.vt.PanX = cfg.PanXSeed
		e.vt.PanY = cfg.PanYSeed
	}
}

// SetViewport updates the overlay's visual frame (host coordinates).
func (e *Engine) SetViewport(frame geometry.Rect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vt.Viewport = frame
}

// View returns the current transform snapshot.
func (e *Engine) View() view.ViewTransform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vt
}

// Snapshot returns the active tool's in-progress geometry for rendering.
func (e *Engine) Snapshot() tool.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return tool.Snapshot{Selected: -1}
	}
	return e.session.Snapshot()
}

// PointerDown feeds a pointer press into the engine.
func (e *Engine) PointerDown(s gesture.PointerSample) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.vt.Valid() {
		return
	}

	if e.recognizer.PointerDown(s, e.vt) {
		// Pinch started: the in-flight interaction is void, completed
		// shapes stay.
		if e.session != nil {
			e.session.CancelActive()
		}
		e.dragging = false
		return
	}
	if e.recognizer.ToolsVetoed() || e.session == nil {
		return
	}

	if e.session.Kind() == tool.KindTransform {
		e.dragging = true
		e.dragLast = s.Pos
		return
	}
	e.forward(tool.Down, s)
}

// PointerMove feeds a pointer move into the engine.
func (e *Engine) PointerMove(s gesture.PointerSample) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.vt.Valid() {
		return
	}

	if next, changed := e.recognizer.PointerMove(s, e.vt); changed {
		e.vt = next
		e.channel.Publish(signal.KindZoom, signal.EncodeZoom(next.ZoomLevel))
		e.state.Emit(app.EventViewChanged, next)
		return
	}
	if e.recognizer.ToolsVetoed() || e.session == nil {
		return
	}

	if e.dragging {
		e.panBy(s.Pos.Sub(e.dragLast))
		e.dragLast = s.Pos
		return
	}
	e.forward(tool.Move, s)
}

// PointerUp feeds a pointer release into the engine.
func (e *Engine) PointerUp(s gesture.PointerSample) {
	e.pointerEnd(s, tool.Up)
}

// PointerCancel handles lost capture; cleanup only, never a commit.
func (e *Engine) PointerCancel(s gesture.PointerSample) {
	e.pointerEnd(s, tool.Cancel)
}

func (e *Engine) pointerEnd(s gesture.PointerSample, t tool.EventType) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wasPinching := e.recognizer.Phase() == gesture.Pinching
	e.recognizer.PointerUp(s.ID)
	if wasPinching && e.recognizer.Phase() == gesture.Idle {
		// Gesture over: publish the final pan so the host can persist it.
		e.publishPan()
		return
	}
	if !e.vt.Valid() || e.recognizer.ToolsVetoed() || e.session == nil {
		return
	}

	if e.dragging {
		e.dragging = false
		e.publishPan()
		return
	}
	e.forward(t, s)
}

// forward converts a sample to intrinsic space and hands it to the tool.
func (e *Engine) forward(t tool.EventType, s gesture.PointerSample) {
	pos, ok := e.vt.ToIntrinsic(s.Pos)
	if !ok {
		return
	}
	ev := tool.Event{Type: t, Pos: pos, Visual: s.Pos, Time: e.now()}
	if c := e.session.HandleEvent(ev, e.vt.EffectiveScale()); c != nil {
		e.publishCommit(c)
	}
}

// panBy applies a visual-space drag delta to the pan state.
func (e *Engine) panBy(delta geometry.Point2D) {
	if e.vt.Mode == view.PanPixels {
		e.vt.PanX += delta.X
		e.vt.PanY += delta.Y
	} else {
		z := e.vt.ZoomLevel
		if z <= 1 {
			return
		}
		// Dragging content right moves the crop window left.
		scale := e.vt.EffectiveScale()
		hidden := e.vt.Intrinsic.Width * (1 - 1/z)
		if hidden > 0 {
			e.vt.PanX = geometry.Clamp(e.vt.PanX-delta.X/scale/hidden, 0, 1)
		}
		hidden = e.vt.Intrinsic.Height * (1 - 1/z)
		if hidden > 0 {
			e.vt.PanY = geometry.Clamp(e.vt.PanY-delta.Y/scale/hidden, 0, 1)
		}
	}
	e.state.Emit(app.EventViewChanged, e.vt)
}

func (e *Engine) publishPan() {
	e.channel.Publish(signal.KindPan, signal.EncodePan(e.vt.PanX, e.vt.PanY, e.nonces.Next()))
	e.state.Emit(app.EventViewChanged, e.vt)
}

func (e *Engine) publishCommit(c *tool.Commit) {
	switch c.Kind {
	case tool.CommitTap:
		e.channel.Publish(signal.KindTap, signal.EncodeTap(c.Point, e.nonces.Next()))
	case tool.CommitBoxes:
		boxes := c.Boxes
		if e.snapper != nil {
			snapped := make([]geometry.Rect, len(boxes))
			for i, b := range boxes {
				snapped[i] = e.snapper.SnapBox(b)
			}
			boxes = snapped
		}
		e.channel.Publish(signal.KindBox, signal.EncodeBoxes(boxes, e.nonces.Next()))
	case tool.CommitPolygon:
		e.channel.Publish(signal.KindPolygon, signal.EncodePolygon(c.Vertices, e.nonces.Next()))
	}
	e.state.Emit(app.EventShapeCommitted, c)
	log.Printf("engine: committed %s shape", e.state.Tool())
}

// Commit finalizes the active tool's accumulated shape (control bar
// "apply").
func (e *Engine) Commit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return
	}
	if c := e.session.Commit(); c != nil {
		e.publishCommit(c)
	}
}

// DeleteSelected removes the selected box.
func (e *Engine) DeleteSelected() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.DeleteSelected()
	}
}

// UndoVertex pops the last polygon vertex or reopens a closed polygon.
func (e *Engine) UndoVertex() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.UndoVertex()
	}
}

// ResetView restores the default zoom and centers the pan.
func (e *Engine) ResetView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vt.ZoomLevel = defaultZoom(e.vt.Mode)
	if e.vt.Mode == view.PanNormalized {
		e.vt.PanX, e.vt.PanY = 0.5, 0.5
	} else {
		e.vt.PanX, e.vt.PanY = 0, 0
	}
	e.publishPan()
}
