package engine_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/app"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/engine"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/gesture"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/host"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/signal"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clock   *fakeClock
	state   *app.State
	host    *host.InProcess
	engine  *engine.Engine
	process *counter
}

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newFixture(mode view.PanMode, toolMode string) *fixture {
	f := &fixture{
		clock:   &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		state:   app.NewState(),
		process: &counter{},
	}
	f.host = host.NewInProcess(f.process.inc)

	opts := engine.DefaultOptions(mode)
	opts.Clock = f.clock.now
	opts.Channel = signal.Config{
		WriteDebounce:   20 * time.Millisecond,
		ProcessDebounce: 150 * time.Millisecond,
		TriggerDelay:    5 * time.Millisecond,
	}
	f.engine = engine.New(f.state, f.host, opts)

	f.host.SetConfig(host.Config{
		IntrinsicWidth:  1000,
		IntrinsicHeight: 800,
		ToolMode:        toolMode,
	})
	cfg, _ := f.host.Config()
	f.engine.Configure(cfg)
	f.engine.SetViewport(geometry.NewRect(0, 0, 500, 400))
	return f
}

func (f *fixture) configureTool(mode string) {
	cfg, _ := f.host.Config()
	cfg.ToolMode = mode
	f.host.SetConfig(cfg)
	f.engine.Configure(cfg)
}

func touch(id int, x, y float64) gesture.PointerSample {
	return gesture.PointerSample{ID: id, Pos: geometry.NewPoint2D(x, y), Kind: gesture.KindTouch}
}

func (f *fixture) tap(x, y float64) {
	f.engine.PointerDown(touch(1, x, y))
	f.clock.advance(60 * time.Millisecond)
	f.engine.PointerUp(touch(1, x, y))
}

func waitSlot(t *testing.T, h *host.InProcess, kind signal.Kind) string {
	t.Helper()
	var v string
	require.Eventually(t, func() bool {
		var ok bool
		v, ok = h.Slot(kind)
		return ok
	}, time.Second, 5*time.Millisecond, "slot %s never written", kind)
	return v
}

func TestTapPublishesIntrinsicCoordinates(t *testing.T) {
	f := newFixture(view.PanNormalized, "point")

	// Visual (100,100) at base scale 0.5 is intrinsic (200,200).
	f.tap(100, 100)

	v := waitSlot(t, f.host, signal.KindTap)
	assert.True(t, strings.HasPrefix(v, "200,200,"), "got %q", v)

	require.Eventually(t, func() bool { return f.process.get() == 1 },
		time.Second, 5*time.Millisecond, "one process request per commit burst")
}

func TestPinchVetoesToolAndDiscardsPendingShape(t *testing.T) {
	f := newFixture(view.PanNormalized, "rect")

	// Start drawing a box, then land a second finger.
	f.engine.PointerDown(touch(1, 100, 100))
	f.engine.PointerMove(touch(1, 200, 200))
	require.Len(t, f.engine.Snapshot().Boxes, 1)

	f.engine.PointerDown(touch(2, 300, 100))
	assert.Empty(t, f.engine.Snapshot().Boxes, "pinch start voids the pending box")

	// Single-pointer moves while pinching must not mutate tool state.
	f.engine.PointerMove(touch(1, 150, 150))
	assert.Empty(t, f.engine.Snapshot().Boxes)

	// Lifting both fingers keeps tools vetoed through the cooldown.
	f.engine.PointerUp(touch(2, 300, 100))
	f.engine.PointerUp(touch(1, 150, 150))
	f.tap(100, 100)
	assert.Empty(t, f.engine.Snapshot().Boxes)

	// After the cooldown the tool is live again.
	f.clock.advance(time.Second)
	f.engine.PointerDown(touch(1, 100, 100))
	f.engine.PointerMove(touch(1, 200, 200))
	assert.Len(t, f.engine.Snapshot().Boxes, 1)
}

func TestPinchLeavesCompletedBoxesIntact(t *testing.T) {
	f := newFixture(view.PanNormalized, "rect")

	// Finish one box, then zoom.
	f.engine.PointerDown(touch(1, 50, 50))
	f.engine.PointerMove(touch(1, 150, 150))
	f.engine.PointerUp(touch(1, 150, 150))
	require.Len(t, f.engine.Snapshot().Boxes, 1)

	f.clock.advance(time.Second)
	f.engine.PointerDown(touch(1, 100, 100)) // lands inside the box
	f.engine.PointerDown(touch(2, 200, 100)) // second finger starts the pinch
	f.engine.PointerMove(touch(2, 300, 100))
	f.engine.PointerUp(touch(2, 300, 100))
	f.engine.PointerUp(touch(1, 100, 100))

	assert.Len(t, f.engine.Snapshot().Boxes, 1, "zooming must not erase drawn boxes")
}

func TestPinchUpdatesZoomAndPublishes(t *testing.T) {
	f := newFixture(view.PanNormalized, "rect")

	f.engine.PointerDown(touch(1, 200, 200))
	f.engine.PointerDown(touch(2, 300, 200))
	f.engine.PointerMove(touch(2, 400, 200)) // distance 100 -> 200

	assert.InDelta(t, 2.0, f.engine.View().ZoomLevel, 1e-9)
	v := waitSlot(t, f.host, signal.KindZoom)
	assert.Equal(t, "2.0000", v)

	// Gesture end publishes the final pan.
	f.engine.PointerUp(touch(2, 400, 200))
	v = waitSlot(t, f.host, signal.KindPan)
	assert.Equal(t, 3, strings.Count(v, ",")+1, "pan slot is fx,fy,nonce")
}

func TestToolSwitchDiscardsSessionAndWipesSignals(t *testing.T) {
	f := newFixture(view.PanNormalized, "rect")

	f.engine.PointerDown(touch(1, 100, 100))
	f.engine.PointerMove(touch(1, 300, 300))
	f.engine.PointerUp(touch(1, 300, 300))
	require.Len(t, f.engine.Snapshot().Boxes, 1)

	f.configureTool("polygon")
	assert.Empty(t, f.engine.Snapshot().Boxes)
	assert.Equal(t, "polygon", f.state.Tool())

	// Re-entering box mode starts from an empty list.
	f.configureTool("rect")
	assert.Empty(t, f.engine.Snapshot().Boxes)
	_, ok := f.host.Slot(signal.KindBox)
	assert.False(t, ok)
}

func TestBoxCommitPublishesPipeDelimitedList(t *testing.T) {
	f := newFixture(view.PanNormalized, "rect")

	f.engine.PointerDown(touch(1, 50, 50))
	f.engine.PointerMove(touch(1, 150, 150))
	f.engine.PointerUp(touch(1, 150, 150))
	f.clock.advance(time.Second)
	f.engine.PointerDown(touch(1, 200, 200))
	f.engine.PointerMove(touch(1, 300, 250))
	f.engine.PointerUp(touch(1, 300, 250))

	f.engine.Commit()
	v := waitSlot(t, f.host, signal.KindBox)
	assert.True(t, strings.HasPrefix(v, "100,100,300,300|400,400,600,500,"), "got %q", v)
	assert.Empty(t, f.engine.Snapshot().Boxes, "commit clears the box list")
}

func TestTransformModeDragsPan(t *testing.T) {
	f := newFixture(view.PanNormalized, "transform")

	cfg, _ := f.host.Config()
	cfg.HasViewSeed = true
	cfg.ZoomSeed = 2
	cfg.PanXSeed = 0.5
	cfg.PanYSeed = 0.5
	f.host.SetConfig(cfg)
	f.engine.Configure(cfg)

	f.engine.PointerDown(touch(1, 250, 200))
	f.engine.PointerMove(touch(1, 300, 200)) // drag content right
	f.engine.PointerUp(touch(1, 300, 200))

	vt := f.engine.View()
	assert.Less(t, vt.PanX, 0.5, "dragging right moves the crop window left")
	assert.Equal(t, 0.5, vt.PanY)
	waitSlot(t, f.host, signal.KindPan)
}

func TestEngineInertWithoutConfiguration(t *testing.T) {
	state := app.NewState()
	h := host.NewInProcess(nil)
	e := engine.New(state, h, engine.DefaultOptions(view.PanNormalized))

	// No config, no viewport: events are dropped, nothing panics.
	e.PointerDown(touch(1, 100, 100))
	e.PointerMove(touch(1, 200, 200))
	e.PointerUp(touch(1, 200, 200))
	e.Commit()

	assert.Empty(t, e.Snapshot().Boxes)
	_, ok := h.Slot(signal.KindTap)
	assert.False(t, ok)
}

func TestZoomSeedClampedToModeBounds(t *testing.T) {
	f := newFixture(view.PanNormalized, "point")

	cfg, _ := f.host.Config()
	cfg.HasViewSeed = true
	cfg.ZoomSeed = 9.5
	f.host.SetConfig(cfg)
	f.engine.Configure(cfg)

	assert.Equal(t, 4.0, f.engine.View().ZoomLevel, "normalized mode caps at 4x")
}
