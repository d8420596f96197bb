package mount_test

import (
	"sync"
	"testing"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/mount"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surface(id string, w float64) mount.HostSurface {
	return mount.HostSurface{
		ID:        id,
		Frame:     geometry.NewRect(0, 0, w, w*0.8),
		Intrinsic: geometry.NewSize(1000, 800),
	}
}

func TestReconcile_AttachFromScratch(t *testing.T) {
	next := mount.Reconcile(mount.Mount{}, surface("s1", 500), true)
	assert.True(t, next.Attached)
	assert.Equal(t, "s1", next.SurfaceID)
	assert.Equal(t, 0.5, next.BaseScale)
	assert.Equal(t, 1, next.Generation)
}

func TestReconcile_SameSurfaceIsStable(t *testing.T) {
	cur := mount.Reconcile(mount.Mount{}, surface("s1", 500), true)
	next := mount.Reconcile(cur, surface("s1", 500), true)
	assert.Equal(t, cur, next, "same identity is a no-op")
}

func TestReconcile_SurfaceSwapBumpsGeneration(t *testing.T) {
	cur := mount.Reconcile(mount.Mount{}, surface("s1", 500), true)
	next := mount.Reconcile(cur, surface("s2", 500), true)
	assert.True(t, next.Attached)
	assert.Equal(t, "s2", next.SurfaceID)
	assert.Equal(t, cur.Generation+1, next.Generation)
}

func TestReconcile_ResizeKeepsGeneration(t *testing.T) {
	cur := mount.Reconcile(mount.Mount{}, surface("s1", 500), true)
	next := mount.Reconcile(cur, surface("s1", 250), true)
	assert.Equal(t, cur.Generation, next.Generation)
	assert.Equal(t, 0.25, next.BaseScale)
}

func TestReconcile_MissingConfigStaysInert(t *testing.T) {
	next := mount.Reconcile(mount.Mount{}, mount.HostSurface{}, false)
	assert.False(t, next.Attached)

	// Degenerate intrinsic size is treated the same way.
	s := surface("s1", 500)
	s.Intrinsic = geometry.Size{}
	next = mount.Reconcile(mount.Mount{}, s, true)
	assert.False(t, next.Attached)
}

// fakeHost scripts the surface returned per poll cycle.
type fakeHost struct {
	mu      sync.Mutex
	surface mount.HostSurface
	present bool
}

func (h *fakeHost) set(s mount.HostSurface, present bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.surface = s
	h.present = present
}

func (h *fakeHost) CurrentSurface() (mount.HostSurface, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surface, h.present
}

// fakeAttachment records transitions.
type fakeAttachment struct {
	mu  sync.Mutex
	log []string
}

func (a *fakeAttachment) record(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = append(a.log, s)
}

func (a *fakeAttachment) events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.log))
	copy(out, a.log)
	return out
}

func (a *fakeAttachment) Attach(m mount.Mount)      { a.record("attach " + m.SurfaceID) }
func (a *fakeAttachment) Detach(m mount.Mount)      { a.record("detach " + m.SurfaceID) }
func (a *fakeAttachment) UpdateFrame(m mount.Mount) { a.record("frame " + m.SurfaceID) }
func (a *fakeAttachment) PruneControlBars(keep int) { a.record("prune") }

func TestManager_SurfaceSwapDetachesThenAttaches(t *testing.T) {
	host := &fakeHost{}
	att := &fakeAttachment{}
	mgr := mount.NewManager(host, att, 0)

	host.set(surface("s1", 500), true)
	mgr.Poll()
	host.set(surface("s2", 500), true)
	mgr.Poll()

	assert.Equal(t, []string{
		"attach s1", "prune",
		"detach s1", "attach s2", "prune",
	}, att.events())
	assert.Equal(t, "s2", mgr.Current().SurfaceID)
}

func TestManager_InertWithoutConfig(t *testing.T) {
	host := &fakeHost{}
	att := &fakeAttachment{}
	mgr := mount.NewManager(host, att, 0)

	mgr.Poll()
	mgr.Poll()
	assert.Empty(t, att.events(), "no surface, no side effects")

	// The surface appearing later is picked up on a later cycle.
	host.set(surface("s1", 500), true)
	mgr.Poll()
	require.True(t, mgr.Current().Attached)
}

func TestManager_ResizeUpdatesFrameOnly(t *testing.T) {
	host := &fakeHost{}
	att := &fakeAttachment{}
	mgr := mount.NewManager(host, att, 0)

	host.set(surface("s1", 500), true)
	mgr.Poll()
	host.set(surface("s1", 250), true)
	mgr.Resize()

	assert.Equal(t, []string{"attach s1", "prune", "frame s1"}, att.events())
	assert.Equal(t, 0.25, mgr.Current().BaseScale)
}

func TestManager_SurfaceLossDetaches(t *testing.T) {
	host := &fakeHost{}
	att := &fakeAttachment{}
	mgr := mount.NewManager(host, att, 0)

	host.set(surface("s1", 500), true)
	mgr.Poll()
	host.set(mount.HostSurface{}, false)
	mgr.Poll()

	events := att.events()
	assert.Equal(t, "detach s1", events[len(events)-1])
	assert.False(t, mgr.Current().Attached)
}
