// Package mount keeps the overlay attached to the host's current
// rendering surface, which the host may swap for a new instance at any
// time.
package mount

import (
	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// HostSurface describes the rendering surface the host currently shows.
// A swap is modeled as a new ID; the frame is the surface's visual
// rectangle in host coordinates.
type HostSurface struct {
	ID        string
	Frame     geometry.Rect
	Intrinsic geometry.Size
}

// valid reports whether the surface is concrete enough to mount onto.
func (s HostSurface) valid() bool {
	return s.ID != "" && s.Frame.Width > 0 && !s.Intrinsic.Empty()
}

// Mount is the overlay attachment descriptor. The zero value means
// "not attached".
type Mount struct {
	Attached   bool
	SurfaceID  string
	Frame      geometry.Rect
	Intrinsic  geometry.Size
	BaseScale  float64
	Generation int
}

// Reconcile computes the next mount descriptor for the desired surface.
// It is a pure function: attaching, detaching and frame updates are
// derived by the caller from the difference between current and the
// result. An absent or degenerate surface yields a detached mount whose
// generation is preserved so stale control bars can still be pruned.
func Reconcile(current Mount, desired HostSurface, present bool) Mount {
	if !present || !desired.valid() {
		return Mount{Generation: current.Generation}
	}

	next := Mount{
		Attached:   true,
		SurfaceID:  desired.ID,
		Frame:      desired.Frame,
		Intrinsic:  desired.Intrinsic,
		BaseScale:  view.FitScale(desired.Frame.Width, desired.Intrinsic.Width),
		Generation: current.Generation,
	}
	if !current.Attached || current.SurfaceID != desired.ID {
		// Fresh attachment gets a new generation; duplicate control
		// bars left by earlier cycles are pruned against it.
		next.Generation = current.Generation + 1
	}
	return next
}
