// Package view maps pointer positions between visual (on-screen) space and
// the intrinsic coordinate space of the rendered content.
package view

import (
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// PanMode selects how the pan component of a ViewTransform is interpreted.
type PanMode int

const (
	// PanNormalized stores pan as a [0,1] fraction of the hidden content
	// range; the visible window is a crop of the intrinsic image.
	PanNormalized PanMode = iota
	// PanPixels stores pan as a raw visual-space pixel offset.
	PanPixels
)

// MinScaleFloor is the smallest responsive fit scale applied when the
// viewport is much narrower than the content.
const MinScaleFloor = 0.1

// ViewTransform is a snapshot of the current zoom/pan state plus the
// geometry needed to convert between spaces. Zero values are invalid;
// build one with the engine or fill every field.
type ViewTransform struct {
	Intrinsic geometry.Size
	Viewport  geometry.Rect
	ZoomLevel float64
	PanX      float64
	PanY      float64
	Mode      PanMode
}

// FitScale computes the responsive base scale for a viewport width over an
// intrinsic width, clamped to [MinScaleFloor, 1].
func FitScale(viewportWidth, intrinsicWidth float64) float64 {
	if intrinsicWidth <= 0 {
		return 1
	}
	return geometry.Clamp(viewportWidth/intrinsicWidth, MinScaleFloor, 1)
}

// Valid reports whether the transform is usable. Callers must skip the
// current event when it is not (surface not laid out yet).
func (vt ViewTransform) Valid() bool {
	return vt.Viewport.Width > 0 && !vt.Intrinsic.Empty() && vt.ZoomLevel > 0
}

// BaseScale returns the responsive fit scale of this snapshot.
func (vt ViewTransform) BaseScale() float64 {
	return FitScale(vt.Viewport.Width, vt.Intrinsic.Width)
}

// EffectiveScale returns the combined visual scale (base fit x zoom).
func (vt ViewTransform) EffectiveScale() float64 {
	return vt.BaseScale() * vt.ZoomLevel
}

// CropWindow returns the visible intrinsic sub-rectangle for a normalized
// pan state. Zoom at or below 1 shows the whole image; panX of 0 pins the
// window to the left edge and 1 to the right edge, and likewise for panY.
func CropWindow(intrinsic geometry.Size, zoom, panX, panY float64) geometry.Rect {
	if zoom <= 1 {
		return geometry.NewRect(0, 0, intrinsic.Width, intrinsic.Height)
	}
	viewW := intrinsic.Width / zoom
	viewH := intrinsic.Height / zoom
	panX = geometry.Clamp(panX, 0, 1)
	panY = geometry.Clamp(panY, 0, 1)
	return geometry.NewRect(
		(intrinsic.Width-viewW)*panX,
		(intrinsic.Height-viewH)*panY,
		viewW,
		viewH,
	)
}

// matrix builds the intrinsic-to-visual affine transform for this snapshot.
func (vt ViewTransform) matrix() geometry.AffineTransform {
	s := vt.EffectiveScale()
	switch vt.Mode {
	case PanNormalized:
		crop := CropWindow(vt.Intrinsic, vt.ZoomLevel, vt.PanX, vt.PanY)
		return geometry.Translation(vt.Viewport.X, vt.Viewport.Y).
			Compose(geometry.Scale(s, s)).
			Compose(geometry.Translation(-crop.X, -crop.Y))
	default:
		return geometry.Translation(vt.Viewport.X+vt.PanX, vt.Viewport.Y+vt.PanY).
			Compose(geometry.Scale(s, s))
	}
}

// ToVisual maps an intrinsic-space point to visual space. Reports false
// when the transform is not yet defined.
func (vt ViewTransform) ToVisual(p geometry.Point2D) (geometry.Point2D, bool) {
	if !vt.Valid() {
		return geometry.Point2D{}, false
	}
	return vt.matrix().Apply(p), true
}

// ToIntrinsic maps a visual-space point to intrinsic space. Reports false
// when the transform is not yet defined.
func (vt ViewTransform) ToIntrinsic(p geometry.Point2D) (geometry.Point2D, bool) {
	if !vt.Valid() {
		return geometry.Point2D{}, false
	}
	inv, ok := vt.matrix().Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	return inv.Apply(p), true
}

// ClampToIntrinsic restricts a point to the intrinsic canvas bounds.
func (vt ViewTransform) ClampToIntrinsic(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: geometry.Clamp(p.X, 0, vt.Intrinsic.Width),
		Y: geometry.Clamp(p.Y, 0, vt.Intrinsic.Height),
	}
}
