package view_test

import (
	"testing"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTransform() view.ViewTransform {
	return view.ViewTransform{
		Intrinsic: geometry.NewSize(1000, 800),
		Viewport:  geometry.NewRect(0, 0, 500, 400),
		ZoomLevel: 1,
		Mode:      view.PanNormalized,
	}
}

func TestFitScale(t *testing.T) {
	assert.Equal(t, 0.5, view.FitScale(500, 1000))
	assert.Equal(t, 1.0, view.FitScale(2000, 1000), "fit never upscales past 1")
	assert.Equal(t, 0.1, view.FitScale(10, 1000), "fit is floored")
}

func TestCropWindow_Centered(t *testing.T) {
	crop := view.CropWindow(geometry.NewSize(1000, 800), 2.0, 0.5, 0.5)
	assert.Equal(t, geometry.NewRect(250, 200, 500, 400), crop)
}

func TestCropWindow_EdgePins(t *testing.T) {
	size := geometry.NewSize(1000, 800)

	left := view.CropWindow(size, 2.0, 0, 0)
	assert.Equal(t, 0.0, left.X)

	right := view.CropWindow(size, 2.0, 1, 0)
	assert.Equal(t, 500.0, right.X)
	assert.Equal(t, 1000.0, right.X+right.Width)
}

func TestCropWindow_FullImageAtUnityZoom(t *testing.T) {
	size := geometry.NewSize(1000, 800)
	crop := view.CropWindow(size, 1.0, 0.7, 0.2)
	assert.Equal(t, geometry.NewRect(0, 0, 1000, 800), crop)
}

func TestRoundTrip_NormalizedMode(t *testing.T) {
	vt := baseTransform()
	vt.ZoomLevel = 2.5
	vt.PanX = 0.3
	vt.PanY = 0.8
	vt.Viewport = geometry.NewRect(40, 25, 500, 400)

	points := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 999, Y: 799}, {X: 512.5, Y: 300.25},
	}
	for _, p := range points {
		vis, ok := vt.ToVisual(p)
		require.True(t, ok)
		back, ok := vt.ToIntrinsic(vis)
		require.True(t, ok)
		assert.InDelta(t, p.X, back.X, 0.5)
		assert.InDelta(t, p.Y, back.Y, 0.5)
	}
}

func TestRoundTrip_PixelMode(t *testing.T) {
	vt := baseTransform()
	vt.Mode = view.PanPixels
	vt.ZoomLevel = 3
	vt.PanX = -120
	vt.PanY = 60

	p := geometry.NewPoint2D(321, 654)
	vis, ok := vt.ToVisual(p)
	require.True(t, ok)
	back, ok := vt.ToIntrinsic(vis)
	require.True(t, ok)
	assert.InDelta(t, p.X, back.X, 0.5)
	assert.InDelta(t, p.Y, back.Y, 0.5)
}

func TestZeroViewportIsInvalid(t *testing.T) {
	vt := baseTransform()
	vt.Viewport.Width = 0

	_, ok := vt.ToIntrinsic(geometry.NewPoint2D(10, 10))
	assert.False(t, ok, "transform is undefined before layout")
	_, ok = vt.ToVisual(geometry.NewPoint2D(10, 10))
	assert.False(t, ok)
}

func TestViewportOriginRespected(t *testing.T) {
	vt := baseTransform()
	vt.Viewport = geometry.NewRect(100, 50, 500, 400)

	vis, ok := vt.ToVisual(geometry.NewPoint2D(0, 0))
	require.True(t, ok)
	assert.Equal(t, geometry.NewPoint2D(100, 50), vis)
}

func TestClampToIntrinsic(t *testing.T) {
	vt := baseTransform()
	p := vt.ClampToIntrinsic(geometry.NewPoint2D(-5, 900))
	assert.Equal(t, geometry.NewPoint2D(0, 800), p)
}
