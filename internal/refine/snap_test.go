package refine_test

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/refine"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

// squareImage renders a dark square on a light background.
func squareImage(w, h int, square image.Rectangle) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 230}), image.Point{}, draw.Src)
	draw.Draw(img, square, image.NewUniform(color.Gray{Y: 20}), image.Point{}, draw.Src)
	return img
}

func TestSnapBox_PullsEdgesOntoObjectBoundary(t *testing.T) {
	img := squareImage(200, 200, image.Rect(60, 60, 140, 140))
	field := refine.NewGradientField(img)
	s := refine.NewSnapper(refine.DefaultConfig(), field)

	// The user's box is a few pixels off on every side.
	got := s.SnapBox(geometry.NewRect(55, 66, 92, 68))

	assert.InDelta(t, 60, got.X, 1.5)
	assert.InDelta(t, 60, got.Y, 1.5)
	assert.InDelta(t, 140, got.X+got.Width, 1.5)
	assert.InDelta(t, 140, got.Y+got.Height, 1.5)
}

func TestSnapBox_FlatImageLeavesBoxAlone(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 128}), image.Point{}, draw.Src)
	field := refine.NewGradientField(img)
	s := refine.NewSnapper(refine.DefaultConfig(), field)

	r := geometry.NewRect(40, 40, 80, 60)
	assert.Equal(t, r, s.SnapBox(r), "no gradients, nothing to snap to")
}

func TestSnapBox_DegenerateResultDiscarded(t *testing.T) {
	// Two strong edges close together could fold a narrow box inside
	// out; the snap must then be abandoned.
	img := squareImage(200, 200, image.Rect(95, 20, 105, 180))
	field := refine.NewGradientField(img)
	s := refine.NewSnapper(refine.DefaultConfig(), field)

	r := geometry.NewRect(93, 60, 5, 40)
	got := s.SnapBox(r)
	assert.Positive(t, got.Width)
	assert.Positive(t, got.Height)
}
