// Package refine adjusts committed boxes toward strong image edges so a
// rough drag still lands on the object boundary.
package refine

import (
	"image"
	"image/color"
	"math"

	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// GradientField holds per-pixel gradient magnitudes of the content image
// in intrinsic resolution.
type GradientField struct {
	w, h int
	mag  []float64
}

// At returns the gradient magnitude at (x, y), zero outside bounds.
func (f *GradientField) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return 0
	}
	return f.mag[y*f.w+x]
}

// NewGradientField computes gradient magnitudes with pure Go central
// differences on the luma channel. Used when OpenCV is not available;
// see NewGradientFieldCV for the accelerated path.
func NewGradientField(img image.Image) *GradientField {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	luma := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			luma[y*w+x] = grayAt(img, b.Min.X+x, b.Min.Y+y)
		}
	}

	f := &GradientField{w: w, h: h, mag: make([]float64, w*h)}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := luma[y*w+x+1] - luma[y*w+x-1]
			gy := luma[(y+1)*w+x] - luma[(y-1)*w+x]
			f.mag[y*w+x] = math.Hypot(gx, gy)
		}
	}
	return f
}

func grayAt(img image.Image, x, y int) float64 {
	c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
	return float64(c.Y)
}

// Config holds the snapping tunables.
type Config struct {
	// SearchBand is how far (intrinsic px) each edge may move.
	SearchBand int
	// MinStrength is the mean gradient an edge candidate must reach;
	// below it the edge stays where the user drew it.
	MinStrength float64
}

// DefaultConfig returns the standard snapping tunables.
func DefaultConfig() Config {
	return Config{SearchBand: 12, MinStrength: 24}
}

// Snapper nudges box edges onto nearby gradient ridges.
type Snapper struct {
	cfg   Config
	field *GradientField
}

// NewSnapper creates a snapper over a gradient field.
func NewSnapper(cfg Config, field *GradientField) *Snapper {
	return &Snapper{cfg: cfg, field: field}
}

// SnapBox moves each edge of r independently to the strongest gradient
// line within the search band. Edges without a strong enough candidate
// are left untouched, and a snap that would invert the box is discarded.
func (s *Snapper) SnapBox(r geometry.Rect) geometry.Rect {
	x1 := s.snapVertical(int(math.Round(r.X)), int(r.Y), int(r.Y+r.Height))
	x2 := s.snapVertical(int(math.Round(r.X+r.Width)), int(r.Y), int(r.Y+r.Height))
	y1 := s.snapHorizontal(int(math.Round(r.Y)), int(r.X), int(r.X+r.Width))
	y2 := s.snapHorizontal(int(math.Round(r.Y+r.Height)), int(r.X), int(r.X+r.Width))

	if x2 <= x1 || y2 <= y1 {
		return r
	}
	return geometry.NewRect(float64(x1), float64(y1), float64(x2-x1), float64(y2-y1))
}

// snapVertical finds the strongest vertical edge near column x between
// rows y1 and y2.
func (s *Snapper) snapVertical(x, y1, y2 int) int {
	best, bestScore := x, 0.0
	for dx := -s.cfg.SearchBand; dx <= s.cfg.SearchBand; dx++ {
		score := 0.0
		n := 0
		for y := y1; y <= y2; y++ {
			score += s.field.At(x+dx, y)
			n++
		}
		if n == 0 {
			continue
		}
		score /= float64(n)
		if score > bestScore {
			best, bestScore = x+dx, score
		}
	}
	if bestScore < s.cfg.MinStrength {
		return x
	}
	return best
}

// snapHorizontal finds the strongest horizontal edge near row y between
// columns x1 and x2.
func (s *Snapper) snapHorizontal(y, x1, x2 int) int {
	best, bestScore := y, 0.0
	for dy := -s.cfg.SearchBand; dy <= s.cfg.SearchBand; dy++ {
		score := 0.0
		n := 0
		for x := x1; x <= x2; x++ {
			score += s.field.At(x, y+dy)
			n++
		}
		if n == 0 {
			continue
		}
		score /= float64(n)
		if score > bestScore {
			best, bestScore = y+dy, score
		}
	}
	if bestScore < s.cfg.MinStrength {
		return y
	}
	return best
}
