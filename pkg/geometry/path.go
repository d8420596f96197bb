package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PathLength returns the total arc length of an open polyline.
func PathLength(points []Point2D) float64 {
	if len(points) < 2 {
		return 0
	}
	segs := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		segs[i-1] = points[i].Distance(points[i-1])
	}
	return floats.Sum(segs)
}

// Resample thins a polyline so consecutive points are at least minSpacing
// apart. The first and last points are always kept.
func Resample(points []Point2D, minSpacing float64) []Point2D {
	if len(points) <= 2 || minSpacing <= 0 {
		out := make([]Point2D, len(points))
		copy(out, points)
		return out
	}

	out := []Point2D{points[0]}
	for _, p := range points[1 : len(points)-1] {
		if p.Distance(out[len(out)-1]) >= minSpacing {
			out = append(out, p)
		}
	}
	last := points[len(points)-1]
	if last.Distance(out[len(out)-1]) > 0 {
		out = append(out, last)
	}
	return out
}

// FitLine fits a line through points by orthogonal least squares,
// returning a point on the line and a unit direction. Returns false for
// fewer than two points or a degenerate (all-coincident) set.
func FitLine(points []Point2D) (origin, dir Point2D, ok bool) {
	if len(points) < 2 {
		return Point2D{}, Point2D{}, false
	}

	c := Centroid(points)
	var sxx, sxy, syy float64
	for _, p := range points {
		dx := p.X - c.X
		dy := p.Y - c.Y
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx+syy < 1e-12 {
		return Point2D{}, Point2D{}, false
	}

	cov := mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy})
	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return Point2D{}, Point2D{}, false
	}

	// The direction is the eigenvector of the largest eigenvalue;
	// EigenSym sorts eigenvalues in ascending order.
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	d := Point2D{X: vecs.At(0, 1), Y: vecs.At(1, 1)}
	n := math.Hypot(d.X, d.Y)
	if n < 1e-12 {
		return Point2D{}, Point2D{}, false
	}
	return c, Point2D{X: d.X / n, Y: d.Y / n}, true
}

// CollapseCollinear simplifies a polyline by merging maximal runs of points
// whose orthogonal distance to their fitted line stays within tolerance.
// Endpoints of each run are kept, interior points are dropped.
func CollapseCollinear(points []Point2D, tolerance float64) []Point2D {
	if len(points) <= 2 {
		out := make([]Point2D, len(points))
		copy(out, points)
		return out
	}

	out := []Point2D{points[0]}
	start := 0
	for end := 2; end < len(points); end++ {
		if !runIsCollinear(points[start:end+1], tolerance) {
			out = append(out, points[end-1])
			start = end - 1
		}
	}
	out = append(out, points[len(points)-1])
	return out
}

func runIsCollinear(run []Point2D, tolerance float64) bool {
	origin, dir, ok := FitLine(run)
	if !ok {
		// Coincident points trivially collapse.
		return true
	}
	for _, p := range run {
		dx := p.X - origin.X
		dy := p.Y - origin.Y
		// Perpendicular distance to the fitted line.
		if math.Abs(dx*dir.Y-dy*dir.X) > tolerance {
			return false
		}
	}
	return true
}
