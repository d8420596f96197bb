package geometry

// PolygonArea returns the absolute area of a polygon via the shoelace formula.
func PolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	sum := 0.0
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		sum += (polygon[j].X + polygon[i].X) * (polygon[j].Y - polygon[i].Y)
		j = i
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
