package overlay

import (
	"image"
	"image/color"
	"strconv"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/tool"
	"github.com/balamernstackdev/latest-paint-visualizer/internal/view"
)

// Feedback palette. Tracks the application theme: teal for in-progress
// shapes, amber for the selected one.
var (
	outlineColor  = color.RGBA{R: 0x00, G: 0x96, B: 0x88, A: 0xff}
	selectedColor = color.RGBA{R: 0xff, G: 0xc1, B: 0x07, A: 0xff}
	handleColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelColor    = color.RGBA{A: 0xff}
)

const (
	handleHalf  = 5 // corner handle half-side, visual px
	vertexHalf  = 4
	closeRadius = 10 // first-vertex close indicator ring
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9, used for box
// index labels. Each digit is 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// renderFeedback draws the in-progress geometry of the active tool into a
// viewport-resolution RGBA buffer. Returns nil when there is nothing to
// draw.
func renderFeedback(vt view.ViewTransform, snap tool.Snapshot) *image.RGBA {
	w, h := int(vt.Viewport.Width), int(vt.Viewport.Height)
	if w <= 0 || h <= 0 || !vt.Valid() {
		return nil
	}

	switch snap.Kind {
	case tool.KindBox:
		if len(snap.Boxes) == 0 {
			return nil
		}
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		drawBoxes(out, vt, snap)
		return out
	case tool.KindPolygon, tool.KindFreehand:
		if len(snap.Vertices) == 0 {
			return nil
		}
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		drawRing(out, vt, snap)
		return out
	}
	return nil
}

// drawBoxes renders every pending box: dashed outline, an index label in
// the center, and corner handles on the selected one.
func drawBoxes(out *image.RGBA, vt view.ViewTransform, snap tool.Snapshot) {
	for i, b := range snap.Boxes {
		tl, ok1 := vt.ToVisual(b.Rect.TopLeft())
		br, ok2 := vt.ToVisual(b.Rect.BottomRight())
		if !ok1 || !ok2 {
			continue
		}
		ox, oy := vt.Viewport.X, vt.Viewport.Y
		x1, y1 := int(tl.X-ox), int(tl.Y-oy)
		x2, y2 := int(br.X-ox), int(br.Y-oy)

		col := outlineColor
		if i == snap.Selected {
			col = selectedColor
		}
		dashedRect(out, x1, y1, x2, y2, col)

		if i == snap.Selected {
			fillSquare(out, x1, y1, handleHalf, handleColor)
			fillSquare(out, x2, y1, handleHalf, handleColor)
			fillSquare(out, x1, y2, handleHalf, handleColor)
			fillSquare(out, x2, y2, handleHalf, handleColor)
		}

		drawDigits(out, strconv.Itoa(i+1), (x1+x2)/2, (y1+y2)/2, 2, labelColor)
	}
}

// drawRing renders a polygon or freehand path: edges, vertex markers, and
// for an open ring that could be closed, a ring around the first vertex.
func drawRing(out *image.RGBA, vt view.ViewTransform, snap tool.Snapshot) {
	ox, oy := vt.Viewport.X, vt.Viewport.Y

	pts := make([]image.Point, 0, len(snap.Vertices))
	for _, v := range snap.Vertices {
		p, ok := vt.ToVisual(v)
		if !ok {
			return
		}
		pts = append(pts, image.Pt(int(p.X-ox), int(p.Y-oy)))
	}

	for i := 0; i+1 < len(pts); i++ {
		drawLine(out, pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, outlineColor, 2)
	}
	if snap.Closed && len(pts) >= 3 {
		last := pts[len(pts)-1]
		drawLine(out, last.X, last.Y, pts[0].X, pts[0].Y, outlineColor, 2)
	}

	for _, p := range pts {
		fillSquare(out, p.X, p.Y, vertexHalf, handleColor)
	}

	if !snap.Closed && len(pts) >= 3 {
		drawCircleOutline(out, pts[0].X, pts[0].Y, closeRadius, selectedColor)
	}
}

// dashedRect draws a dashed rectangle outline (alternate pixels).
func dashedRect(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := out.Bounds()
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			out.Set(x, y1, col)
		}
		if (x+y2)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			out.Set(x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			out.Set(x1, y, col)
		}
		if (x2+y)%4 < 2 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			out.Set(x2, y, col)
		}
	}
}

// fillSquare fills a square of the given half-side centered at (cx, cy).
func fillSquare(out *image.RGBA, cx, cy, half int, col color.RGBA) {
	bounds := out.Bounds()
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				out.Set(x, y, col)
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := out.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					out.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawCircleOutline draws a 2px ring centered at (cx, cy).
func drawCircleOutline(out *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := out.Bounds()
	fr := float64(r)
	r2 := fr * fr
	innerR2 := (fr - 2) * (fr - 2)

	for y := cy - r - 1; y <= cy+r+1; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r - 1; x <= cx+r+1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			ddx := float64(x - cx)
			ddy := float64(y - cy)
			dist2 := ddx*ddx + ddy*ddy
			if dist2 <= r2 && dist2 >= innerR2 {
				out.Set(x, y, col)
			}
		}
	}
}

// drawDigits draws a numeric label centered at (cx, cy) with the 3x5 font.
func drawDigits(out *image.RGBA, label string, cx, cy, scale int, col color.RGBA) {
	if scale < 1 {
		scale = 1
	}
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	labelWidth := len(label)*charWidth + (len(label)-1)*spacing

	startX := cx - labelWidth/2
	startY := cy - charHeight/2
	bounds := out.Bounds()

	for i, ch := range label {
		if ch < '0' || ch > '9' {
			continue
		}
		pattern := digitPatterns[ch-'0']
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							out.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}
