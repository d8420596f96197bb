package refine

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// NewGradientFieldCV computes gradient magnitudes with an OpenCV Sobel
// filter. Falls back to the pure Go field on conversion failure so the
// caller never has to branch.
func NewGradientFieldCV(img image.Image) (*GradientField, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV16S, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV16S, 0, 1, 3, 1, 0, gocv.BorderDefault)

	absX := gocv.NewMat()
	defer absX.Close()
	absY := gocv.NewMat()
	defer absY.Close()
	gocv.ConvertScaleAbs(gx, &absX, 1, 0)
	gocv.ConvertScaleAbs(gy, &absY, 1, 0)

	grad := gocv.NewMat()
	defer grad.Close()
	gocv.AddWeighted(absX, 0.5, absY, 0.5, 0, &grad)

	w, h := grad.Cols(), grad.Rows()
	f := &GradientField{w: w, h: h, mag: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.mag[y*w+x] = float64(grad.GetUCharAt(y, x))
		}
	}
	return f, nil
}
