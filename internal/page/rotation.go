// Package page de-skews scanned text pages and segments them into lines,
// words and letter images.
package page

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"glyph-ocr/internal/profile"

	"gocv.io/x/gocv"
)

// RotationParams holds the skew estimation constants.
type RotationParams struct {
	// Blur merges the letters of a line into one band.
	BlurKernel int `json:"blur_kernel"`
	// Spectrum peaks closer than DCRadius or farther than MaxRadius from the
	// centre are ignored.
	DCRadius  int `json:"dc_radius"`
	MaxRadius int `json:"max_radius"`
	// Refinement sweeps [-RefineRange, RefineRange) degrees in RefineStep.
	RefineRange float64 `json:"refine_range"`
	RefineStep  float64 `json:"refine_step"`
}

// DefaultRotationParams returns the standard skew estimation constants.
func DefaultRotationParams() RotationParams {
	return RotationParams{
		BlurKernel:  15,
		DCRadius:    5,
		MaxRadius:   200,
		RefineRange: 1,
		RefineStep:  0.05,
	}
}

// FindRotationAngle estimates the skew of a text page in degrees. The
// coarse angle comes from the strongest line-spacing frequency in the
// spectrum of the blurred page; it is refined by choosing the rotation whose
// row projection has the sharpest transitions.
func FindRotationAngle(src gocv.Mat, p RotationParams) (float64, error) {
	gray, err := toGray(src)
	if err != nil {
		return 0, err
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(p.BlurKernel, p.BlurKernel), 0, 0, gocv.BorderDefault)

	angle := spectrumAngle(blurred, p)

	best, bestScore := angle, math.Inf(-1)
	for delta := -p.RefineRange; delta < p.RefineRange-1e-9; delta += p.RefineStep {
		rotated := Rotate(gray, -angle+delta)
		score := profile.AbsGradientSum(RowProfile(rotated))
		rotated.Close()
		if score > bestScore {
			best, bestScore = angle-delta, score
		}
	}
	return best, nil
}

// spectrumAngle finds the peak of the log magnitude spectrum in the right
// half plane and converts its direction to a skew angle.
func spectrumAngle(gray gocv.Mat, p RotationParams) float64 {
	f := gocv.NewMat()
	defer f.Close()
	gray.ConvertTo(&f, gocv.MatTypeCV32F)

	spectrum := gocv.NewMat()
	defer spectrum.Close()
	gocv.DFT(f, &spectrum, gocv.DftComplexOutput)

	planes := gocv.Split(spectrum)
	defer func() {
		for _, pl := range planes {
			pl.Close()
		}
	}()
	mag := gocv.NewMat()
	defer mag.Close()
	gocv.Magnitude(planes[0], planes[1], &mag)

	h, w := mag.Rows(), mag.Cols()
	cy, cx := h/2, w/2
	dc2, max2 := p.DCRadius*p.DCRadius, p.MaxRadius*p.MaxRadius

	peakRow, peakCol, peak := cy, cx, math.Inf(-1)
	for r := 0; r < h; r++ {
		for c := cx; c < w; c++ {
			dy, dx := r-cy, c-cx
			d2 := dy*dy + dx*dx
			if d2 <= dc2 || d2 > max2 {
				continue
			}
			// fftshift: shifted (r, c) reads unshifted ((r-cy) mod h, (c-cx) mod w).
			m := float64(mag.GetFloatAt((r-cy+h)%h, (c-cx+w)%w))
			if m <= 0 {
				continue
			}
			if v := 20 * math.Log(m); v > peak {
				peakRow, peakCol, peak = r, c, v
			}
		}
	}

	switch {
	case peakRow == cy:
		return 90
	case peakCol == cx:
		return 0
	}
	a := math.Atan(float64(peakRow-cy) / float64(peakCol-cx))
	if a >= 0 {
		return 90 - a*180/math.Pi
	}
	return -a*180/math.Pi - 90
}

// Rotate rotates src by angle degrees (counter-clockwise) onto a canvas
// large enough to hold the whole result, filling the border with white.
// The caller owns the returned Mat.
func Rotate(src gocv.Mat, angle float64) gocv.Mat {
	h := src.Rows()
	w := src.Cols()

	center := image.Point{X: w / 2, Y: h / 2}
	rotMat := gocv.GetRotationMatrix2D(center, angle, 1.0)
	defer rotMat.Close()

	cos := math.Abs(rotMat.GetDoubleAt(0, 0))
	sin := math.Abs(rotMat.GetDoubleAt(0, 1))
	newW := int(float64(h)*sin + float64(w)*cos)
	newH := int(float64(h)*cos + float64(w)*sin)

	rotMat.SetDoubleAt(0, 2, rotMat.GetDoubleAt(0, 2)+float64(newW-w)/2)
	rotMat.SetDoubleAt(1, 2, rotMat.GetDoubleAt(1, 2)+float64(newH-h)/2)

	rotated := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &rotated, rotMat, image.Point{X: newW, Y: newH},
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return rotated
}

// Deskew estimates the skew of src and returns a straightened copy along
// with the angle found.
func Deskew(src gocv.Mat, p RotationParams) (gocv.Mat, float64, error) {
	angle, err := FindRotationAngle(src, p)
	if err != nil {
		return gocv.NewMat(), 0, fmt.Errorf("find rotation: %w", err)
	}
	return Rotate(src, -angle), angle, nil
}

func toGray(src gocv.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()
	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 3:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	default:
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", src.Channels())
	}
	return gray, nil
}

// RowProfile sums a single-channel Mat along each row.
func RowProfile(m gocv.Mat) []float64 {
	sums := gocv.NewMat()
	defer sums.Close()
	gocv.Reduce(m, &sums, 1, gocv.ReduceSum, gocv.MatTypeCV64F)
	out := make([]float64, sums.Rows())
	for i := range out {
		out[i] = sums.GetDoubleAt(i, 0)
	}
	return out
}

// ColProfile sums a single-channel Mat down each column.
func ColProfile(m gocv.Mat) []float64 {
	sums := gocv.NewMat()
	defer sums.Close()
	gocv.Reduce(m, &sums, 0, gocv.ReduceSum, gocv.MatTypeCV64F)
	out := make([]float64, sums.Cols())
	for i := range out {
		out[i] = sums.GetDoubleAt(0, i)
	}
	return out
}
