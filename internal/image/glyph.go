package image

import (
	"fmt"
	"image"

	"glyph-ocr/internal/glyph"

	"gocv.io/x/gocv"
)

// GlyphParams holds the tunable preprocessing constants applied to a letter image
// before boundary tracing. The sequence of operations is fixed; only the
// constants vary.
type GlyphParams struct {
	// Canvas side in pixels; every glyph is resized to Canvas x Canvas.
	Canvas int `json:"canvas"`

	// Gaussian blur kernel (odd).
	BlurKernel int `json:"blur_kernel"`

	// Min-max contrast stretch range. Values outside 0..255 saturate.
	NormAlpha float64 `json:"norm_alpha"`
	NormBeta  float64 `json:"norm_beta"`

	// Morphological gradient kernel side.
	GradientKernel int `json:"gradient_kernel"`

	// Binary cutoff applied to the gradient.
	Threshold float32 `json:"threshold"`
}

// DefaultGlyphParams returns the constants the classifier was tuned with.
func DefaultGlyphParams() GlyphParams {
	return GlyphParams{
		Canvas:         glyph.CanvasSize,
		BlurKernel:     5,
		NormAlpha:      -200,
		NormBeta:       500,
		GradientKernel: 3,
		Threshold:      35,
	}
}

// PreprocessGlyph turns a letter image (white ink on black, as produced by page
// segmentation) into a skeletonized boundary mask with ink = 0 on a 255
// background:
//
//	resize -> gaussian blur -> min-max normalize -> (dilate - original)
//	-> threshold -> skeletonize -> invert
func PreprocessGlyph(src gocv.Mat, p GlyphParams) (*glyph.Mask, error) {
	if src.Empty() {
		return nil, fmt.Errorf("empty glyph image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 3:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	default:
		return nil, fmt.Errorf("unsupported channel count %d", src.Channels())
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(gray, &resized, image.Pt(p.Canvas, p.Canvas), 0, 0, gocv.InterpolationLinear)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(resized, &blurred, image.Pt(p.BlurKernel, p.BlurKernel), 0, 0, gocv.BorderDefault)

	normalized := gocv.NewMat()
	defer normalized.Close()
	gocv.Normalize(blurred, &normalized, p.NormAlpha, p.NormBeta, gocv.NormMinMax)

	kernel := gocv.Ones(p.GradientKernel, p.GradientKernel, gocv.MatTypeCV8U)
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(normalized, &dilated, kernel)

	gradient := gocv.NewMat()
	defer gradient.Close()
	gocv.Subtract(dilated, normalized, &gradient)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gradient, &binary, p.Threshold, 255, gocv.ThresholdBinary)

	edges, err := MatToMask(binary)
	if err != nil {
		return nil, fmt.Errorf("read gradient mask: %w", err)
	}

	skel := glyph.Skeletonize(edges)
	skel.Invert()
	return skel, nil
}
