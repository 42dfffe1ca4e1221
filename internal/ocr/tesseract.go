// Package ocr provides a Tesseract baseline reader used to compare against
// the glyph classifier on the same page.
package ocr

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"glyph-ocr/internal/transcript"
	"glyph-ocr/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Engine provides OCR functionality using Tesseract.
type Engine struct {
	client    *gosseract.Client
	whitelist string
}

// NewEngine creates a new OCR engine for the given Tesseract language.
func NewEngine(language string) (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// The baseline should read glyphs, not guess words.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// SetWhitelist restricts recognition to the given characters. An empty
// string lifts the restriction.
func (e *Engine) SetWhitelist(chars string) {
	e.whitelist = chars
}

// Alphabet returns the distinct characters of a transcript in sorted order,
// suitable for SetWhitelist.
func Alphabet(doc transcript.Document) string {
	seen := make(map[string]bool)
	for _, line := range doc {
		for _, word := range line {
			for _, c := range word {
				seen[c] = true
			}
		}
	}
	chars := make([]string, 0, len(seen))
	for c := range seen {
		chars = append(chars, c)
	}
	sort.Strings(chars)
	return strings.Join(chars, "")
}

// prepare hands the binarized page to tesseract and returns the factor the
// page was upscaled by.
func (e *Engine) prepare(img gocv.Mat, mode gosseract.PageSegMode) (float64, error) {
	if img.Empty() {
		return 0, fmt.Errorf("empty image")
	}

	processed, scale := preprocessForOCR(img)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return 0, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(mode); err != nil {
		return 0, fmt.Errorf("failed to set PSM: %w", err)
	}
	if e.whitelist != "" {
		if err := e.client.SetWhitelist(e.whitelist); err != nil {
			return 0, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return 0, fmt.Errorf("failed to set image: %w", err)
	}
	return scale, nil
}

// ReadPage recognizes a whole page as a block of text lines.
func (e *Engine) ReadPage(img gocv.Mat) (transcript.Document, error) {
	if _, err := e.prepare(img, gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, err
	}
	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	return transcript.Parse(text), nil
}

// Result represents a single OCR detection result.
type Result struct {
	Text       string
	Bounds     geometry.RectInt
	Confidence float64
}

// DetectWords finds and recognizes every word on a page. Bounds are in the
// coordinates of img.
func (e *Engine) DetectWords(img gocv.Mat) ([]Result, error) {
	scale, err := e.prepare(img, gosseract.PSM_SPARSE_TEXT)
	if err != nil {
		return nil, err
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}
	return wordResults(boxes, scale, img.Rows(), img.Cols()), nil
}

// wordResults maps tesseract word boxes from the upscaled OCR image back to
// a rows x cols page. Blank words and boxes that fall off the page are
// dropped.
func wordResults(boxes []gosseract.BoundingBox, scale float64, rows, cols int) []Result {
	if scale <= 0 {
		scale = 1
	}
	var results []Result
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		x0 := int(math.Floor(float64(box.Box.Min.X) / scale))
		y0 := int(math.Floor(float64(box.Box.Min.Y) / scale))
		x1 := int(math.Ceil(float64(box.Box.Max.X) / scale))
		y1 := int(math.Ceil(float64(box.Box.Max.Y) / scale))
		bounds := geometry.RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}.Clamp(rows, cols)
		if bounds.Empty() {
			continue
		}
		results = append(results, Result{Text: text, Bounds: bounds, Confidence: box.Confidence})
	}
	return results
}

// preprocessForOCR binarizes a page as dark text on a light background and
// reports the upscale factor applied to small pages.
func preprocessForOCR(src gocv.Mat) (gocv.Mat, float64) {
	gray := gocv.NewMat()
	defer gray.Close()
	if src.Channels() == 1 {
		src.CopyTo(&gray)
	} else {
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	}

	// Upscale small pages (target ~150px minimum side)
	scale := 1.0
	if minDim := min(gray.Rows(), gray.Cols()); minDim < 150 {
		scale = 150.0 / float64(minDim)
		gocv.Resize(gray, &gray, image.Point{}, scale, scale, gocv.InterpolationCubic)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	if white := gocv.CountNonZero(binary); white < binary.Rows()*binary.Cols()/2 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	return result, scale
}
