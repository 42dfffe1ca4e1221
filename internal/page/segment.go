package page

import (
	"fmt"
	"image"

	"glyph-ocr/internal/profile"
	"glyph-ocr/pkg/colorutil"

	"gocv.io/x/gocv"
)

// SegmentParams holds the page segmentation constants.
type SegmentParams struct {
	// Scale resizes the page before segmentation.
	Scale float64 `json:"scale"`
	// WordBlur is the blur applied to a line before cutting it into words,
	// in page pixels before scaling.
	WordBlur int `json:"word_blur"`
	// Pixels with any channel at or above ColorLimit are treated as
	// background.
	ColorLimit uint8 `json:"color_limit"`
	// Ink fainter than PaleCut is dropped before cutting words into letters.
	PaleCut uint8 `json:"pale_cut"`
	// LetterPad widens each letter to the right.
	LetterPad int `json:"letter_pad"`
}

// DefaultSegmentParams returns the standard segmentation constants.
func DefaultSegmentParams() SegmentParams {
	return SegmentParams{
		Scale:      3.5,
		WordBlur:   34,
		ColorLimit: 220,
		PaleCut:    135,
		LetterPad:  5,
	}
}

// wordKernel returns the odd blur kernel side for word cutting.
func (p SegmentParams) wordKernel() int {
	k := int(float64(p.WordBlur) * p.Scale)
	if k < 1 {
		k = 1
	}
	return k | 1
}

// Letters is a segmented page: lines -> words -> letter images. Letter
// images are single channel with ink bright on black.
type Letters [][][]gocv.Mat

// Count returns the number of letter images.
func (l Letters) Count() int {
	n := 0
	for _, line := range l {
		for _, word := range line {
			n += len(word)
		}
	}
	return n
}

// Close releases every letter image.
func (l Letters) Close() {
	for _, line := range l {
		for _, word := range line {
			for i := range word {
				word[i].Close()
			}
		}
	}
}

// Segment cuts a straightened BGR page into letter images. Lines are found
// from the row projection, words from the column projection of a blurred
// line, letters from the column projection of each word after pale ink is
// dropped.
func Segment(src gocv.Mat, p SegmentParams) (Letters, error) {
	if src.Empty() {
		return nil, fmt.Errorf("empty page")
	}
	clean, err := DropColor(src, p.ColorLimit)
	if err != nil {
		return nil, err
	}
	defer clean.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(clean, &scaled, image.Point{}, p.Scale, p.Scale, gocv.InterpolationLinear)

	gray, err := toGray(scaled)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	normalized := gocv.NewMat()
	defer normalized.Close()
	gocv.Normalize(gray, &normalized, 0, 255, gocv.NormMinMax)

	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(normalized, &inverted)

	rows, cols := inverted.Rows(), inverted.Cols()
	var letters Letters
	for _, ls := range profile.Lines(RowProfile(inverted), rows/250, rows/30) {
		line := inverted.Region(image.Rect(0, ls.Start, cols, ls.End))
		words := segmentLine(line, p)
		line.Close()
		letters = append(letters, words)
	}
	return letters, nil
}

func segmentLine(line gocv.Mat, p SegmentParams) [][]gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	k := p.wordKernel()
	gocv.GaussianBlur(line, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	var words [][]gocv.Mat
	for _, ws := range profile.Cuts(ColProfile(blurred), 0) {
		region := line.Region(image.Rect(ws.Start, 0, ws.End, line.Rows()))
		word := gocv.NewMat()
		gocv.Threshold(region, &word, float32(p.PaleCut)-1, 255, gocv.ThresholdToZero)
		region.Close()
		words = append(words, segmentWord(word, p))
		word.Close()
	}
	return words
}

func segmentWord(word gocv.Mat, p SegmentParams) []gocv.Mat {
	var out []gocv.Mat
	for _, cs := range profile.Cuts(ColProfile(word), p.LetterPad) {
		region := word.Region(image.Rect(cs.Start, 0, min(cs.End, word.Cols()), word.Rows()))
		out = append(out, region.Clone())
		region.Close()
	}
	return out
}

// DropColor returns a copy of a BGR page where every pixel that is not dark
// in all channels is set to white, removing coloured marks and pale noise.
func DropColor(src gocv.Mat, limit uint8) (gocv.Mat, error) {
	if src.Channels() != 3 {
		return gocv.NewMat(), fmt.Errorf("expected BGR page, got %d channels", src.Channels())
	}
	buf := src.ToBytes()
	for i := 0; i+2 < len(buf); i += 3 {
		if !colorutil.IsPrintInk(buf[i+2], buf[i+1], buf[i], limit) {
			buf[i], buf[i+1], buf[i+2] = 255, 255, 255
		}
	}
	out, err := gocv.NewMatFromBytes(src.Rows(), src.Cols(), gocv.MatTypeCV8UC3, buf)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("rebuild page: %w", err)
	}
	return out, nil
}
