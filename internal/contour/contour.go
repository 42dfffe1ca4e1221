// Package contour traces one-pixel-wide glyph skeletons into ordered
// coordinate paths.
package contour

import (
	"errors"
	"fmt"

	"glyph-ocr/pkg/geometry"
)

// Contour is an ordered pixel path in trace order. It is not necessarily
// closed.
type Contour []geometry.Pixel

// Len returns the number of points.
func (c Contour) Len() int { return len(c) }

// Translate returns a copy of c shifted by (dr, dc).
func (c Contour) Translate(dr, dc int) Contour {
	out := make(Contour, len(c))
	off := geometry.Pixel{Row: dr, Col: dc}
	for i, p := range c {
		out[i] = p.Add(off)
	}
	return out
}

// Set holds the contours of one glyph in tracer insertion order. The order
// is significant downstream: descriptors are concatenated in this order.
type Set []Contour

// Len returns the number of contours.
func (s Set) Len() int { return len(s) }

// Lengths returns the point count of each contour.
func (s Set) Lengths() []int {
	out := make([]int, len(s))
	for i, c := range s {
		out[i] = len(c)
	}
	return out
}

// ErrEmptyGlyph is returned when a mask holds no ink pixel to start from.
var ErrEmptyGlyph = errors.New("glyph mask has no ink pixels")

// EmptyGlyphError carries the size of the degenerate mask.
type EmptyGlyphError struct {
	Rows, Cols int
}

func (e *EmptyGlyphError) Error() string {
	return fmt.Sprintf("glyph mask %dx%d has no ink pixels", e.Cols, e.Rows)
}

// Is matches ErrEmptyGlyph.
func (e *EmptyGlyphError) Is(target error) bool {
	return target == ErrEmptyGlyph
}
