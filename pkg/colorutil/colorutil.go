// Package colorutil provides shared color utilities for glyph rendering and
// page cleanup.
package colorutil

import (
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ContourPalette colors successive contours of one glyph.
var ContourPalette = []color.RGBA{Red, Blue, Green, Magenta, Cyan, Yellow}

// ContourColor returns the palette color for the i-th contour.
func ContourColor(i int) color.RGBA {
	return ContourPalette[i%len(ContourPalette)]
}

// IsPrintInk reports whether every channel is below limit, i.e. the pixel is
// a dark, unsaturated print pixel rather than a colored mark.
func IsPrintInk(r, g, b, limit uint8) bool {
	return r < limit && g < limit && b < limit
}
