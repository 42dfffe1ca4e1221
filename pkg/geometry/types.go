// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"image"
)

// Pixel is an integer raster coordinate in (row, col) order.
type Pixel struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Add returns the pixel offset by another pixel.
func (p Pixel) Add(other Pixel) Pixel {
	return Pixel{Row: p.Row + other.Row, Col: p.Col + other.Col}
}

// Complex returns row + i*col.
func (p Pixel) Complex() complex128 {
	return complex(float64(p.Row), float64(p.Col))
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle converts to an image.Rectangle.
func (r RectInt) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the rectangle has no area.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clamp returns r limited to a rows x cols raster.
func (r RectInt) Clamp(rows, cols int) RectInt {
	x0 := max(0, r.X)
	y0 := max(0, r.Y)
	x1 := min(cols, r.X+r.Width)
	y1 := min(rows, r.Y+r.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
