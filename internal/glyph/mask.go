// Package glyph holds the per-letter raster model: a binary mask on a fixed
// canvas and the skeletonizer that thins it.
package glyph

import (
	"image"
	"image/color"

	"glyph-ocr/pkg/geometry"
)

const (
	// Ink is the intensity of a glyph stroke pixel in a traced mask.
	Ink uint8 = 0
	// Background is the intensity of every non-ink pixel.
	Background uint8 = 255

	// CanvasSize is the side of the square canvas every glyph is resized to.
	CanvasSize = 110
)

// Mask is a single-channel 8-bit raster stored row-major.
type Mask struct {
	Rows int
	Cols int
	Pix  []uint8
}

// NewMask creates a mask filled with Background.
func NewMask(rows, cols int) *Mask {
	m := &Mask{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols)}
	for i := range m.Pix {
		m.Pix[i] = Background
	}
	return m
}

// ParseMask builds a mask from text rows where '#' (or any char other than
// '.' and ' ') is ink. Handy for tests and debugging dumps.
func ParseMask(rows ...string) *Mask {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	m := NewMask(len(rows), cols)
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			if r[x] != '.' && r[x] != ' ' {
				m.Set(y, x, Ink)
			}
		}
	}
	return m
}

// At returns the intensity at (row, col).
func (m *Mask) At(row, col int) uint8 {
	return m.Pix[row*m.Cols+col]
}

// Set writes the intensity at (row, col).
func (m *Mask) Set(row, col int, v uint8) {
	m.Pix[row*m.Cols+col] = v
}

// IsInk reports whether (row, col) is an ink pixel.
func (m *Mask) IsInk(row, col int) bool {
	return m.At(row, col) == Ink
}

// InBounds reports whether (row, col) lies inside the mask.
func (m *Mask) InBounds(row, col int) bool {
	return row >= 0 && row < m.Rows && col >= 0 && col < m.Cols
}

// InkPixels returns all ink coordinates in row-major scan order.
func (m *Mask) InkPixels() []geometry.Pixel {
	var px []geometry.Pixel
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			if m.IsInk(y, x) {
				px = append(px, geometry.Pixel{Row: y, Col: x})
			}
		}
	}
	return px
}

// InkCount returns the number of ink pixels.
func (m *Mask) InkCount() int {
	n := 0
	for _, v := range m.Pix {
		if v == Ink {
			n++
		}
	}
	return n
}

// Invert flips every pixel value (255 - v).
func (m *Mask) Invert() {
	for i, v := range m.Pix {
		m.Pix[i] = 255 - v
	}
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	c := &Mask{Rows: m.Rows, Cols: m.Cols, Pix: make([]uint8, len(m.Pix))}
	copy(c.Pix, m.Pix)
	return c
}

// String renders the mask with '#' for ink and '.' for background.
func (m *Mask) String() string {
	b := make([]byte, 0, m.Rows*(m.Cols+1))
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			if m.IsInk(y, x) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

// Image renders the mask as a grayscale image.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			img.SetGray(x, y, color.Gray{Y: m.At(y, x)})
		}
	}
	return img
}
