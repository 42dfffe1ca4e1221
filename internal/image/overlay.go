package image

import (
	"image"
	"image/color"
	"image/draw"

	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/glyph"
	"glyph-ocr/pkg/colorutil"
)

// RenderContours draws a mask in light gray with each contour of set painted
// on top in its palette color, scaled up by an integer factor so single
// pixels stay visible.
func RenderContours(m *glyph.Mask, set contour.Set, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, m.Cols*scale, m.Rows*scale))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: colorutil.White}, image.Point{}, draw.Src)

	skeleton := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			if m.IsInk(y, x) {
				fillCell(out, y, x, scale, skeleton)
			}
		}
	}

	for i, c := range set {
		col := colorutil.ContourColor(i)
		for _, p := range c {
			fillCell(out, p.Row, p.Col, scale, col)
		}
		if len(c) > 0 {
			// Start point in black.
			fillCell(out, c[0].Row, c[0].Col, scale, colorutil.Black)
		}
	}
	return out
}

func fillCell(img *image.RGBA, row, col, scale int, c color.RGBA) {
	r := image.Rect(col*scale, row*scale, (col+1)*scale, (row+1)*scale)
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}
