package image

import "gocv.io/x/gocv"

// BlobRadius is the half-width of the synthetic square painted into blank
// letters (5x5 pixels).
const BlobRadius = 2

// IsBlank reports whether a single-channel letter image has no non-zero pixel.
func IsBlank(letter gocv.Mat) bool {
	return letter.Empty() || gocv.CountNonZero(letter) == 0
}

// PaintBlob fills a small centered square with 255 so that a blank letter
// still yields one connected ink region for the tracer.
func PaintBlob(letter *gocv.Mat) {
	rows, cols := letter.Rows(), letter.Cols()
	cy, cx := rows/2, cols/2
	for y := cy - BlobRadius; y <= cy+BlobRadius; y++ {
		for x := cx - BlobRadius; x <= cx+BlobRadius; x++ {
			if y < 0 || y >= rows || x < 0 || x >= cols {
				continue
			}
			letter.SetUCharAt(y, x, 255)
		}
	}
}
