// Package descriptor reduces a contour to a Fourier magnitude signature and
// resamples signatures to a fixed length.
package descriptor

import (
	"errors"
	"fmt"
	"math/cmplx"

	"glyph-ocr/internal/contour"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DefaultLength is the fixed number of samples per resampled descriptor.
const DefaultLength = 100

// ErrDegenerateContour is returned for contours too short to leave any
// coefficient after the DC term is dropped.
var ErrDegenerateContour = errors.New("contour needs at least 2 points")

// DegenerateContourError carries the offending contour length.
type DegenerateContourError struct {
	Length int
}

func (e *DegenerateContourError) Error() string {
	return fmt.Sprintf("contour of length %d: needs at least 2 points", e.Length)
}

// Is matches ErrDegenerateContour.
func (e *DegenerateContourError) Is(target error) bool {
	return target == ErrDegenerateContour
}

// Compute returns |DFT(z)|[1:] for z[i] = row[i] + j*col[i] in trace order.
// Dropping the DC term removes the dependence on absolute position. The
// result has len(c)-1 entries.
func Compute(c contour.Contour) ([]float64, error) {
	if len(c) < 2 {
		return nil, &DegenerateContourError{Length: len(c)}
	}

	seq := make([]complex128, len(c))
	for i, p := range c {
		seq[i] = p.Complex()
	}

	coeff := fourier.NewCmplxFFT(len(seq)).Coefficients(nil, seq)

	out := make([]float64, len(coeff)-1)
	for i, z := range coeff[1:] {
		out[i] = cmplx.Abs(z)
	}
	return out, nil
}
