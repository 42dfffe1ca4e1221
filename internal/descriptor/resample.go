package descriptor

import (
	"fmt"

	"glyph-ocr/internal/contour"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Resample linearly interpolates d onto n points evenly spaced over [0, 1],
// treating d's own samples as evenly spaced over [0, 1] too. A single-sample
// descriptor resamples to a constant vector; an empty one to zeros.
func Resample(d []float64, n int) []float64 {
	out := make([]float64, n)
	switch len(d) {
	case 0:
		return out
	case 1:
		for i := range out {
			out[i] = d[0]
		}
		return out
	}

	var pl interp.PiecewiseLinear
	// Span yields strictly increasing knots for len(d) >= 2, so Fit cannot fail.
	if err := pl.Fit(floats.Span(make([]float64, len(d)), 0, 1), d); err != nil {
		panic(fmt.Sprintf("descriptor: fit %d knots: %v", len(d), err))
	}

	if n == 1 {
		out[0] = pl.Predict(0)
		return out
	}
	for i, x := range floats.Span(make([]float64, n), 0, 1) {
		out[i] = pl.Predict(x)
	}
	return out
}

// Signature computes and resamples the descriptor of every contour in set
// and concatenates them in contour order, giving len(set)*n values.
func Signature(set contour.Set, n int) ([]float64, error) {
	sig := make([]float64, 0, len(set)*n)
	for i, c := range set {
		d, err := Compute(c)
		if err != nil {
			return nil, fmt.Errorf("contour %d: %w", i, err)
		}
		sig = append(sig, Resample(d, n)...)
	}
	return sig, nil
}
