// Package profile finds cut positions in intensity projection profiles. A
// profile is the sum of ink intensity along one image axis.
package profile

import (
	"gonum.org/v1/gonum/floats"
)

// Span is a half-open index range [Start, End).
type Span struct {
	Start, End int
}

// Len returns End - Start.
func (s Span) Len() int {
	return s.End - s.Start
}

// Rises returns every index i+1 where p[i] is zero and p[i+1] is not: the
// first index of each inked run that follows a blank one.
func Rises(p []float64) []int {
	var out []int
	for i := 0; i+1 < len(p); i++ {
		if p[i] == 0 && p[i+1] != 0 {
			out = append(out, i+1)
		}
	}
	return out
}

// Falls returns every index i+1 where p[i] is positive and p[i+1] is not:
// the first blank index after each inked run.
func Falls(p []float64) []int {
	var out []int
	for i := 0; i+1 < len(p); i++ {
		if p[i] > 0 && p[i+1] <= 0 {
			out = append(out, i+1)
		}
	}
	return out
}

// Lines splits a row profile of a page into text lines. Each line runs from
// one rise to the next, widened upward by lead; the last line runs from the
// last rise for tail rows. Ink in row 0 counts as a rise. Spans are clamped to the profile and empty or
// blank spans are skipped.
func Lines(p []float64, lead, tail int) []Span {
	rises := Rises(p)
	if len(p) > 0 && p[0] != 0 {
		rises = append([]int{0}, rises...)
	}
	var out []Span
	for i, r := range rises {
		end := r + tail
		if i+1 < len(rises) {
			end = rises[i+1]
		}
		out = appendInked(out, p, r-lead, end)
	}
	return out
}

// Cuts splits a column profile at each fall. Segment i runs from fall i-1
// (0 for the first) to fall i plus pad. Columns after the last fall are not
// part of any segment.
func Cuts(p []float64, pad int) []Span {
	var out []Span
	prev := 0
	for _, f := range Falls(p) {
		out = appendInked(out, p, prev, f+pad)
		prev = f
	}
	return out
}

func appendInked(out []Span, p []float64, start, end int) []Span {
	start = max(start, 0)
	end = min(end, len(p))
	if end <= start || floats.Max(p[start:end]) <= 0 {
		return out
	}
	return append(out, Span{start, end})
}

// CropRow returns how many leading rows of a letter to keep. It finds the
// first gap longer than gap between consecutive blank rows, takes the blank
// row that ends it (the second blank row when there is no such gap) and
// adds margin. Letters without blank rows are kept whole.
func CropRow(p []float64, gap, margin int) int {
	var blank []int
	for i, v := range p {
		if v == 0 {
			blank = append(blank, i)
		}
	}
	if len(blank) == 0 {
		return len(p)
	}
	pos := 1
	for i := 0; i+1 < len(blank); i++ {
		if blank[i+1]-blank[i] > gap {
			pos = i + 1
			break
		}
	}
	if pos >= len(blank) {
		pos = len(blank) - 1
	}
	return min(blank[pos]+margin, len(p))
}

// AbsGradientSum returns the sum of |gradient| of p, using central
// differences inside and one-sided differences at the ends.
func AbsGradientSum(p []float64) float64 {
	n := len(p)
	if n < 2 {
		return 0
	}
	g := make([]float64, n)
	g[0] = p[1] - p[0]
	g[n-1] = p[n-1] - p[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (p[i+1] - p[i-1]) / 2
	}
	return floats.Norm(g, 1)
}
