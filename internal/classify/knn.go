// Package classify trains and evaluates the per-class nearest-neighbour
// classifiers and keeps the trained set for inference.
package classify

import (
	"errors"
	"fmt"
	"sort"

	"glyph-ocr/internal/dataset"

	"gonum.org/v1/gonum/floats"
)

// ErrNotFitted is returned when predicting with a classifier that holds no
// training rows.
var ErrNotFitted = errors.New("classifier has no training data")

// Classifier is a k-nearest-neighbour classifier over Euclidean distance.
type Classifier struct {
	K      int         `json:"k"`
	Points [][]float64 `json:"points"`
	Labels []string    `json:"labels"`
}

// Fit stores the training rows. k < 1 is treated as 1.
func Fit(rows []dataset.Row, k int) *Classifier {
	if k < 1 {
		k = 1
	}
	c := &Classifier{
		K:      k,
		Points: make([][]float64, len(rows)),
		Labels: make([]string, len(rows)),
	}
	for i, r := range rows {
		c.Points[i] = r.Features
		c.Labels[i] = r.Label
	}
	return c
}

// Dim returns the feature width, or 0 for an empty classifier.
func (c *Classifier) Dim() int {
	if len(c.Points) == 0 {
		return 0
	}
	return len(c.Points[0])
}

type neighbour struct {
	index int
	dist  float64
}

// Predict returns the label voted by the K nearest training rows. Equal
// distances keep training order. Vote ties go to the label whose member
// ranks nearest.
func (c *Classifier) Predict(x []float64) (string, error) {
	if len(c.Points) == 0 {
		return "", ErrNotFitted
	}
	if len(x) != c.Dim() {
		return "", fmt.Errorf("feature width %d, classifier expects %d", len(x), c.Dim())
	}

	if c.K == 1 {
		best, bestDist := 0, floats.Distance(x, c.Points[0], 2)
		for i := 1; i < len(c.Points); i++ {
			if d := floats.Distance(x, c.Points[i], 2); d < bestDist {
				best, bestDist = i, d
			}
		}
		return c.Labels[best], nil
	}

	ns := make([]neighbour, len(c.Points))
	for i, p := range c.Points {
		ns[i] = neighbour{index: i, dist: floats.Distance(x, p, 2)}
	}
	sort.SliceStable(ns, func(a, b int) bool { return ns[a].dist < ns[b].dist })
	if len(ns) > c.K {
		ns = ns[:c.K]
	}

	votes := make(map[string]int)
	top := 0
	for _, n := range ns {
		votes[c.Labels[n.index]]++
		top = max(top, votes[c.Labels[n.index]])
	}
	for _, n := range ns {
		if l := c.Labels[n.index]; votes[l] == top {
			return l, nil
		}
	}
	return c.Labels[ns[0].index], nil
}

// PredictRows predicts a label for each row's features.
func (c *Classifier) PredictRows(rows []dataset.Row) ([]string, error) {
	out := make([]string, len(rows))
	for i, r := range rows {
		l, err := c.Predict(r.Features)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = l
	}
	return out, nil
}
