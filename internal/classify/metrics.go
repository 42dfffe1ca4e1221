package classify

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Confusion is a confusion matrix: rows are true labels, columns predicted
// labels, both indexed by Labels.
type Confusion struct {
	Labels []string
	Counts *mat.Dense
}

// NewConfusion tallies truth against pred. Labels is the sorted union of
// both slices.
func NewConfusion(truth, pred []string) (*Confusion, error) {
	if len(truth) != len(pred) {
		return nil, fmt.Errorf("confusion: %d truths, %d predictions", len(truth), len(pred))
	}
	seen := make(map[string]bool)
	for _, l := range truth {
		seen[l] = true
	}
	for _, l := range pred {
		seen[l] = true
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	c := &Confusion{Labels: labels}
	if len(labels) == 0 {
		return c, nil
	}
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	c.Counts = mat.NewDense(len(labels), len(labels), nil)
	for i := range truth {
		r, col := pos[truth[i]], pos[pred[i]]
		c.Counts.Set(r, col, c.Counts.At(r, col)+1)
	}
	return c, nil
}

// At returns how often truth was predicted as pred.
func (c *Confusion) At(truth, pred string) int {
	r, col := c.index(truth), c.index(pred)
	if r < 0 || col < 0 {
		return 0
	}
	return int(c.Counts.At(r, col))
}

func (c *Confusion) index(label string) int {
	i := sort.SearchStrings(c.Labels, label)
	if i < len(c.Labels) && c.Labels[i] == label {
		return i
	}
	return -1
}

// Total returns the number of tallied samples.
func (c *Confusion) Total() int {
	if c.Counts == nil {
		return 0
	}
	return int(mat.Sum(c.Counts))
}

// Correct returns the trace of the matrix.
func (c *Confusion) Correct() int {
	if c.Counts == nil {
		return 0
	}
	return int(mat.Trace(c.Counts))
}

func (c *Confusion) String() string {
	if c.Counts == nil {
		return "(empty)\n"
	}
	var sb strings.Builder
	sb.WriteString("\t")
	sb.WriteString(strings.Join(c.Labels, "\t"))
	sb.WriteString("\n")
	for i, l := range c.Labels {
		sb.WriteString(l)
		for j := range c.Labels {
			fmt.Fprintf(&sb, "\t%d", int(c.Counts.At(i, j)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// WeightedAccuracy is accuracy with each sample weighted by
// n / (labels * count(label)) over the true labels, so every label
// contributes equally regardless of frequency. Empty input scores 0.
func WeightedAccuracy(truth, pred []string) float64 {
	if len(truth) == 0 || len(truth) != len(pred) {
		return 0
	}
	counts := make(map[string]int)
	for _, l := range truth {
		counts[l]++
	}
	n, k := float64(len(truth)), float64(len(counts))

	var hit, total float64
	for i, l := range truth {
		w := n / (k * float64(counts[l]))
		total += w
		if pred[i] == l {
			hit += w
		}
	}
	return hit / total
}
