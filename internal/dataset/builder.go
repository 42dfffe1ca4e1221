package dataset

import (
	"fmt"

	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/transcript"
)

// Layout holds the traced glyphs of one page as lines -> words -> letters.
type Layout [][][]contour.Set

// GlyphCount returns the number of letters in the layout.
func (l Layout) GlyphCount() int {
	n := 0
	for _, line := range l {
		for _, word := range line {
			n += len(word)
		}
	}
	return n
}

// Pair zips a traced page with its transcript. At every nesting level only
// the common prefix is used, so extra glyphs or characters on either side
// are ignored.
func Pair(page Layout, doc transcript.Document) []LabeledGlyph {
	var out []LabeledGlyph
	for li := 0; li < min(len(page), len(doc)); li++ {
		for wi := 0; wi < min(len(page[li]), len(doc[li])); wi++ {
			letters, chars := page[li][wi], doc[li][wi]
			for ci := 0; ci < min(len(letters), len(chars)); ci++ {
				out = append(out, LabeledGlyph{Contours: letters[ci], Label: chars[ci]})
			}
		}
	}
	return out
}

// Partition buckets glyphs by contour count: bucket k-1 holds the glyphs
// with exactly k contours, 1 <= k <= maxContours. Glyphs outside that range
// are dropped without error; this loses data on purpose.
func Partition(glyphs []LabeledGlyph, maxContours int) [][]LabeledGlyph {
	buckets := make([][]LabeledGlyph, maxContours)
	for _, g := range glyphs {
		k := len(g.Contours)
		if k < 1 || k > maxContours {
			continue
		}
		buckets[k-1] = append(buckets[k-1], g)
	}
	return buckets
}

// Set is the fixed array of class tables, indexed by contour count - 1.
type Set struct {
	N           int             `json:"n"`
	MaxContours int             `json:"max_contours"`
	Classes     []*ClassDataset `json:"classes"`
}

// NewSet creates empty tables for classes 1..maxContours.
func NewSet(n, maxContours int) *Set {
	s := &Set{N: n, MaxContours: maxContours, Classes: make([]*ClassDataset, maxContours)}
	for k := 1; k <= maxContours; k++ {
		s.Classes[k-1] = NewClassDataset(k, n)
	}
	return s
}

// Class returns the table for contour count k, or nil if k has no class.
func (s *Set) Class(k int) *ClassDataset {
	if k < 1 || k > len(s.Classes) {
		return nil
	}
	return s.Classes[k-1]
}

// Rows returns the total row count over all classes.
func (s *Set) Rows() int {
	n := 0
	for _, c := range s.Classes {
		n += c.Len()
	}
	return n
}

// Build partitions glyphs and turns every kept glyph into one row of its
// class table. Descriptors are resampled to n samples each.
func Build(glyphs []LabeledGlyph, n, maxContours int) (*Set, error) {
	if n < 1 {
		return nil, fmt.Errorf("descriptor length must be positive, got %d", n)
	}
	s := NewSet(n, maxContours)
	for i, bucket := range Partition(glyphs, maxContours) {
		ds := s.Classes[i]
		for _, g := range bucket {
			if err := ds.Add(g.Contours, g.Label); err != nil {
				return nil, fmt.Errorf("glyph %q: %w", g.Label, err)
			}
		}
	}
	return s, nil
}
