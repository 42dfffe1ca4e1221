// Package dataset groups traced glyphs by contour count and assembles the
// per-class descriptor tables the classifiers are trained on.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/descriptor"

	"gonum.org/v1/gonum/mat"
)

// DefaultMaxContours is the largest contour count that gets its own class.
const DefaultMaxContours = 3

// LabeledGlyph pairs a glyph's contours with its ground-truth character.
type LabeledGlyph struct {
	Contours contour.Set `json:"contours"`
	Label    string      `json:"label"`
}

// Row is one glyph in a class table: k resampled descriptors back to back,
// then the label.
type Row struct {
	Features []float64 `json:"features"`
	Label    string    `json:"label"`
}

// ClassDataset is the table of all glyphs with exactly Class contours.
type ClassDataset struct {
	Class int   `json:"class"`
	N     int   `json:"n"`
	Rows  []Row `json:"rows"`
}

// NewClassDataset creates an empty table for class k with descriptors of n
// samples.
func NewClassDataset(k, n int) *ClassDataset {
	return &ClassDataset{Class: k, N: n}
}

// Columns returns the table width including the label column: k*N + 1.
func (d *ClassDataset) Columns() int {
	return d.Class*d.N + 1
}

// Len returns the number of rows.
func (d *ClassDataset) Len() int {
	return len(d.Rows)
}

// Empty reports whether the table has no rows.
func (d *ClassDataset) Empty() bool {
	return len(d.Rows) == 0
}

// Add builds a row from set and appends it. set must hold exactly Class
// contours.
func (d *ClassDataset) Add(set contour.Set, label string) error {
	if len(set) != d.Class {
		return fmt.Errorf("class %d: glyph has %d contours", d.Class, len(set))
	}
	sig, err := descriptor.Signature(set, d.N)
	if err != nil {
		return fmt.Errorf("class %d: %w", d.Class, err)
	}
	d.Rows = append(d.Rows, Row{Features: sig, Label: label})
	return nil
}

// Labels returns the label column.
func (d *ClassDataset) Labels() []string {
	out := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Label
	}
	return out
}

// Matrix returns the feature columns as a dense matrix, or nil when empty.
func (d *ClassDataset) Matrix() *mat.Dense {
	if d.Empty() {
		return nil
	}
	cols := d.Columns() - 1
	data := make([]float64, 0, len(d.Rows)*cols)
	for _, r := range d.Rows {
		data = append(data, r.Features...)
	}
	return mat.NewDense(len(d.Rows), cols, data)
}

// Record renders row i as text cells with the label last.
func (d *ClassDataset) Record(i int) []string {
	r := d.Rows[i]
	rec := make([]string, 0, len(r.Features)+1)
	for _, v := range r.Features {
		rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(rec, r.Label)
}

// WriteCSV writes the table, one glyph per line, without a header.
func (d *ClassDataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for i := range d.Rows {
		if err := cw.Write(d.Record(i)); err != nil {
			return fmt.Errorf("write class %d row %d: %w", d.Class, i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
