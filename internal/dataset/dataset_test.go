package dataset_test

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/dataset"
	"glyph-ocr/internal/descriptor"
	"glyph-ocr/internal/transcript"
	"glyph-ocr/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stroke returns a horizontal run of n pixels starting at (row, 0).
func stroke(row, n int) contour.Contour {
	c := make(contour.Contour, n)
	for i := range c {
		c[i] = geometry.Pixel{Row: row, Col: i}
	}
	return c
}

// glyphWith returns a glyph with k contours of increasing length.
func glyphWith(k int, label string) dataset.LabeledGlyph {
	set := make(contour.Set, k)
	for i := range set {
		set[i] = stroke(i*3, 12+i)
	}
	return dataset.LabeledGlyph{Contours: set, Label: label}
}

func TestPartition_DropsOutOfRangeCounts(t *testing.T) {
	glyphs := []dataset.LabeledGlyph{
		glyphWith(0, "z"),
		glyphWith(1, "a"),
		glyphWith(2, "b"),
		glyphWith(3, "c"),
		glyphWith(4, "d"),
	}
	buckets := dataset.Partition(glyphs, dataset.DefaultMaxContours)
	require.Len(t, buckets, 3)
	for k, b := range buckets {
		require.Len(t, b, 1, "class %d", k+1)
		assert.Len(t, b[0].Contours, k+1)
	}
	assert.Equal(t, "a", buckets[0][0].Label)
	assert.Equal(t, "c", buckets[2][0].Label)
}

func TestBuild_RowShapes(t *testing.T) {
	const n = 8
	glyphs := []dataset.LabeledGlyph{
		glyphWith(0, "z"),
		glyphWith(1, "a"),
		glyphWith(2, "b"),
		glyphWith(3, "c"),
		glyphWith(4, "d"),
		glyphWith(1, "e"),
	}
	set, err := dataset.Build(glyphs, n, dataset.DefaultMaxContours)
	require.NoError(t, err)

	assert.Equal(t, 4, set.Rows())
	for k := 1; k <= 3; k++ {
		ds := set.Class(k)
		require.NotNil(t, ds)
		assert.Equal(t, k*n+1, ds.Columns())
		for i := range ds.Rows {
			rec := ds.Record(i)
			assert.Len(t, rec, k*n+1)
			assert.Equal(t, ds.Rows[i].Label, rec[len(rec)-1])
		}
	}
	assert.Equal(t, []string{"a", "e"}, set.Class(1).Labels())
	assert.Nil(t, set.Class(0))
	assert.Nil(t, set.Class(4))
}

func TestBuild_ConcatenatesInContourOrder(t *testing.T) {
	const n = 5
	g := glyphWith(2, "x")
	set, err := dataset.Build([]dataset.LabeledGlyph{g}, n, dataset.DefaultMaxContours)
	require.NoError(t, err)

	row := set.Class(2).Rows[0].Features
	for i, c := range g.Contours {
		d, err := descriptor.Compute(c)
		require.NoError(t, err)
		assert.InDeltaSlice(t, descriptor.Resample(d, n), row[i*n:(i+1)*n], 1e-12)
	}
}

func TestBuild_Empty(t *testing.T) {
	set, err := dataset.Build(nil, 10, dataset.DefaultMaxContours)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Rows())
	for k := 1; k <= 3; k++ {
		assert.True(t, set.Class(k).Empty())
		assert.Nil(t, set.Class(k).Matrix())
	}
}

func TestBuild_RejectsBadLength(t *testing.T) {
	_, err := dataset.Build([]dataset.LabeledGlyph{glyphWith(1, "a")}, 0, 3)
	assert.Error(t, err)
}

func TestBuild_DegenerateContour(t *testing.T) {
	g := dataset.LabeledGlyph{Contours: contour.Set{{{Row: 1, Col: 1}}}, Label: "."}
	_, err := dataset.Build([]dataset.LabeledGlyph{g}, 10, 3)
	assert.ErrorIs(t, err, descriptor.ErrDegenerateContour)
}

func TestClassDataset_MatrixAndCSV(t *testing.T) {
	const n = 4
	set, err := dataset.Build([]dataset.LabeledGlyph{glyphWith(2, "a"), glyphWith(2, "b")}, n, 3)
	require.NoError(t, err)
	ds := set.Class(2)

	m := ds.Matrix()
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2*n, c)
	assert.Equal(t, ds.Rows[1].Features[3], m.At(1, 3))

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Len(t, recs[0], 2*n+1)
	assert.Equal(t, "b", recs[1][2*n])
}

func TestPair_UsesCommonPrefix(t *testing.T) {
	one := contour.Set{stroke(0, 12)}
	two := contour.Set{stroke(0, 12), stroke(3, 13)}
	page := dataset.Layout{
		{{one, two, one}, {two}},
		{{one}},
		{{two}},
	}
	doc := transcript.Parse("ab cd\nxyz")

	got := dataset.Pair(page, doc)
	require.Len(t, got, 4)
	assert.Equal(t, "a", got[0].Label)
	assert.Len(t, got[1].Contours, 2)
	assert.Equal(t, "c", got[2].Label)
	assert.Equal(t, "x", got[3].Label)
	assert.Equal(t, 6, page.GlyphCount())
}

func TestSet_SaveLoad(t *testing.T) {
	set, err := dataset.Build([]dataset.LabeledGlyph{glyphWith(1, "a"), glyphWith(3, "q")}, 6, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sub", "data.json")
	require.NoError(t, set.Save(path))

	loaded, err := dataset.LoadSet(path)
	require.NoError(t, err)
	assert.Equal(t, set.N, loaded.N)
	assert.Equal(t, set.Rows(), loaded.Rows())
	assert.Equal(t, []string{"q"}, loaded.Class(3).Labels())
	assert.InDeltaSlice(t, set.Class(3).Rows[0].Features, loaded.Class(3).Rows[0].Features, 1e-12)
}
