package reader

import (
	"math/rand"
	"testing"

	"glyph-ocr/internal/classify"
	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/dataset"
	"glyph-ocr/internal/transcript"
	"glyph-ocr/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outline(side int) contour.Contour {
	var c contour.Contour
	for x := 0; x < side-1; x++ {
		c = append(c, geometry.Pixel{Row: 0, Col: x})
	}
	for y := 0; y < side-1; y++ {
		c = append(c, geometry.Pixel{Row: y, Col: side - 1})
	}
	for x := side - 1; x > 0; x-- {
		c = append(c, geometry.Pixel{Row: side - 1, Col: x})
	}
	for y := side - 1; y > 0; y-- {
		c = append(c, geometry.Pixel{Row: y, Col: 0})
	}
	return c
}

func line(n int) contour.Contour {
	c := make(contour.Contour, n)
	for i := range c {
		c[i] = geometry.Pixel{Row: i, Col: 0}
	}
	return c
}

var (
	glyphO = contour.Set{outline(30)}
	glyphI = contour.Set{line(40)}
	glyph8 = contour.Set{outline(40), outline(10)}
	glyphB = contour.Set{outline(50), outline(12), outline(14)}
	noInk  = contour.Set{}
)

// page lays out "oi8 Bo" / "io8" twice over.
func samplePage() (dataset.Layout, transcript.Document) {
	layout := dataset.Layout{
		{{glyphO, glyphI, glyph8}, {glyphB, glyphO}},
		{{glyphI, glyphO, glyph8}},
		{{glyphO, glyphI, glyph8}, {glyphB, glyphO}},
		{{glyphI, glyphO, glyph8}},
	}
	return layout, transcript.Parse("oi8 Bo\nio8\noi8 Bo\nio8")
}

func TestFit_AndInfer(t *testing.T) {
	layout, doc := samplePage()
	opts := classify.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(3))

	tr, err := Fit(layout, doc, 16, 3, opts)
	require.NoError(t, err)
	assert.Equal(t, 16, tr.Glyphs)
	assert.Equal(t, 16, tr.Dataset.Rows())
	for k := 1; k <= 3; k++ {
		assert.NotNil(t, tr.Models.Classifier(k), "class %d", k)
	}

	got := Infer(tr.Models, layout, "?")
	assert.Equal(t, doc.Format(), got.Format())
	assert.InDelta(t, 1.0, CharAccuracy(got.Format(), doc.Format()), 1e-12)
}

func TestFit_NothingPaired(t *testing.T) {
	_, err := Fit(dataset.Layout{{{glyphO}}}, nil, 16, 3, classify.DefaultOptions())
	assert.Error(t, err)
}

func TestInfer_Unknowns(t *testing.T) {
	layout, doc := samplePage()
	tr, err := Fit(layout, doc, 16, 3, classify.DefaultOptions())
	require.NoError(t, err)

	four := contour.Set{outline(5), outline(6), outline(7), outline(8)}
	got := Infer(tr.Models, dataset.Layout{{{glyphO, noInk, four}}}, "?")
	assert.Equal(t, "o??", got.Format())

	got = Infer(nil, dataset.Layout{{{glyphO}, {glyphI}}}, "_")
	assert.Equal(t, "_ _", got.Format())
}

func TestCharAccuracy(t *testing.T) {
	assert.InDelta(t, 1.0, CharAccuracy("ab c\nd", "abcd"), 1e-12)
	assert.InDelta(t, 0.75, CharAccuracy("abxd", "ab cd"), 1e-12)
	// shorter prediction: missing tail counts against the truth length.
	assert.InDelta(t, 0.5, CharAccuracy("ab", "abcd"), 1e-12)
	// longer prediction is truncated.
	assert.InDelta(t, 1.0, CharAccuracy("abcdef", "abcd"), 1e-12)
	assert.InDelta(t, 0.5, CharAccuracy("αx", "αβ"), 1e-12)
	assert.Zero(t, CharAccuracy("abc", " \n"))
}

func TestMismatches(t *testing.T) {
	assert.Equal(t, []int{1, 3}, Mismatches("axc y", "abcd"))
	assert.Empty(t, Mismatches("ab", "ab cd"))
}
