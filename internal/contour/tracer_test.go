package contour

import (
	"errors"
	"testing"

	"glyph-ocr/internal/glyph"
	"glyph-ocr/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hline paints ink from (row, c0) to (row, c1) inclusive.
func hline(m *glyph.Mask, row, c0, c1 int) {
	for c := c0; c <= c1; c++ {
		m.Set(row, c, glyph.Ink)
	}
}

// vline paints ink from (r0, col) to (r1, col) inclusive.
func vline(m *glyph.Mask, col, r0, r1 int) {
	for r := r0; r <= r1; r++ {
		m.Set(r, col, glyph.Ink)
	}
}

// ring paints a square outline with its four corner pixels cut, which a
// skeletonizer produces for rounded strokes.
func ring(m *glyph.Mask, top, left, size int) {
	bottom, right := top+size-1, left+size-1
	hline(m, top, left+1, right-1)
	hline(m, bottom, left+1, right-1)
	vline(m, left, top+1, bottom-1)
	vline(m, right, top+1, bottom-1)
}

func TestTrace_EmptyMask(t *testing.T) {
	_, err := Trace(glyph.NewMask(8, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyGlyph))

	var eg *EmptyGlyphError
	require.True(t, errors.As(err, &eg))
	assert.Equal(t, 8, eg.Rows)
}

func TestTrace_SingleStrokeYieldsOneContour(t *testing.T) {
	m := glyph.NewMask(5, 20)
	hline(m, 2, 3, 17)

	set, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, set, 1)
	require.Len(t, set[0], 15)
	assert.Equal(t, geometry.Pixel{Row: 2, Col: 3}, set[0][0])
	assert.Equal(t, geometry.Pixel{Row: 2, Col: 17}, set[0][14])
}

func TestTrace_OpenCurveYieldsOneContour(t *testing.T) {
	// A "U": the walk cuts both bottom corners; the restarts from them are
	// ten points long and end up as filler.
	m := glyph.NewMask(10, 10)
	vline(m, 0, 0, 9)
	vline(m, 9, 0, 9)
	hline(m, 9, 0, 9)

	set, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, 26, set[0].Len())
}

func TestTrace_ShortPathsAreFiller(t *testing.T) {
	m := glyph.NewMask(8, 20)
	hline(m, 0, 0, 4)
	hline(m, 5, 0, 14)

	set, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, geometry.Pixel{Row: 5, Col: 0}, set[0][0])
	assert.Equal(t, 15, set[0].Len())
}

func TestTrace_AnnulusYieldsOuterAndInner(t *testing.T) {
	m := glyph.NewMask(20, 20)
	ring(m, 0, 0, 20)
	ring(m, 6, 6, 8)

	set, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, []int{72, 24}, set.Lengths())
	assert.Equal(t, geometry.Pixel{Row: 0, Col: 1}, set[0][0])
	assert.Equal(t, geometry.Pixel{Row: 6, Col: 7}, set[1][0])

	// Clockwise: right along the top edge first.
	assert.Equal(t, geometry.Pixel{Row: 0, Col: 2}, set[0][1])
	assert.Equal(t, geometry.Pixel{Row: 1, Col: 0}, set[0][71])
}

func TestTrace_FourthDeadEndDropsTwoShortest(t *testing.T) {
	m := glyph.NewMask(9, 20)
	hline(m, 0, 0, 11) // 12
	hline(m, 2, 0, 12) // 13
	hline(m, 4, 0, 13) // 14
	hline(m, 6, 0, 14) // 15, fourth dead end, never kept
	hline(m, 8, 0, 15) // 16, never reached

	set, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, 14, set[0].Len())
	assert.Equal(t, 4, set[0][0].Row)
}

func TestTrace_TieBreakPrefersTopRowThenRightmostColumn(t *testing.T) {
	// Inverted V with apex (0,10) and legs of 11 pixels.
	m := glyph.NewMask(11, 21)
	for r := 0; r <= 10; r++ {
		m.Set(r, 10-r, glyph.Ink)
		m.Set(r, 10+r, glyph.Ink)
	}

	// Dead ends: right leg (11), (1,9)->apex->right leg (12),
	// (2,8)->...->right leg (13), then the fourth stops and drops 11 and 12.
	set, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, set, 1)
	require.Equal(t, 13, set[0].Len())
	assert.Equal(t, Contour{
		{Row: 2, Col: 8}, {Row: 1, Col: 9}, {Row: 0, Col: 10}, {Row: 1, Col: 11},
	}, set[0][:4])
	assert.Equal(t, geometry.Pixel{Row: 10, Col: 20}, set[0][12])
}

func TestTrace_NoContourLongEnough(t *testing.T) {
	m := glyph.ParseMask(
		"#.#",
		".#.",
	)
	set, err := Trace(m)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestTraceWithOptions_MinLength(t *testing.T) {
	m := glyph.NewMask(3, 8)
	hline(m, 1, 0, 5)

	opts := DefaultOptions()
	opts.MinLength = 3
	set, err := TraceWithOptions(m, opts)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, 6, set[0].Len())
}

func TestContour_Translate(t *testing.T) {
	c := Contour{{Row: 1, Col: 2}, {Row: 3, Col: 4}}
	moved := c.Translate(10, -2)
	assert.Equal(t, Contour{{Row: 11, Col: 0}, {Row: 13, Col: 2}}, moved)
	assert.Equal(t, geometry.Pixel{Row: 1, Col: 2}, c[0])
}
