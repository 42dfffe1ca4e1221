package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRisesFalls(t *testing.T) {
	p := []float64{0, 0, 3, 4, 0, 0, 1, 0}
	assert.Equal(t, []int{2, 6}, Rises(p))
	assert.Equal(t, []int{4, 7}, Falls(p))
	assert.Empty(t, Rises([]float64{1, 1}))
	assert.Empty(t, Falls(nil))
}

func TestLines(t *testing.T) {
	//               0  1  2  3  4  5  6  7  8  9
	p := []float64{0, 0, 5, 5, 0, 0, 7, 7, 0, 0}
	assert.Equal(t, []Span{{1, 6}, {5, 9}}, Lines(p, 1, 3))
	assert.Equal(t, []Span{{2, 6}, {6, 10}}, Lines(p, 0, 20))
}

func TestLines_NoRise(t *testing.T) {
	assert.Nil(t, Lines([]float64{0, 0, 0}, 1, 5))
	assert.Equal(t, []Span{{0, 3}}, Lines([]float64{4, 4, 0}, 1, 5))
}

func TestCuts(t *testing.T) {
	//               0  1  2  3  4  5  6  7  8
	p := []float64{2, 2, 0, 0, 3, 0, 0, 0, 9}
	assert.Equal(t, []Span{{0, 2}, {2, 5}}, Cuts(p, 0))
	assert.Equal(t, []Span{{0, 4}, {2, 7}}, Cuts(p, 2))
	assert.Empty(t, Cuts([]float64{0, 0, 0}, 5))
}

func TestCropRow(t *testing.T) {
	p := make([]float64, 60)
	for i := 5; i < 45; i++ {
		p[i] = 1
	}
	// blank rows 0..4 then 45..59; the 4 -> 45 gap exceeds 30.
	assert.Equal(t, 55, CropRow(p, 30, 10))
	assert.Equal(t, 60, CropRow(p, 30, 30))

	short := make([]float64, 40)
	for i := 5; i < 20; i++ {
		short[i] = 1
	}
	// no gap over 30: second blank row + margin.
	assert.Equal(t, 31, CropRow(short, 30, 30))

	assert.Equal(t, 3, CropRow([]float64{1, 1, 1}, 30, 30))
	assert.Equal(t, 2, CropRow([]float64{1, 0, 1}, 30, 1))
}

func TestAbsGradientSum(t *testing.T) {
	assert.InDelta(t, 0, AbsGradientSum([]float64{3, 3, 3}), 1e-12)
	// gradient: [2, 1, -1, -2]
	assert.InDelta(t, 6, AbsGradientSum([]float64{0, 2, 2, 0}), 1e-12)
	assert.Zero(t, AbsGradientSum([]float64{5}))
}
