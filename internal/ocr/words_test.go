package ocr

import (
	"image"
	"testing"

	"glyph-ocr/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordResults_MapsBoxesToPage(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(10, 20, 31, 40), Word: " ab ", Confidence: 91.5},
		{Box: image.Rect(0, 0, 8, 8), Word: "  ", Confidence: 40},
		{Box: image.Rect(100, 100, 120, 120), Word: "off", Confidence: 80},
		{Box: image.Rect(2, 2, 6, 4), Word: "c", Confidence: 60},
	}

	got := wordResults(boxes, 2, 15, 12)
	require.Len(t, got, 2)

	assert.Equal(t, "ab", got[0].Text)
	assert.Equal(t, geometry.RectInt{X: 5, Y: 10, Width: 7, Height: 5}, got[0].Bounds)
	assert.Equal(t, image.Rect(5, 10, 12, 15), got[0].Bounds.Rectangle())
	assert.InDelta(t, 91.5, got[0].Confidence, 1e-12)

	assert.Equal(t, "c", got[1].Text)
	assert.Equal(t, geometry.RectInt{X: 1, Y: 1, Width: 2, Height: 1}, got[1].Bounds)
}

func TestWordResults_UnscaledPage(t *testing.T) {
	boxes := []gosseract.BoundingBox{{Box: image.Rect(3, 4, 9, 7), Word: "x"}}
	got := wordResults(boxes, 0, 100, 100)
	require.Len(t, got, 1)
	assert.Equal(t, geometry.RectInt{X: 3, Y: 4, Width: 6, Height: 3}, got[0].Bounds)
	assert.Empty(t, wordResults(nil, 1, 10, 10))
}
