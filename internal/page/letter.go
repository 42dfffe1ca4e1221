package page

import (
	"fmt"
	"image"
	"image/color"

	glyphimage "glyph-ocr/internal/image"
	"glyph-ocr/internal/profile"

	"gocv.io/x/gocv"
)

// LetterParams holds the per-letter cleanup constants.
type LetterParams struct {
	TopPad     int `json:"top_pad"`
	CropGap    int `json:"crop_gap"`
	CropMargin int `json:"crop_margin"`
	OpenKernel int `json:"open_kernel"`
}

// DefaultLetterParams returns the standard letter cleanup constants.
func DefaultLetterParams() LetterParams {
	return LetterParams{
		TopPad:     5,
		CropGap:    30,
		CropMargin: 30,
		OpenKernel: 3,
	}
}

// PrepareLetter pads a letter image at the top, crops the rows below the
// glyph, paints a blob into letters left blank and removes speckle with a
// morphological open. The caller owns the returned Mat.
func PrepareLetter(letter gocv.Mat, p LetterParams) (gocv.Mat, error) {
	if letter.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty letter")
	}

	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(letter, &padded, p.TopPad, 0, 0, 0, gocv.BorderConstant, color.RGBA{})

	crop := profile.CropRow(RowProfile(padded), p.CropGap, p.CropMargin)
	region := padded.Region(image.Rect(0, 0, padded.Cols(), max(crop, 1)))
	cropped := region.Clone()
	region.Close()
	defer cropped.Close()

	if glyphimage.IsBlank(cropped) {
		glyphimage.PaintBlob(&cropped)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{p.OpenKernel, p.OpenKernel})
	defer kernel.Close()

	opened := gocv.NewMat()
	gocv.MorphologyEx(cropped, &opened, gocv.MorphOpen, kernel)
	return opened, nil
}
