// Package image provides page loading, Mat conversions and the per-glyph
// preprocessing pipeline built on OpenCV.
package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"glyph-ocr/internal/glyph"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"
)

// Page is a decoded page image.
type Page struct {
	Path  string      // Original file path
	Image image.Image // Decoded image data
}

// Load decodes a png, jpeg or tiff file.
func Load(path string) (*Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Page{Path: path, Image: img}, nil
}

// Width returns the image width in pixels.
func (p *Page) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (p *Page) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}

// Mat converts the page to a 3-channel BGR Mat. The caller owns the result.
func (p *Page) Mat() (gocv.Mat, error) {
	if p.Image == nil {
		return gocv.NewMat(), fmt.Errorf("page has no image")
	}
	return ImageToMat(p.Image)
}

// ImageToMat converts any image.Image to a BGR Mat.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	mat, err := gocv.ImageToMatRGB(rgba)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("convert image: %w", err)
	}
	return mat, nil
}

// MatToMask copies a single-channel Mat into a mask, converting to 8 bits
// if needed.
func MatToMask(mat gocv.Mat) (*glyph.Mask, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("empty mat")
	}
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("expected single channel mat, got %d channels", mat.Channels())
	}
	if mat.Type() != gocv.MatTypeCV8U {
		converted := gocv.NewMat()
		defer converted.Close()
		mat.ConvertTo(&converted, gocv.MatTypeCV8U)
		mat = converted
	}

	m := &glyph.Mask{Rows: mat.Rows(), Cols: mat.Cols(), Pix: make([]uint8, mat.Rows()*mat.Cols())}
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			m.Pix[y*m.Cols+x] = mat.GetUCharAt(y, x)
		}
	}
	return m, nil
}

// MatToGray copies a single-channel 8-bit Mat into an image.Gray.
func MatToGray(mat gocv.Mat) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			img.SetGray(x, y, color.Gray{Y: mat.GetUCharAt(y, x)})
		}
	}
	return img
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
