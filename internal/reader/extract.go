// Package reader runs the end-to-end pipeline: page images in, traced
// glyphs, trained models and predicted text out.
package reader

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"glyph-ocr/internal/config"
	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/dataset"
	"glyph-ocr/internal/glyph"
	glyphimage "glyph-ocr/internal/image"
	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/page"

	"gocv.io/x/gocv"
)

const component = "reader"

// Extractor turns page images into traced glyph layouts.
type Extractor struct {
	Rotation page.RotationParams
	Segment  page.SegmentParams
	Letter   page.LetterParams
	Glyph    glyphimage.GlyphParams
	Tracer   contour.Options
	Workers  int
	// Deskew can be disabled for pages known to be straight.
	Deskew bool
	Log    logger.Logger
}

// NewExtractor returns an Extractor with standard parameters.
func NewExtractor() *Extractor {
	return &Extractor{
		Rotation: page.DefaultRotationParams(),
		Segment:  page.DefaultSegmentParams(),
		Letter:   page.DefaultLetterParams(),
		Glyph:    glyphimage.DefaultGlyphParams(),
		Tracer:   contour.DefaultOptions(),
		Workers:  runtime.NumCPU(),
		Deskew:   true,
	}
}

// FromConfig builds an extractor from the tunables in cfg.
func FromConfig(cfg *config.Config, log logger.Logger) *Extractor {
	e := NewExtractor()
	e.Segment.Scale = cfg.PageScale
	e.Segment.WordBlur = cfg.WordBlur
	e.Segment.ColorLimit = uint8(cfg.ColorLimit)
	e.Segment.PaleCut = uint8(cfg.PaleCut)
	e.Tracer = cfg.TracerOptions()
	e.Workers = cfg.Workers
	e.Log = log
	return e
}

// ExtractFile loads a page image and traces every glyph on it.
func (e *Extractor) ExtractFile(path string) (dataset.Layout, error) {
	pg, err := glyphimage.Load(path)
	if err != nil {
		return nil, err
	}
	mat, err := pg.Mat()
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return e.Extract(mat)
}

// Extract straightens a BGR page, segments it and traces every letter.
func (e *Extractor) Extract(src gocv.Mat) (dataset.Layout, error) {
	letters, err := e.Letters(src)
	if err != nil {
		return nil, err
	}
	defer letters.Close()
	return e.TraceLetters(letters)
}

// Letters straightens a BGR page and cuts it into letter images. The
// caller closes the result.
func (e *Extractor) Letters(src gocv.Mat) (page.Letters, error) {
	log := logger.OrNop(e.Log)

	straight := src
	if e.Deskew {
		rotated, angle, err := page.Deskew(src, e.Rotation)
		if err != nil {
			return nil, err
		}
		defer rotated.Close()
		straight = rotated
		log.Info(component, "page rotation", logger.Fields{"degrees": angle})
	}

	letters, err := page.Segment(straight, e.Segment)
	if err != nil {
		return nil, fmt.Errorf("segment page: %w", err)
	}
	log.Info(component, "page segmented", logger.Fields{"lines": len(letters), "letters": letters.Count()})
	return letters, nil
}

// Glyph is one traced letter of a page.
type Glyph struct {
	Line, Word, Letter int
	// Mask is the skeletonized boundary image the contours were traced on.
	Mask     *glyph.Mask
	Contours contour.Set
	Err      error
}

// TraceLetters runs letter cleanup, glyph preprocessing and boundary tracing
// on every letter image, in parallel. The layout mirrors the input nesting.
// A letter without ink after preprocessing gets an empty contour set.
func (e *Extractor) TraceLetters(letters page.Letters) (dataset.Layout, error) {
	layout := make(dataset.Layout, len(letters))
	for li, line := range letters {
		layout[li] = make([][]contour.Set, len(line))
		for wi, word := range line {
			layout[li][wi] = make([]contour.Set, len(word))
		}
	}

	empty := 0
	for _, g := range e.TraceGlyphs(letters) {
		if g.Err != nil {
			if errors.Is(g.Err, contour.ErrEmptyGlyph) {
				empty++
				continue
			}
			return nil, fmt.Errorf("line %d word %d letter %d: %w", g.Line, g.Word, g.Letter, g.Err)
		}
		layout[g.Line][g.Word][g.Letter] = g.Contours
	}
	if empty > 0 {
		logger.OrNop(e.Log).Debug(component, "letters without ink", logger.Fields{"count": empty})
	}
	return layout, nil
}

// TraceGlyphs traces every letter on Workers goroutines and returns the
// glyphs in reading order. Per-letter failures are reported in Glyph.Err.
func (e *Extractor) TraceGlyphs(letters page.Letters) []Glyph {
	var glyphs []Glyph
	for li, line := range letters {
		for wi, word := range line {
			for ci := range word {
				glyphs = append(glyphs, Glyph{Line: li, Word: wi, Letter: ci})
			}
		}
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < max(1, e.Workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				g := &glyphs[i]
				g.Mask, g.Contours, g.Err = e.TraceGlyph(letters[g.Line][g.Word][g.Letter])
			}
		}()
	}
	for i := range glyphs {
		next <- i
	}
	close(next)
	wg.Wait()
	return glyphs
}

// TraceGlyph turns one segmented letter image into its boundary mask and
// contour set.
func (e *Extractor) TraceGlyph(letter gocv.Mat) (*glyph.Mask, contour.Set, error) {
	clean, err := page.PrepareLetter(letter, e.Letter)
	if err != nil {
		return nil, nil, err
	}
	defer clean.Close()

	mask, err := glyphimage.PreprocessGlyph(clean, e.Glyph)
	if err != nil {
		return nil, nil, err
	}
	set, err := contour.TraceWithOptions(mask, e.Tracer)
	return mask, set, err
}
