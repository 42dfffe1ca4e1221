package reader

import (
	"fmt"

	"glyph-ocr/internal/classify"
	"glyph-ocr/internal/dataset"
	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/transcript"
)

// Training is the outcome of a training run.
type Training struct {
	Glyphs  int
	Dataset *dataset.Set
	Models  *classify.Models
	Results []*classify.Result
}

// Fit pairs a traced page with its transcript, builds the class tables and
// trains one classifier per class.
func Fit(layout dataset.Layout, doc transcript.Document, n, maxContours int, opts classify.Options) (*Training, error) {
	log := logger.OrNop(opts.Log)

	glyphs := dataset.Pair(layout, doc)
	if len(glyphs) == 0 {
		return nil, fmt.Errorf("no glyphs paired with transcript (%d traced, %d characters)",
			layout.GlyphCount(), doc.CharCount())
	}
	set, err := dataset.Build(glyphs, n, maxContours)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	log.Info(component, "dataset built", logger.Fields{
		"paired": len(glyphs), "kept": set.Rows(), "dropped": len(glyphs) - set.Rows(),
	})

	models, results, err := classify.TrainAll(set, opts)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	return &Training{Glyphs: len(glyphs), Dataset: set, Models: models, Results: results}, nil
}

// Infer predicts one character per glyph. Glyphs the models cannot
// classify become unknown.
func Infer(models *classify.Models, layout dataset.Layout, unknown string) transcript.Document {
	doc := make(transcript.Document, 0, len(layout))
	for _, line := range layout {
		out := make(transcript.Line, 0, len(line))
		for _, word := range line {
			w := make(transcript.Word, 0, len(word))
			for _, set := range word {
				label := unknown
				if models != nil {
					if l, err := models.Predict(set); err == nil {
						label = l
					}
				}
				w = append(w, label)
			}
			if len(w) > 0 {
				out = append(out, w)
			}
		}
		doc = append(doc, out)
	}
	return doc
}
