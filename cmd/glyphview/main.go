// Command glyphview opens the glyph viewer, optionally on a page and a
// trained model file.
package main

import (
	"log"

	"glyph-ocr/internal/config"
	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/reader"
	"glyph-ocr/ui/viewer"

	"fyne.io/fyne/v2/app"
	"github.com/gonuts/flag"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file")
	pagePath := flag.String("page", "", "page image to open")
	modelsPath := flag.String("models", "", "trained model file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := reader.FromConfig(cfg, logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel)))

	a := app.NewWithID("glyph-ocr.viewer")
	a.Settings().SetTheme(&viewer.GlyphTheme{})

	recent := viewer.LoadRecent(viewer.DefaultRecentDir())
	if *pagePath == "" {
		*pagePath = recent.Page
	}
	if *modelsPath == "" {
		*modelsPath = recent.Models
	}

	v := viewer.New(a, e, cfg.Unknown, recent)
	if *modelsPath != "" {
		if err := v.LoadModels(*modelsPath); err != nil {
			log.Printf("Failed to load models %s: %v", *modelsPath, err)
		}
	}
	if *pagePath != "" {
		if err := v.OpenPage(*pagePath); err != nil {
			log.Printf("Failed to open page %s: %v", *pagePath, err)
		}
	}
	v.ShowAndRun()
}
