package cli

import (
	"fmt"

	"glyph-ocr/internal/classify"
	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/reader"
	"glyph-ocr/internal/transcript"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	readCommon common
	readImage  string
	readModels string
	readOut    string
	readTruth  string
)

// ReadCmd transcribes a page with trained classifiers.
func ReadCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runRead,
		UsageLine: "read -image <page> -models <models> [options]",
		Short:     "reads the text of a page",
		Long: `
segments a page into glyphs, classifies each one and writes the predicted
text, one line per text line; glyphs without a classifier are written as
the unknown placeholder

	$ glyph-ocr read -image page.png -models models.json -out page.txt [-truth truth.txt]

`,
		Flag: *flag.NewFlagSet("read", flag.ExitOnError),
	}
	readCommon.register(&cmd.Flag)
	cmd.Flag.StringVar(&readImage, "image", "", "page image to read")
	cmd.Flag.StringVar(&readModels, "models", "models.json", "trained model file")
	cmd.Flag.StringVar(&readOut, "out", "", "output text file (stdout if empty)")
	cmd.Flag.StringVar(&readTruth, "truth", "", "optional ground truth for character accuracy")
	return cmd
}

func runRead(cmd *commander.Command, args []string) error {
	if err := requireFlag("image", readImage); err != nil {
		return err
	}
	cfg, log, err := readCommon.setup()
	if err != nil {
		return err
	}
	models, err := classify.LoadModels(readModels)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	layout, err := readCommon.extractor(cfg, log).ExtractFile(readImage)
	if err != nil {
		return err
	}
	doc := reader.Infer(models, layout, cfg.Unknown)

	if readOut == "" {
		fmt.Println(doc.Format())
	} else if err := doc.WriteFile(readOut); err != nil {
		return err
	}

	if readTruth != "" {
		truth, err := transcript.ReadFile(readTruth)
		if err != nil {
			return err
		}
		acc := reader.CharAccuracy(doc.Format(), truth.Format())
		log.Info("cli", "character accuracy", logger.Fields{"accuracy": acc})
		fmt.Printf("character accuracy: %.2f%%\n", acc*100)
	}
	return nil
}
