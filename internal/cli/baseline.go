package cli

import (
	"fmt"
	"io"
	"os"

	glyphimage "glyph-ocr/internal/image"
	"glyph-ocr/internal/ocr"
	"glyph-ocr/internal/page"
	"glyph-ocr/internal/reader"
	"glyph-ocr/internal/transcript"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	baselineCommon common
	baselineImage  string
	baselineTruth  string
	baselineLang   string
	baselineLimit  bool
	baselineWords  bool
)

// BaselineCmd reads a page with Tesseract for comparison.
func BaselineCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runBaseline,
		UsageLine: "baseline -image <page> [options]",
		Short:     "reads a page with tesseract for comparison",
		Long: `
straightens a page and reads it with tesseract; with -truth the character
accuracy is reported, -alphabet limits recognition to the characters of
the truth text and -words lists every detected word with its box

	$ glyph-ocr baseline -image page.png [-truth page.txt] [-alphabet] [-words] [-lang eng]

`,
		Flag: *flag.NewFlagSet("baseline", flag.ExitOnError),
	}
	baselineCommon.register(&cmd.Flag)
	cmd.Flag.StringVar(&baselineImage, "image", "", "page image")
	cmd.Flag.StringVar(&baselineTruth, "truth", "", "optional ground-truth text")
	cmd.Flag.StringVar(&baselineLang, "lang", "eng", "tesseract language")
	cmd.Flag.BoolVar(&baselineLimit, "alphabet", false, "restrict to the truth alphabet")
	cmd.Flag.BoolVar(&baselineWords, "words", false, "list word boxes and confidences")
	return cmd
}

func runBaseline(cmd *commander.Command, args []string) error {
	if err := requireFlag("image", baselineImage); err != nil {
		return err
	}
	if _, _, err := baselineCommon.setup(); err != nil {
		return err
	}

	var truth transcript.Document
	if baselineTruth != "" {
		doc, err := transcript.ReadFile(baselineTruth)
		if err != nil {
			return err
		}
		truth = doc
	}

	pg, err := glyphimage.Load(baselineImage)
	if err != nil {
		return err
	}
	src, err := pg.Mat()
	if err != nil {
		return err
	}
	defer src.Close()

	straight := src
	if !baselineCommon.noDeskew {
		rotated, _, err := page.Deskew(src, page.DefaultRotationParams())
		if err != nil {
			return err
		}
		defer rotated.Close()
		straight = rotated
	}

	engine, err := ocr.NewEngine(baselineLang)
	if err != nil {
		return err
	}
	defer engine.Close()
	if baselineLimit && truth != nil {
		engine.SetWhitelist(ocr.Alphabet(truth))
	}

	doc, err := engine.ReadPage(straight)
	if err != nil {
		return err
	}
	fmt.Println(doc.Format())

	if baselineWords {
		words, err := engine.DetectWords(straight)
		if err != nil {
			return err
		}
		writeWords(os.Stdout, words)
	}

	if truth != nil {
		fmt.Printf("character accuracy: %.2f%%\n", reader.CharAccuracy(doc.Format(), truth.Format())*100)
	}
	return nil
}

// writeWords prints one detected word per line: text, page box and
// confidence.
func writeWords(w io.Writer, words []ocr.Result) {
	for _, r := range words {
		fmt.Fprintf(w, "%s\t%v\t%.1f\n", r.Text, r.Bounds.Rectangle(), r.Confidence)
	}
}
