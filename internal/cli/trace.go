package cli

import (
	"fmt"
	"image/png"
	"os"

	"glyph-ocr/internal/contour"
	glyphimage "glyph-ocr/internal/image"
	"glyph-ocr/internal/page"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"gocv.io/x/gocv"
)

var (
	traceImage  string
	traceOut    string
	traceInvert bool
	traceScale  int
)

// TraceCmd traces a single letter image and reports its contours.
func TraceCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runTrace,
		UsageLine: "trace -image <letter> [options]",
		Short:     "traces the contours of one glyph image",
		Long: `
runs letter cleanup, glyph preprocessing and boundary tracing on a single
letter image and prints the contour lengths; -out writes an overlay PNG

	$ glyph-ocr trace -image a.png [-invert] [-out a_contours.png] [-scale 4]

`,
		Flag: *flag.NewFlagSet("trace", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&traceImage, "image", "", "letter image")
	cmd.Flag.StringVar(&traceOut, "out", "", "optional overlay PNG")
	cmd.Flag.BoolVar(&traceInvert, "invert", false, "image has dark ink on a light background")
	cmd.Flag.IntVar(&traceScale, "scale", 4, "overlay magnification")
	return cmd
}

func runTrace(cmd *commander.Command, args []string) error {
	if err := requireFlag("image", traceImage); err != nil {
		return err
	}
	pg, err := glyphimage.Load(traceImage)
	if err != nil {
		return err
	}
	src, err := pg.Mat()
	if err != nil {
		return err
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	if traceInvert {
		gocv.BitwiseNot(gray, &gray)
	}

	clean, err := page.PrepareLetter(gray, page.DefaultLetterParams())
	if err != nil {
		return err
	}
	defer clean.Close()

	mask, err := glyphimage.PreprocessGlyph(clean, glyphimage.DefaultGlyphParams())
	if err != nil {
		return err
	}
	set, err := contour.Trace(mask)
	if err != nil {
		return err
	}

	fmt.Printf("%d contours\n", set.Len())
	for i, c := range set {
		fmt.Printf("  contour %d: %d points, starts at %v\n", i, c.Len(), c[0])
	}

	if traceOut != "" {
		f, err := os.Create(traceOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := png.Encode(f, glyphimage.RenderContours(mask, set, traceScale)); err != nil {
			return fmt.Errorf("write overlay: %w", err)
		}
	}
	return nil
}
