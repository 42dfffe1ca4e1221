package cli

import (
	"fmt"

	"glyph-ocr/internal/reader"
	"glyph-ocr/internal/transcript"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	evalPred  string
	evalTruth string
)

// EvalCmd scores a predicted transcript against the ground truth.
func EvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runEval,
		UsageLine: "eval -pred <predicted> -truth <truth>",
		Short:     "computes character accuracy of a predicted text",
		Long: `
compares two texts character by character, ignoring spaces and line breaks

	$ glyph-ocr eval -pred output.txt -truth page.txt

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&evalPred, "pred", "", "predicted text file")
	cmd.Flag.StringVar(&evalTruth, "truth", "", "ground-truth text file")
	return cmd
}

func runEval(cmd *commander.Command, args []string) error {
	if err := requireFlag("pred", evalPred); err != nil {
		return err
	}
	if err := requireFlag("truth", evalTruth); err != nil {
		return err
	}
	pred, err := transcript.ReadFile(evalPred)
	if err != nil {
		return err
	}
	truth, err := transcript.ReadFile(evalTruth)
	if err != nil {
		return err
	}

	p, t := pred.Format(), truth.Format()
	fmt.Printf("characters: %d predicted, %d true\n", pred.CharCount(), truth.CharCount())
	fmt.Printf("mismatches: %d\n", len(reader.Mismatches(p, t)))
	fmt.Printf("character accuracy: %.2f%%\n", reader.CharAccuracy(p, t)*100)
	return nil
}
