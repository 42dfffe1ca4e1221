package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/reader"
	"glyph-ocr/internal/transcript"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	trainCommon  common
	trainImage   string
	trainText    string
	trainModels  string
	trainDataset string
	trainCSV     string
)

// TrainCmd learns per-class classifiers from a page and its transcript.
func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runTrain,
		UsageLine: "train -image <page> -text <transcript> [options]",
		Short:     "trains glyph classifiers from a labeled page",
		Long: `
trains one nearest-neighbour classifier per contour count from a page image
and its ground-truth transcript, then reports per-class weighted accuracy

	$ glyph-ocr train -image page.png -text page.txt -models models.json [-dataset data.json] [-csv dir]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	trainCommon.register(&cmd.Flag)
	cmd.Flag.StringVar(&trainImage, "image", "", "training page image")
	cmd.Flag.StringVar(&trainText, "text", "", "transcript of the training page (UTF-8 or UTF-16)")
	cmd.Flag.StringVar(&trainModels, "models", "models.json", "output model file")
	cmd.Flag.StringVar(&trainDataset, "dataset", "", "optional output dataset file")
	cmd.Flag.StringVar(&trainCSV, "csv", "", "optional directory for per-class CSV tables")
	return cmd
}

func runTrain(cmd *commander.Command, args []string) error {
	if err := requireFlag("image", trainImage); err != nil {
		return err
	}
	if err := requireFlag("text", trainText); err != nil {
		return err
	}
	cfg, log, err := trainCommon.setup()
	if err != nil {
		return err
	}

	layout, err := trainCommon.extractor(cfg, log).ExtractFile(trainImage)
	if err != nil {
		return err
	}
	doc, err := transcript.ReadFile(trainText)
	if err != nil {
		return err
	}

	opts := cfg.TrainOptions()
	opts.Log = log
	tr, err := reader.Fit(layout, doc, cfg.DescriptorLength, cfg.MaxContours, opts)
	if err != nil {
		return err
	}

	for i, res := range tr.Results {
		if res == nil {
			fmt.Printf("class %d: no samples\n", i+1)
			continue
		}
		fmt.Printf("class %d: %d rows, weighted accuracy %.4f (best trial %d: %.4f)\n",
			i+1, res.Rows, res.MeanAccuracy, res.BestTrial, res.BestAccuracy)
		fmt.Print(res.Confusion)
	}

	if err := tr.Models.Save(trainModels); err != nil {
		return fmt.Errorf("save models: %w", err)
	}
	log.Info("cli", "models saved", logger.Fields{"path": trainModels, "run_id": tr.Models.RunID})

	if trainDataset != "" {
		if err := tr.Dataset.Save(trainDataset); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
	}
	if trainCSV != "" {
		if err := writeTables(trainCSV, tr); err != nil {
			return err
		}
	}
	return nil
}

func writeTables(dir string, tr *reader.Training) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, ds := range tr.Dataset.Classes {
		path := filepath.Join(dir, fmt.Sprintf("class%d.csv", ds.Class))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := ds.WriteCSV(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
