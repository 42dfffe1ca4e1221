// Package cli wires the pipeline into commander subcommands.
package cli

import (
	"fmt"
	"os"

	"glyph-ocr/internal/config"
	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/reader"
	"glyph-ocr/internal/version"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// Root returns the top-level command with every subcommand attached.
func Root() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0],
		Short:     "glyph shape-signature OCR",
		Subcommands: []*commander.Command{
			TrainCmd(),
			ReadCmd(),
			TraceCmd(),
			EvalCmd(),
			BaselineCmd(),
			VersionCmd(),
		},
		Flag: *flag.NewFlagSet("glyph-ocr", flag.ExitOnError),
	}
}

// Run dispatches args and logs a failed command before returning its error.
func Run(args []string, log logger.Logger) error {
	err := Root().Dispatch(args)
	if err != nil {
		logger.OrNop(log).Error("cli", err, logger.Fields{"args": args})
	}
	return err
}

// common holds the flags every pipeline subcommand accepts. Zero values
// leave the config file setting alone.
type common struct {
	configPath string
	logLevel   string
	workers    int
	seed       int64
	noDeskew   bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "JSON configuration file")
	fs.StringVar(&c.logLevel, "v", "", "log level (debug, info, warn, error)")
	fs.IntVar(&c.workers, "workers", 0, "worker goroutines; 0 = config value")
	fs.Int64Var(&c.seed, "seed", 0, "random seed for the holdout trials; 0 = config value")
	fs.BoolVar(&c.noDeskew, "no-deskew", false, "skip rotation estimation")
}

// setup loads the config, applies flag overrides and builds the logger.
func (c *common) setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.workers > 0 {
		cfg.Workers = c.workers
	}
	if c.seed != 0 {
		cfg.Seed = c.seed
	}
	_ = cfg.Validate()
	return cfg, logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel)), nil
}

// extractor builds a glyph extractor from the config.
func (c *common) extractor(cfg *config.Config, log logger.Logger) *reader.Extractor {
	e := reader.FromConfig(cfg, log)
	e.Deskew = !c.noDeskew
	return e
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing required flag -%s", name)
	}
	return nil
}

// VersionCmd prints build metadata.
func VersionCmd() *commander.Command {
	return &commander.Command{
		Run: func(cmd *commander.Command, args []string) error {
			fmt.Println(version.String())
			return nil
		},
		UsageLine: "version",
		Short:     "print version information",
		Flag:      *flag.NewFlagSet("version", flag.ExitOnError),
	}
}
