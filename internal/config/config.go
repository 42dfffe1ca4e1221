// Package config holds the pipeline settings. Values are loaded from a JSON
// file and may be overridden by command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"

	"glyph-ocr/internal/classify"
	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/dataset"
	"glyph-ocr/internal/descriptor"
)

// Config holds runtime configuration for training and reading.
type Config struct {
	// Descriptor and dataset
	DescriptorLength int `json:"descriptor_length"`
	MaxContours      int `json:"max_contours"`

	// Tracer
	MinContourLength int `json:"min_contour_length"`
	MaxRestarts      int `json:"max_restarts"`
	DropShortest     int `json:"drop_shortest"`

	// Training
	Trials       int     `json:"trials"`
	TestFraction float64 `json:"test_fraction"`
	Neighbors    int     `json:"neighbors"`
	Seed         int64   `json:"seed"`

	// Page segmentation
	PageScale  float64 `json:"page_scale"`
	WordBlur   int     `json:"word_blur"`
	ColorLimit int     `json:"color_limit"`
	PaleCut    int     `json:"pale_cut"`

	Workers  int    `json:"workers"`
	Unknown  string `json:"unknown"`
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		DescriptorLength: descriptor.DefaultLength,
		MaxContours:      dataset.DefaultMaxContours,
		MinContourLength: 10,
		MaxRestarts:      4,
		DropShortest:     2,
		Trials:           30,
		TestFraction:     0.3,
		Neighbors:        1,
		Seed:             classify.DefaultSeed,
		PageScale:        3.5,
		WordBlur:         34,
		ColorLimit:       220,
		PaleCut:          135,
		Workers:          runtime.NumCPU(),
		Unknown:          "?",
		LogLevel:         "info",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.DescriptorLength < 2 {
		c.DescriptorLength = d.DescriptorLength
	}
	if c.MaxContours < 1 {
		c.MaxContours = d.MaxContours
	}
	if c.MinContourLength < 0 {
		c.MinContourLength = d.MinContourLength
	}
	if c.MaxRestarts < 1 {
		c.MaxRestarts = d.MaxRestarts
	}
	if c.DropShortest < 0 {
		c.DropShortest = d.DropShortest
	}
	if c.Trials < 1 {
		c.Trials = d.Trials
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = d.TestFraction
	}
	if c.Neighbors < 1 {
		c.Neighbors = d.Neighbors
	}
	if c.PageScale <= 0 {
		c.PageScale = d.PageScale
	}
	if c.WordBlur < 1 {
		c.WordBlur = d.WordBlur
	}
	if c.ColorLimit < 1 || c.ColorLimit > 255 {
		c.ColorLimit = d.ColorLimit
	}
	if c.PaleCut < 1 || c.PaleCut > 255 {
		c.PaleCut = d.PaleCut
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Unknown == "" {
		c.Unknown = d.Unknown
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return nil
}

// TracerOptions returns the boundary tracer settings.
func (c *Config) TracerOptions() contour.Options {
	return contour.Options{
		MinLength:    c.MinContourLength,
		MaxRestarts:  c.MaxRestarts,
		DropShortest: c.DropShortest,
	}
}

// TrainOptions returns the trainer settings with a random source seeded
// from Seed.
func (c *Config) TrainOptions() classify.Options {
	return classify.Options{
		Trials:       c.Trials,
		TestFraction: c.TestFraction,
		K:            c.Neighbors,
		Workers:      c.Workers,
		Rand:         rand.New(rand.NewSource(c.Seed)),
	}
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
