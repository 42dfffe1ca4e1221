package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/ocr"
	"glyph-ocr/pkg/geometry"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_Subcommands(t *testing.T) {
	var names []string
	for _, c := range Root().Subcommands {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"train", "read", "trace", "eval", "baseline", "version"}, names)
}

func TestRequireFlag(t *testing.T) {
	assert.NoError(t, requireFlag("image", "a.png"))
	assert.EqualError(t, requireFlag("image", ""), "missing required flag -image")
}

func TestCommon_SetupOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"workers": 2, "seed": 5, "trials": 7}`), 0644))

	c := common{configPath: path, workers: 3, logLevel: "debug"}
	cfg, log, err := c.setup()
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.Equal(t, 3, cfg.Workers)
	assert.EqualValues(t, 5, cfg.Seed)
	assert.Equal(t, 7, cfg.Trials)
	assert.Equal(t, "debug", cfg.LogLevel)

	e := c.extractor(cfg, log)
	assert.True(t, e.Deskew)
	assert.Equal(t, 3, e.Workers)
	assert.Equal(t, uint8(220), e.Segment.ColorLimit)
}

func TestEval(t *testing.T) {
	cmd := EvalCmd()
	dir := t.TempDir()
	evalPred = filepath.Join(dir, "pred.txt")
	evalTruth = filepath.Join(dir, "truth.txt")
	require.NoError(t, os.WriteFile(evalPred, []byte("ab c\n"), 0644))
	require.NoError(t, os.WriteFile(evalTruth, []byte("abd\n"), 0644))

	assert.NoError(t, runEval(cmd, nil))

	evalTruth = filepath.Join(dir, "missing.txt")
	assert.Error(t, runEval(cmd, nil))

	evalPred = ""
	assert.Error(t, runEval(cmd, nil))
}

func TestRun_LogsFailedCommand(t *testing.T) {
	var buf bytes.Buffer
	err := Run([]string{"train", "-text", "page.txt"}, logger.NewZerolog(&buf, zerolog.ErrorLevel))
	require.EqualError(t, err, "missing required flag -image")
	assert.Contains(t, buf.String(), `"component":"cli"`)
	assert.Contains(t, buf.String(), "missing required flag -image")
}

func TestWriteWords(t *testing.T) {
	var buf bytes.Buffer
	writeWords(&buf, []ocr.Result{
		{Text: "ab", Bounds: geometry.RectInt{X: 5, Y: 10, Width: 7, Height: 5}, Confidence: 91.5},
		{Text: "c", Bounds: geometry.RectInt{X: 1, Y: 1, Width: 2, Height: 1}, Confidence: 60},
	})
	assert.Equal(t, "ab\t(5,10)-(12,15)\t91.5\nc\t(1,1)-(3,2)\t60.0\n", buf.String())
}
