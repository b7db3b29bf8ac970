package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/raster-features/internal/raster"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 7, cfg.SAR.WindowSize)
	assert.Equal(t, raster.Window{Rows: 2000, Cols: 2000}, cfg.SAR.WindowOfInterest)
	assert.Equal(t, 1e-6, cfg.Optical.Epsilon)
	assert.Equal(t, []int{3, 8, 9, 10, 11}, cfg.Optical.ExcludedClasses)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeConfig(t, `
data_root: /scenes
workers: 4
sar:
  window_size: 5
  window_of_interest: {row: 100, col: 200, rows: 512, cols: 512}
optical:
  excluded_classes: [3, 8, 9, 10]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/scenes", cfg.DataRoot)
	assert.Equal(t, Default().OutputRoot, cfg.OutputRoot)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5, cfg.SAR.WindowSize)
	assert.Equal(t, raster.Window{Row: 100, Col: 200, Rows: 512, Cols: 512}, cfg.SAR.WindowOfInterest)
	assert.Equal(t, 256, cfg.SAR.QuantizationLevels)
	assert.Equal(t, []int{3, 8, 9, 10}, cfg.Optical.ExcludedClasses)
	assert.Equal(t, 1e-6, cfg.Optical.Epsilon)
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverridesLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	cfg, err := Load(writeConfig(t, "log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "windowsize: 7\n", "failed to parse"},
		{"malformed", "sar: [\n", "failed to parse"},
		{"even window", "sar: {window_size: 4}\n", "window_size"},
		{"zero workers", "workers: 0\n", "workers"},
		{"empty window", "sar: {window_of_interest: {rows: 0, cols: 10}}\n", "window_of_interest"},
		{"too few levels", "sar: {quantization_levels: 1}\n", "quantization_levels"},
		{"too many levels", "sar: {quantization_levels: 512}\n", "quantization_levels"},
		{"epsilon", "optical: {epsilon: 0}\n", "epsilon"},
		{"class code", "optical: {excluded_classes: [3, 12]}\n", "excluded_classes"},
		{"log level", "log_level: loud\n", "log_level"},
		{"log format", "log_format: xml\n", "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_FullSceneIgnoresWindow(t *testing.T) {
	cfg := Default()
	cfg.SAR.FullScene = true
	cfg.SAR.WindowOfInterest = raster.Window{}
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	log := cfg.NewLogger(&buf)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("stage", "speckle filter").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, `"stage":"speckle filter"`), out)
}
