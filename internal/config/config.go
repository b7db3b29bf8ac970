// Package config loads the YAML configuration of the feature extraction
// pipeline and builds its logger.
//
// Every field has a default, so an absent config file or a partial one is
// valid. Load applies the file on top of Default, then environment
// overrides, then Validate.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/raster-features/internal/raster"
)

// EnvLogLevel overrides log_level when set.
const EnvLogLevel = "RASTER_FEATURES_LOG_LEVEL"

// maxFileSize bounds the config file read by Load.
const maxFileSize = 1 << 20

// SARConfig configures the Sentinel-1 path.
type SARConfig struct {
	WindowSize         int           `yaml:"window_size"`
	WindowOfInterest   raster.Window `yaml:"window_of_interest"`
	FullScene          bool          `yaml:"full_scene"`
	QuantizationLevels int           `yaml:"quantization_levels"`
}

// OpticalConfig configures the Sentinel-2 path.
type OpticalConfig struct {
	Epsilon         float64 `yaml:"epsilon"`
	ExcludedClasses []int   `yaml:"excluded_classes"`
	ResampleFill    float64 `yaml:"resample_fill"`
}

// PreviewConfig configures PNG quicklooks.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
	MaxSize int  `yaml:"max_size"`
}

// Config is the root of the configuration file.
type Config struct {
	DataRoot   string        `yaml:"data_root"`
	OutputRoot string        `yaml:"output_root"`
	Workers    int           `yaml:"workers"`
	SAR        SARConfig     `yaml:"sar"`
	Optical    OpticalConfig `yaml:"optical"`
	Preview    PreviewConfig `yaml:"preview"`
	LogLevel   string        `yaml:"log_level"`
	LogFormat  string        `yaml:"log_format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataRoot:   filepath.Join("data", "raw"),
		OutputRoot: filepath.Join("data", "processed"),
		Workers:    1,
		SAR: SARConfig{
			WindowSize:         7,
			WindowOfInterest:   raster.Window{Rows: 2000, Cols: 2000},
			QuantizationLevels: 256,
		},
		Optical: OpticalConfig{
			Epsilon:         1e-6,
			ExcludedClasses: []int{3, 8, 9, 10, 11},
		},
		Preview: PreviewConfig{
			MaxSize: 1024,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the YAML file at path over Default. An empty path loads the
// defaults alone. Unknown keys are rejected so that typos surface early.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		if err := Decode(f, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Decode parses YAML from r into cfg, keeping cfg's values for absent keys.
// An empty document is not an error.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
}

// Validate checks the configuration before any processing starts.
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return fmt.Errorf("data_root must not be empty")
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output_root must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.SAR.WindowSize < 1 || c.SAR.WindowSize%2 == 0 {
		return fmt.Errorf("sar.window_size must be a positive odd number, got %d", c.SAR.WindowSize)
	}
	if !c.SAR.FullScene {
		w := c.SAR.WindowOfInterest
		if w.Row < 0 || w.Col < 0 || w.Rows < 1 || w.Cols < 1 {
			return fmt.Errorf("sar.window_of_interest %v is invalid", w)
		}
	}
	if c.SAR.QuantizationLevels < 2 || c.SAR.QuantizationLevels > 256 {
		return fmt.Errorf("sar.quantization_levels must be between 2 and 256, got %d", c.SAR.QuantizationLevels)
	}
	if !(c.Optical.Epsilon > 0) {
		return fmt.Errorf("optical.epsilon must be positive, got %g", c.Optical.Epsilon)
	}
	for _, code := range c.Optical.ExcludedClasses {
		if code < 0 || code > 11 {
			return fmt.Errorf("optical.excluded_classes: %d is not a scene classification code", code)
		}
	}
	if c.Preview.Enabled && c.Preview.MaxSize < 1 {
		return fmt.Errorf("preview.max_size must be positive, got %d", c.Preview.MaxSize)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// NewLogger builds a logger writing to w at the configured level and format.
// The configuration must have passed Validate.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
	return log
}
