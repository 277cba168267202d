// Package config provides configuration loading and management.
//
// A configuration file is optional. Missing keys keep the values from
// Default, so a file only needs to mention what it changes:
//
//	log_level: debug
//	resize:
//	  filter: catmullrom
//	  mode: cover
//	palette:
//	  count: 8
//	  seed: 42
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
	"github.com/ironsheep/image-ops-mcp/internal/imaging"
	"github.com/ironsheep/image-ops-mcp/internal/logging"
)

// EnvLogLevel names the environment variable that overrides log_level.
const EnvLogLevel = "IMAGE_MCP_LOG_LEVEL"

// Config represents the full configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Resize   ResizeConfig  `yaml:"resize"`
	Encode   EncodeConfig  `yaml:"encode"`
	Palette  PaletteConfig `yaml:"palette"`
	Text     TextConfig    `yaml:"text"`
}

// ResizeConfig holds the defaults for resize requests that leave a field unset.
type ResizeConfig struct {
	Filter        string              `yaml:"filter"`
	Mode          geometry.SizingMode `yaml:"mode"`
	AllowIncrease bool                `yaml:"allow_increase"`
	AlignX        float64             `yaml:"align_x"`
	AlignY        float64             `yaml:"align_y"`
}

// EncodeConfig tunes the image encoders.
type EncodeConfig struct {
	JPEGQuality    int  `yaml:"jpeg_quality"`
	PNGCompression int  `yaml:"png_compression"`
	WebPLossless   bool `yaml:"webp_lossless"`
	GIFColors      int  `yaml:"gif_colors"`
}

// PaletteConfig holds the dominant-color defaults.
type PaletteConfig struct {
	Count         int     `yaml:"count"`
	SampleSize    int     `yaml:"sample_size"`
	Epsilon       float64 `yaml:"epsilon"`
	MaxIterations int     `yaml:"max_iterations"`
	Workers       int     `yaml:"workers"`
	Sort          bool    `yaml:"sort"`
	// Seed makes clustering reproducible. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// TextConfig holds the text overlay defaults.
type TextConfig struct {
	FontPath string  `yaml:"font_path"`
	FontSize float64 `yaml:"font_size"`
	Color    string  `yaml:"color"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Resize: ResizeConfig{
			Filter: string(imaging.Lanczos),
			Mode:   geometry.Contain,
			AlignX: 0.5,
			AlignY: 0.5,
		},
		Encode: EncodeConfig{
			JPEGQuality: 85,
			GIFColors:   256,
		},
		Palette: PaletteConfig{
			Count:         5,
			SampleSize:    100,
			Epsilon:       1,
			MaxIterations: 100,
			Workers:       1,
			Sort:          true,
		},
		Text: TextConfig{
			FontSize: 24,
			Color:    "#000000",
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// Validate checks every field and reports the first problem found.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if _, err := imaging.ParseFilter(c.Resize.Filter); err != nil {
		return fmt.Errorf("resize.filter: %w", err)
	}
	if c.Resize.AlignX < 0 || c.Resize.AlignX > 1 || c.Resize.AlignY < 0 || c.Resize.AlignY > 1 {
		return fmt.Errorf("resize.align_x and align_y must be within [0,1]")
	}

	if c.Encode.JPEGQuality < 1 || c.Encode.JPEGQuality > 100 {
		return fmt.Errorf("encode.jpeg_quality %d must be within 1-100", c.Encode.JPEGQuality)
	}
	// png.CompressionLevel: 0 default, -1 none, -2 best speed, -3 best compression
	if c.Encode.PNGCompression < -3 || c.Encode.PNGCompression > 0 {
		return fmt.Errorf("encode.png_compression %d must be within -3..0", c.Encode.PNGCompression)
	}
	if c.Encode.GIFColors < 2 || c.Encode.GIFColors > 256 {
		return fmt.Errorf("encode.gif_colors %d must be within 2-256", c.Encode.GIFColors)
	}

	if c.Palette.Count < 1 {
		return fmt.Errorf("palette.count %d must be positive", c.Palette.Count)
	}
	if c.Palette.SampleSize < 0 {
		return fmt.Errorf("palette.sample_size %d must not be negative", c.Palette.SampleSize)
	}
	if c.Palette.Epsilon < 0 {
		return fmt.Errorf("palette.epsilon %g must not be negative", c.Palette.Epsilon)
	}
	if c.Palette.MaxIterations < 0 {
		return fmt.Errorf("palette.max_iterations %d must not be negative", c.Palette.MaxIterations)
	}
	if c.Palette.Workers < 1 {
		return fmt.Errorf("palette.workers %d must be positive", c.Palette.Workers)
	}

	if c.Text.FontSize <= 0 {
		return fmt.Errorf("text.font_size %g must be positive", c.Text.FontSize)
	}
	if _, err := imaging.ParseHexColor(c.Text.Color); err != nil {
		return fmt.Errorf("text.color: %w", err)
	}
	if c.Text.FontPath != "" {
		if _, err := os.Stat(c.Text.FontPath); err != nil {
			return fmt.Errorf("text.font_path: %w", err)
		}
	}

	return nil
}
