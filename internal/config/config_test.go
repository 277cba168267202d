package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
	"github.com/ironsheep/image-ops-mcp/internal/logging"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	data := []byte(`
log_level: debug
resize:
  filter: catmullrom
  mode: cover
  align_x: 0
palette:
  count: 8
  seed: 42
encode:
  webp_lossless: true
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Level() != logging.LevelDebug {
		t.Errorf("LogLevel: got %s, want debug", cfg.LogLevel)
	}
	if cfg.Resize.Filter != "catmullrom" || cfg.Resize.Mode != geometry.Cover {
		t.Errorf("Resize: got %+v", cfg.Resize)
	}
	if cfg.Resize.AlignX != 0 || cfg.Resize.AlignY != 0.5 {
		t.Errorf("alignment: got (%g,%g), want (0,0.5)", cfg.Resize.AlignX, cfg.Resize.AlignY)
	}
	if cfg.Palette.Count != 8 || cfg.Palette.Seed != 42 {
		t.Errorf("Palette: got %+v", cfg.Palette)
	}
	// Untouched keys keep their defaults
	if cfg.Palette.SampleSize != 100 || !cfg.Palette.Sort {
		t.Errorf("Palette defaults lost: %+v", cfg.Palette)
	}
	if !cfg.Encode.WebPLossless || cfg.Encode.JPEGQuality != 85 {
		t.Errorf("Encode: got %+v", cfg.Encode)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Palette.Count != Default().Palette.Count {
		t.Errorf("empty input should yield defaults, got %+v", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"bad mode", "resize:\n  mode: stretch\n", "stretch"},
		{"bad filter", "resize:\n  filter: box\n", "resize.filter"},
		{"bad level", "log_level: chatty\n", "log_level"},
		{"bad align", "resize:\n  align_y: 2\n", "align"},
		{"bad quality", "encode:\n  jpeg_quality: 0\n", "jpeg_quality"},
		{"bad compression", "encode:\n  png_compression: 4\n", "png_compression"},
		{"bad gif colors", "encode:\n  gif_colors: 1\n", "gif_colors"},
		{"bad count", "palette:\n  count: 0\n", "palette.count"},
		{"bad epsilon", "palette:\n  epsilon: -1\n", "epsilon"},
		{"bad workers", "palette:\n  workers: 0\n", "workers"},
		{"bad font size", "text:\n  font_size: 0\n", "font_size"},
		{"bad color", "text:\n  color: purple\n", "text.color"},
		{"missing font", "text:\n  font_path: /nonexistent/font.ttf\n", "font_path"},
		{"not yaml", "resize: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("palette:\n  workers: 4\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Palette.Workers != 4 {
		t.Errorf("Workers: got %d, want 4", cfg.Palette.Workers)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %s, want info", cfg.LogLevel)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Level() != logging.LevelWarn {
		t.Errorf("LogLevel: got %s, want warn", cfg.LogLevel)
	}
}
