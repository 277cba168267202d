package imaging

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
	"github.com/ironsheep/image-ops-mcp/internal/palette"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// The stored color is not premultiplied, so RGB reports the color as authored
// even for translucent pixels; use RGBA.A to get transparency information.
func (i *Image) SampleColor(x, y int) (*ColorResult, error) {
	if x < 0 || x >= i.Width() || y < 0 || y >= i.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds: %w", x, y, ErrInvalidArgument)
	}

	c := i.pix.NRGBAAt(x, y)
	return &ColorResult{
		Hex:  hexString(c.R, c.G, c.B),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  hsl(c.R, c.G, c.B),
	}, nil
}

// ColorFrequency represents a representative color and the share of sampled
// pixels closest to it.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB"
	Percentage float64  `json:"percentage"` // Percentage of sampled pixels in this cluster (0-100)
	Count      int      `json:"count"`      // Number of sampled pixels in this cluster
	RGB        RGBColor `json:"rgb"`        // RGB components
	HSL        HSLColor `json:"hsl"`        // HSL representation
}

// DominantColorsResult contains the representative colors of an image.
type DominantColorsResult struct {
	Colors        []ColorFrequency `json:"colors"`
	SampledWidth  int              `json:"sampled_width"`  // Width of the downsampled image that was clustered
	SampledHeight int              `json:"sampled_height"` // Height of the downsampled image that was clustered
}

// PaletteOptions controls DominantColors.
type PaletteOptions struct {
	// Count is the number of colors to return.
	Count int

	// SampleSize bounds the downsampled image used for clustering; the
	// image is shrunk to fit a SampleSize x SampleSize box first. Zero
	// clusters every pixel.
	SampleSize int

	// Epsilon is the convergence threshold on centroid drift.
	Epsilon float64

	// MaxIterations caps the clustering loop. Zero means no cap.
	MaxIterations int

	// Workers shards the clustering assignment step.
	Workers int

	// Sort orders colors by descending frequency.
	Sort bool

	// Rand makes the result reproducible. Nil uses a time-seeded source.
	Rand *rand.Rand
}

// DominantColors extracts Count representative colors with k-means clustering.
//
// The image is first shrunk (never enlarged) to fit a SampleSize box, then
// every remaining pixel is clustered. Each returned color is the floored
// centroid of a cluster, with its share of the sampled pixels.
//
// # Errors
//
//   - Count below 1, negative Epsilon or SampleSize
//   - fewer sampled pixels than Count
func (i *Image) DominantColors(opts PaletteOptions) (*DominantColorsResult, error) {
	if opts.SampleSize < 0 {
		return nil, fmt.Errorf("sample size %d must not be negative: %w", opts.SampleSize, ErrInvalidArgument)
	}

	sample := i
	if opts.SampleSize > 0 {
		var err error
		sample, err = i.Resize(ResizeOptions{
			Width:  opts.SampleSize,
			Height: opts.SampleSize,
			Mode:   geometry.Contain,
			Filter: Bilinear,
		})
		if err != nil {
			return nil, err
		}
	}

	pixels := palette.Pixels(sample.pix)
	clusters, err := palette.ClusterColors(pixels, palette.Options{
		K:             opts.Count,
		Epsilon:       opts.Epsilon,
		Sort:          opts.Sort,
		MaxIterations: opts.MaxIterations,
		Workers:       opts.Workers,
		Rand:          opts.Rand,
	})
	if errors.Is(err, palette.ErrInvalidArgument) {
		return nil, fmt.Errorf("dominant colors: %v: %w", err, ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cluster colors: %w", err)
	}

	colors := make([]ColorFrequency, 0, len(clusters))
	for _, c := range clusters {
		colors = append(colors, ColorFrequency{
			Hex:        hexString(c.Color.R, c.Color.G, c.Color.B),
			Percentage: math.Round(float64(c.Count)/float64(len(pixels))*10000) / 100,
			Count:      c.Count,
			RGB:        RGBColor{R: c.Color.R, G: c.Color.G, B: c.Color.B},
			HSL:        hsl(c.Color.R, c.Color.G, c.Color.B),
		})
	}

	return &DominantColorsResult{
		Colors:        colors,
		SampledWidth:  sample.Width(),
		SampledHeight: sample.Height(),
	}, nil
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading '#' is
// optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3, 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, ErrInvalidArgument)
	}

	alpha := uint8(255)
	if len(hex) == 8 {
		var a uint8
		if _, err := fmt.Sscanf(hex[6:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, ErrInvalidArgument)
		}
		alpha = a
		hex = hex[:6]
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, ErrInvalidArgument)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func hexString(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hsl converts 8-bit RGB to whole-number HSL: hue in degrees, saturation and
// lightness in percent.
func hsl(r, g, b uint8) HSLColor {
	h, s, l := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}
}
