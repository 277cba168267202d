package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/soniakeys/quant/median"
)

// Format identifies an encoded image format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
)

// ParseFormat maps a format name ("png", "jpg", "jpeg", "gif", "bmp", "tif",
// "tiff", "webp") to a Format. Matching is case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q: %w", name, ErrInvalidArgument)
	}
}

// MimeType returns the media type for f.
func (f Format) MimeType() string {
	return "image/" + string(f)
}

// EncodeOptions tunes the encoders. Zero values select library defaults.
type EncodeOptions struct {
	// Quality is the JPEG or lossy WebP quality, 1-100.
	Quality int

	// Compression is the PNG compression level.
	Compression png.CompressionLevel

	// Lossless switches WebP to lossless mode.
	Lossless bool

	// Colors is the GIF palette size, 2-256.
	Colors int
}

const (
	defaultQuality   = 85
	defaultGIFColors = 256
)

// Encode writes the image to w in the given format. An empty format uses the
// format the image was decoded from.
//
// JPEG, PNG, BMP and TIFF are written by disintegration/imaging. GIF uses a
// median-cut palette of opts.Colors entries. WebP is written lossy at
// opts.Quality, or lossless when opts.Lossless is set.
func (i *Image) Encode(w io.Writer, format Format, opts EncodeOptions) error {
	if format == "" {
		format = i.format
	}
	quality := opts.Quality
	if quality == 0 {
		quality = defaultQuality
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality %d must be within 1-100: %w", quality, ErrInvalidArgument)
	}

	var err error
	switch format {
	case JPEG:
		err = imaging.Encode(w, i.pix, imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		err = imaging.Encode(w, i.pix, imaging.PNG, imaging.PNGCompressionLevel(opts.Compression))
	case BMP:
		err = imaging.Encode(w, i.pix, imaging.BMP)
	case TIFF:
		err = imaging.Encode(w, i.pix, imaging.TIFF)
	case GIF:
		colors := opts.Colors
		if colors == 0 {
			colors = defaultGIFColors
		}
		if colors < 2 || colors > 256 {
			return fmt.Errorf("gif colors %d must be within 2-256: %w", colors, ErrInvalidArgument)
		}
		err = gif.Encode(w, i.pix, &gif.Options{NumColors: colors, Quantizer: median.Quantizer(colors)})
	case WebP:
		err = webp.Encode(w, i.pix, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
	default:
		return fmt.Errorf("unsupported image format %q: %w", format, ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Bytes encodes the image and returns the encoded data.
func (i *Image) Bytes(format Format, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := i.Encode(&buf, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImageResult carries an encoded image for transport.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Result encodes the image and wraps it as base64 in an ImageResult.
func (i *Image) Result(format Format, opts EncodeOptions) (*ImageResult, error) {
	if format == "" {
		format = i.format
	}
	data, err := i.Bytes(format, opts)
	if err != nil {
		return nil, err
	}
	return &ImageResult{
		Width:       i.Width(),
		Height:      i.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    format.MimeType(),
	}, nil
}
