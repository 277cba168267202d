package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
)

// ErrInvalidArgument is returned when an operation receives malformed input,
// such as a non-positive size or a fraction outside [0,1]. It is the same
// sentinel the geometry solver uses.
var ErrInvalidArgument = geometry.ErrInvalidArgument

// Image is an immutable bitmap together with the format it was decoded from.
//
// Every transform returns a new Image and leaves the receiver untouched, so
// operations can be chained freely:
//
//	out, err := img.Resize(imaging.ResizeOptions{Width: 800})
//	if err != nil {
//	    return err
//	}
//	out = out.Rotate(90, color.White)
//
// The pixel data is held as *image.NRGBA with its origin at (0,0).
type Image struct {
	pix    *image.NRGBA
	format Format
}

// New wraps img. The pixels are copied, so later changes to img do not leak
// into the returned Image.
func New(img image.Image, format Format) *Image {
	return &Image{pix: imaging.Clone(img), format: format}
}

// wrap adopts pix without copying; callers must not retain pix.
func (i *Image) wrap(pix *image.NRGBA) *Image {
	return &Image{pix: pix, format: i.format}
}

// Decode reads an image from data.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The format
// reported by the decoder is remembered and used as the default when encoding.
func Decode(data []byte) (*Image, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader reads an image from r. See Decode.
func DecodeReader(r io.Reader) (*Image, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return New(img, format), nil
}

// Width returns the image width in pixels.
func (i *Image) Width() int {
	return i.pix.Bounds().Dx()
}

// Height returns the image height in pixels.
func (i *Image) Height() int {
	return i.pix.Bounds().Dy()
}

// Format returns the format the image was decoded from.
func (i *Image) Format() Format {
	return i.format
}

// WithFormat returns a copy of the image that encodes to format by default.
func (i *Image) WithFormat(format Format) *Image {
	return &Image{pix: i.pix, format: format}
}

// Bitmap returns a copy of the pixel data.
func (i *Image) Bitmap() *image.NRGBA {
	return imaging.Clone(i.pix)
}
