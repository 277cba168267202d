package imaging

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// TextOptions describes a text overlay.
type TextOptions struct {
	// FontPath is a TrueType font file. When empty the built-in 7x13
	// bitmap face is used and Size is ignored.
	FontPath string

	// Size is the font size in points.
	Size float64

	// Color of the glyphs. Nil means opaque black.
	Color color.Color

	// X and Y locate the anchor point in pixels.
	X float64
	Y float64

	// AnchorX and AnchorY place the text relative to (X,Y). AnchorX 0 puts
	// the left edge at X and 1 the right edge. AnchorY 0 puts the baseline
	// at Y and 1 puts the top of the text there.
	AnchorX float64
	AnchorY float64

	// Angle rotates the text counter-clockwise around (X,Y), in degrees.
	Angle float64
}

// Text draws text onto a copy of the image.
func (i *Image) Text(text string, opts TextOptions) (*Image, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required: %w", ErrInvalidArgument)
	}
	if opts.AnchorX < 0 || opts.AnchorX > 1 || opts.AnchorY < 0 || opts.AnchorY > 1 {
		return nil, fmt.Errorf("anchor (%g,%g) must be within [0,1]: %w", opts.AnchorX, opts.AnchorY, ErrInvalidArgument)
	}

	dc := gg.NewContextForImage(i.pix)
	if opts.FontPath != "" {
		if opts.Size <= 0 {
			return nil, fmt.Errorf("font size %g must be positive: %w", opts.Size, ErrInvalidArgument)
		}
		if err := dc.LoadFontFace(opts.FontPath, opts.Size); err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
	}

	c := opts.Color
	if c == nil {
		c = color.Black
	}
	dc.SetColor(c)

	if opts.Angle != 0 {
		dc.RotateAbout(gg.Radians(-opts.Angle), opts.X, opts.Y)
	}
	dc.DrawStringAnchored(text, opts.X, opts.Y, opts.AnchorX, opts.AnchorY)

	return New(dc.Image(), i.format), nil
}
