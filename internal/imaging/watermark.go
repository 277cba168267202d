package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
)

// WatermarkOptions positions and blends a watermark.
type WatermarkOptions struct {
	// AlignX and AlignY place the mark inside the margins: 0 is the
	// left/top edge, 1 the right/bottom edge, 0.5 the center.
	AlignX float64
	AlignY float64

	// Margin is the distance in pixels kept free along every edge.
	Margin int

	// Opacity of the mark, 0 (invisible) to 1 (opaque).
	Opacity float64
}

// Watermark composites mark onto the image.
//
// A mark larger than the area inside the margins is scaled down, keeping its
// aspect ratio, until it fits. It is never enlarged.
func (i *Image) Watermark(mark *Image, opts WatermarkOptions) (*Image, error) {
	if mark == nil {
		return nil, fmt.Errorf("watermark image is required: %w", ErrInvalidArgument)
	}
	if opts.Opacity < 0 || opts.Opacity > 1 {
		return nil, fmt.Errorf("opacity %g must be within [0,1]: %w", opts.Opacity, ErrInvalidArgument)
	}
	if opts.AlignX < 0 || opts.AlignX > 1 || opts.AlignY < 0 || opts.AlignY > 1 {
		return nil, fmt.Errorf("alignment (%g,%g) must be within [0,1]: %w", opts.AlignX, opts.AlignY, ErrInvalidArgument)
	}

	boxW := i.Width() - 2*opts.Margin
	boxH := i.Height() - 2*opts.Margin
	if opts.Margin < 0 || boxW < 1 || boxH < 1 {
		return nil, fmt.Errorf("margin %d leaves no room in %dx%d image: %w", opts.Margin, i.Width(), i.Height(), ErrInvalidArgument)
	}

	fitted, err := mark.Resize(ResizeOptions{
		Width:  boxW,
		Height: boxH,
		Mode:   geometry.Contain,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fit watermark: %w", err)
	}

	pos := image.Pt(
		opts.Margin+int(math.Round(float64(boxW-fitted.Width())*opts.AlignX)),
		opts.Margin+int(math.Round(float64(boxH-fitted.Height())*opts.AlignY)),
	)
	return i.wrap(imaging.Overlay(i.pix, fitted.pix, pos, opts.Opacity)), nil
}
