package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
)

// Crop extracts a rectangular region from the image
func (i *Image) Crop(r geometry.Rect) (*Image, error) {
	if r.Width < 1 || r.Height < 1 {
		return nil, fmt.Errorf("crop size %dx%d must be positive: %w", r.Width, r.Height, ErrInvalidArgument)
	}
	if !r.Within(i.Width(), i.Height()) {
		return nil, fmt.Errorf("crop region %+v outside image bounds %dx%d: %w",
			r, i.Width(), i.Height(), ErrInvalidArgument)
	}
	return i.wrap(imaging.Crop(i.pix, r.Image())), nil
}

// CropRegion extracts a named region of the image
func (i *Image) CropRegion(region string) (*Image, error) {
	w, h := i.Width(), i.Height()
	midX, midY := w/2, h/2

	var r geometry.Rect
	switch region {
	case "top-left":
		r = geometry.Rect{X: 0, Y: 0, Width: midX, Height: midY}
	case "top-right":
		r = geometry.Rect{X: midX, Y: 0, Width: w - midX, Height: midY}
	case "bottom-left":
		r = geometry.Rect{X: 0, Y: midY, Width: midX, Height: h - midY}
	case "bottom-right":
		r = geometry.Rect{X: midX, Y: midY, Width: w - midX, Height: h - midY}
	case "top-half":
		r = geometry.Rect{X: 0, Y: 0, Width: w, Height: midY}
	case "bottom-half":
		r = geometry.Rect{X: 0, Y: midY, Width: w, Height: h - midY}
	case "left-half":
		r = geometry.Rect{X: 0, Y: 0, Width: midX, Height: h}
	case "right-half":
		r = geometry.Rect{X: midX, Y: 0, Width: w - midX, Height: h}
	case "center":
		// Center 50% of the image
		qW, qH := w/4, h/4
		r = geometry.Rect{X: qW, Y: qH, Width: w - 2*qW, Height: h - 2*qH}
	default:
		return nil, fmt.Errorf("unknown region %q: %w", region, ErrInvalidArgument)
	}

	return i.Crop(r)
}
