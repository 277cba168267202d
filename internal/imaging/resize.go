package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
)

// Filter selects the resampling kernel used when a resize plan is applied.
type Filter string

// Supported filters.
const (
	Nearest    Filter = "nearest"
	Bilinear   Filter = "bilinear"
	CatmullRom Filter = "catmullrom"
	Lanczos    Filter = "lanczos"
)

// ParseFilter maps a filter name to a Filter. An empty name yields Lanczos.
func ParseFilter(name string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return Lanczos, nil
	case Nearest, Bilinear, CatmullRom, Lanczos:
		return f, nil
	default:
		return "", fmt.Errorf("unknown resample filter %q: %w", name, ErrInvalidArgument)
	}
}

// ResizeOptions describes a resize request. Width and Height are the desired
// dimensions, zero meaning unset; at least one must be given.
type ResizeOptions struct {
	Width         int
	Height        int
	AllowIncrease bool
	Mode          geometry.SizingMode
	AlignX        float64
	AlignY        float64
	Filter        Filter
}

// Plan solves the resize geometry for this image without touching pixels.
// A nil plan means the image already satisfies the request.
func (i *Image) Plan(opts ResizeOptions) (*geometry.Plan, error) {
	plan, err := geometry.Solve(geometry.Request{
		CurWidth:      i.Width(),
		CurHeight:     i.Height(),
		Width:         opts.Width,
		Height:        opts.Height,
		AllowIncrease: opts.AllowIncrease,
		Mode:          opts.Mode,
		AlignX:        opts.AlignX,
		AlignY:        opts.AlignY,
	})
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	return plan, nil
}

// Resize scales (and for Cover, clips) the image according to opts.
//
// When the request needs no change, the returned Image shares the receiver's
// pixels; since Images are never mutated this is indistinguishable from a copy.
func (i *Image) Resize(opts ResizeOptions) (*Image, error) {
	plan, err := i.Plan(opts)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.IsIdentity(i.Width(), i.Height()) {
		return i.wrap(i.pix), nil
	}
	return i.Apply(plan, opts.Filter)
}

// Apply resamples plan.Src into a plan.Width x plan.Height bitmap.
func (i *Image) Apply(plan *geometry.Plan, filter Filter) (*Image, error) {
	if !plan.Src.Within(i.Width(), i.Height()) {
		return nil, fmt.Errorf("source rect %+v outside %dx%d image: %w", plan.Src, i.Width(), i.Height(), ErrInvalidArgument)
	}
	if plan.Width < 1 || plan.Height < 1 {
		return nil, fmt.Errorf("destination %dx%d must be positive: %w", plan.Width, plan.Height, ErrInvalidArgument)
	}
	if filter == "" {
		filter = Lanczos
	}

	if filter == Lanczos {
		src := i.pix
		if plan.Src != (geometry.Rect{Width: i.Width(), Height: i.Height()}) {
			src = imaging.Crop(i.pix, plan.Src.Image())
		}
		return i.wrap(imaging.Resize(src, plan.Width, plan.Height, imaging.Lanczos)), nil
	}

	var interp draw.Interpolator
	switch filter {
	case Nearest:
		interp = draw.NearestNeighbor
	case Bilinear:
		interp = draw.BiLinear
	case CatmullRom:
		interp = draw.CatmullRom
	default:
		return nil, fmt.Errorf("unknown resample filter %q: %w", filter, ErrInvalidArgument)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	interp.Scale(dst, dst.Bounds(), i.pix, plan.Src.Image(), draw.Src, nil)
	return i.wrap(dst), nil
}
