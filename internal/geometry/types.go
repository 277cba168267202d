package geometry

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// ErrInvalidArgument is returned for malformed solver input.
var ErrInvalidArgument = errors.New("invalid argument")

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a rectangle anchored at (X, Y) with the given extent.
//
// Unlike image.Rectangle it stores width and height rather than the
// exclusive bottom-right corner.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Within reports whether r lies entirely inside a width x height bitmap.
func (r Rect) Within(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width >= 1 && r.Height >= 1 &&
		r.X+r.Width <= width && r.Y+r.Height <= height
}

// SizingMode selects how both desired dimensions are honored.
type SizingMode int

const (
	// Contain keeps the whole image visible inside the target box.
	Contain SizingMode = iota
	// Cover fills the target box, clipping the source where needed.
	Cover
	// Exact forces both dimensions, ignoring the aspect ratio.
	Exact
)

// String returns the lower-case name of the mode.
func (m SizingMode) String() string {
	switch m {
	case Contain:
		return "contain"
	case Cover:
		return "cover"
	case Exact:
		return "exact"
	default:
		return fmt.Sprintf("SizingMode(%d)", int(m))
	}
}

// ParseSizingMode parses "contain", "cover" or "exact" (case-insensitive).
// An empty string yields Contain.
func ParseSizingMode(s string) (SizingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contain":
		return Contain, nil
	case "cover":
		return Cover, nil
	case "exact":
		return Exact, nil
	default:
		return Contain, fmt.Errorf("unknown sizing mode %q: %w", s, ErrInvalidArgument)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SizingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SizingMode) UnmarshalText(text []byte) error {
	parsed, err := ParseSizingMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Request holds the inputs of a resize computation.
//
// Width and Height are the desired dimensions; zero means unset. At least one
// of them must be set.
type Request struct {
	CurWidth      int
	CurHeight     int
	Width         int
	Height        int
	AllowIncrease bool
	Mode          SizingMode
	AlignX        float64
	AlignY        float64
}

// Plan is the outcome of Solve: the part of the source to sample and the size
// it is resampled to.
type Plan struct {
	Src    Rect `json:"src"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

// Size returns the destination size of the plan.
func (p *Plan) Size() Size {
	return Size{Width: p.Width, Height: p.Height}
}

// IsIdentity reports whether p samples the whole width x height source at its
// own size, i.e. applying it would not change the image.
func (p *Plan) IsIdentity(width, height int) bool {
	return p.Src == Rect{Width: width, Height: height} && p.Width == width && p.Height == height
}
