package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Rotate turns the image counter-clockwise by angle degrees.
//
// Multiples of 90 degrees are exact pixel permutations. Other angles grow the
// canvas to hold the whole rotated image, and the uncovered corners are
// filled with bg. A nil bg leaves them transparent.
func (i *Image) Rotate(angle float64, bg color.Color) *Image {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}

	switch angle {
	case 0:
		return i.wrap(i.pix)
	case 90:
		return i.wrap(imaging.Rotate90(i.pix))
	case 180:
		return i.wrap(imaging.Rotate180(i.pix))
	case 270:
		return i.wrap(imaging.Rotate270(i.pix))
	}

	// bild rotates clockwise
	rotated := transform.Rotate(i.pix, -angle, &transform.RotationOptions{ResizeBounds: true})
	if bg == nil {
		return i.wrap(imaging.Clone(rotated))
	}

	b := rotated.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return i.wrap(imaging.Overlay(canvas, rotated, image.Pt(0, 0), 1.0))
}
