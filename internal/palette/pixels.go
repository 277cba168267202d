package palette

import (
	"image"
	"image/color"
)

// Pixels returns the colors of img in row-major order, reduced to 8 bits per
// channel with alpha dropped. Channels are read un-premultiplied, so a
// translucent pixel keeps its own color.
func Pixels(img image.Image) []Color3 {
	bounds := img.Bounds()
	pixels := make([]Color3, 0, bounds.Dx()*bounds.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := nrgba.NRGBAAt(x, y)
				pixels = append(pixels, Color3{R: c.R, G: c.G, B: c.B})
			}
		}
		return pixels
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, Color3{R: c.R, G: c.G, B: c.B})
		}
	}
	return pixels
}
