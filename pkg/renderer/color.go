package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// intensity is the range quantized colors are clamped to before scaling by 256
var intensity = core.NewInterval(0.000, 0.999)

// RGB is an 8-bit display color
type RGB [3]uint8

// LinearToGamma maps a linear component to gamma 2 space; non-positive values map to 0
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// ToRGB gamma-corrects a linear color and quantizes it to bytes
func ToRGB(linear core.Vec3) RGB {
	return RGB{
		quantize(linear.X),
		quantize(linear.Y),
		quantize(linear.Z),
	}
}

func quantize(linear float64) uint8 {
	return uint8(256 * intensity.Clamp(LinearToGamma(linear)))
}

// ToImage copies a height × width pixel buffer into an opaque RGBA image
func ToImage(pixels [][]RGB) *image.RGBA {
	height := len(pixels)
	width := 0
	if height > 0 {
		width = len(pixels[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y, row := range pixels {
		for x, p := range row {
			img.SetRGBA(x, y, color.RGBA{R: p[0], G: p[1], B: p[2], A: 255})
		}
	}
	return img
}
