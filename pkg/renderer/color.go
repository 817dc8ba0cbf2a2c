package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// channelCeiling keeps the quantized value below 256 after truncation
const channelCeiling = 0.999

// LinearToGamma applies gamma 2 correction to a linear channel value
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// QuantizeChannel maps a gamma-corrected channel to an integer in [0, 255]
func QuantizeChannel(value float64) uint8 {
	if math.IsNaN(value) {
		return 0
	}
	return uint8(max(0, min(channelCeiling, value)) * 256)
}

// RGB8 is a quantized output pixel
type RGB8 struct {
	R, G, B uint8
}

// ToRGB8 gamma-corrects and quantizes an averaged linear color
func ToRGB8(linear core.Color) RGB8 {
	return RGB8{
		R: QuantizeChannel(LinearToGamma(linear.X)),
		G: QuantizeChannel(LinearToGamma(linear.Y)),
		B: QuantizeChannel(LinearToGamma(linear.Z)),
	}
}

// Framebuffer holds the averaged linear color of every pixel, row-major with row 0 at the top
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// Set stores the linear color of pixel (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Color) {
	fb.Pixels[y*fb.Width+x] = c
}

// At returns the linear color of pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Color {
	return fb.Pixels[y*fb.Width+x]
}

// RGB8At returns the quantized output value of pixel (x, y)
func (fb *Framebuffer) RGB8At(x, y int) RGB8 {
	return ToRGB8(fb.At(x, y))
}

// ToRGBA converts the framebuffer to an image using the same quantization as the PPM output
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.RGB8At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}
