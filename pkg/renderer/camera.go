package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrInvalidCamera is returned when a camera configuration would produce a degenerate viewport
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains the parameters a camera is derived from
type CameraConfig struct {
	Width          int     // Image width in pixels
	AspectRatio    float64 // Nominal width / height
	ViewportHeight float64 // Height of the viewport in scene units
}

// DefaultCameraConfig returns a 400px wide 16:9 camera
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:          400,
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
	}
}

// Validate checks that the configuration yields a non-degenerate viewport
func (c CameraConfig) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidCamera, c.Width)
	}
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidCamera, c.AspectRatio)
	}
	if !(c.ViewportHeight > 0) || math.IsInf(c.ViewportHeight, 0) {
		return fmt.Errorf("%w: viewport height must be positive, got %g", ErrInvalidCamera, c.ViewportHeight)
	}
	if imageHeight(c.Width, c.AspectRatio) < 1 {
		return fmt.Errorf("%w: width %d and aspect ratio %g give an image height of 0",
			ErrInvalidCamera, c.Width, c.AspectRatio)
	}
	return nil
}

// imageHeight truncates width/aspect; the small aspect drift this causes is intended
func imageHeight(width int, aspectRatio float64) int {
	return int(float64(width) / aspectRatio)
}

// Camera generates rays for rendering.
// The eye sits at the origin looking down -Z with a focal length of 1.
type Camera struct {
	width, height  int
	viewportWidth  float64
	viewportHeight float64
	focalLength    float64

	eye         core.Point3
	direction   core.Vec3
	pixel00     core.Point3 // Center of the upper-left pixel
	pixelDeltaU core.Vec3   // Step to the next pixel to the right
	pixelDeltaV core.Vec3   // Step to the next pixel down
}

// NewCamera derives the viewport from config, failing fast on degenerate input
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	height := imageHeight(config.Width, config.AspectRatio)
	// Use the rounded height so the viewport matches the pixel grid exactly
	viewportWidth := config.ViewportHeight * (float64(config.Width) / float64(height))

	eye := core.NewVec3(0, 0, 0)
	direction := core.NewVec3(0, 0, -1)
	focalLength := 1.0

	viewportU := core.NewVec3(viewportWidth, 0, 0)
	viewportV := core.NewVec3(0, -config.ViewportHeight, 0)
	pixelDeltaU := viewportU.Divide(float64(config.Width))
	pixelDeltaV := viewportV.Divide(float64(height))

	viewportCenter := eye.Add(direction.Multiply(focalLength))
	upperLeft := viewportCenter.Subtract(viewportU.Multiply(0.5)).Subtract(viewportV.Multiply(0.5))
	pixel00 := upperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	return &Camera{
		width:          config.Width,
		height:         height,
		viewportWidth:  viewportWidth,
		viewportHeight: config.ViewportHeight,
		focalLength:    focalLength,
		eye:            eye,
		direction:      direction,
		pixel00:        pixel00,
		pixelDeltaU:    pixelDeltaU,
		pixelDeltaV:    pixelDeltaV,
	}, nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the derived image height in pixels
func (c *Camera) Height() int { return c.height }

// ViewportWidth returns the viewport width re-derived from the integer pixel grid
func (c *Camera) ViewportWidth() float64 { return c.viewportWidth }

// ViewportHeight returns the configured viewport height
func (c *Camera) ViewportHeight() float64 { return c.viewportHeight }

// PixelCenter returns the scene-space center of pixel (i, j); row 0 is the top
func (c *Camera) PixelCenter(i, j int) core.Point3 {
	return c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i))).
		Add(c.pixelDeltaV.Multiply(float64(j)))
}

// CenterRay returns the unjittered ray from the eye through the center of pixel (i, j)
func (c *Camera) CenterRay(i, j int) core.Ray {
	return core.NewRay(c.eye, c.PixelCenter(i, j).Subtract(c.eye))
}

// GetRay returns a ray from the eye through pixel (i, j), jittered by up to half a pixel on each axis
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	dx := core.RandomRange(sampler, -0.5, 0.5)
	dy := core.RandomRange(sampler, -0.5, 0.5)

	sample := c.PixelCenter(i, j).
		Add(c.pixelDeltaU.Multiply(dx)).
		Add(c.pixelDeltaV.Multiply(dy))

	return core.NewRay(c.eye, sample.Subtract(c.eye))
}
