package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ShadowAcneEpsilon is the lower t bound for scene intersection, so a scattered
// ray does not re-hit the surface it starts on
const ShadowAcneEpsilon = 0.001

// ErrInvalidSampling is returned for non-positive sample counts, depths or tile sizes
var ErrInvalidSampling = errors.New("invalid sampling configuration")

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	TileSize        int   // Edge length of a square render tile
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed for the per-tile random generators
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		TileSize:        32,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate checks the sampling configuration
func (c SamplingConfig) Validate() error {
	switch {
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidSampling, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidSampling, c.MaxDepth)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidSampling, c.TileSize)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidSampling, c.NumWorkers)
	}
	return nil
}

// World is the read-only view of a scene the raytracer intersects against
type World interface {
	Hit(ray core.Ray, tMin, tMax float64) (*scene.Hit, bool)
}

// Raytracer handles the rendering process
type Raytracer struct {
	world  World
	camera *Camera
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(world World, camera *Camera, config SamplingConfig, logger core.Logger) (*Raytracer, error) {
	if world == nil {
		return nil, errors.New("raytracer requires a scene")
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: nil camera", ErrInvalidCamera)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NopLogger{}
	}

	return &Raytracer{
		world:  world,
		camera: camera,
		config: config,
		logger: logger,
	}, nil
}

// Camera returns the camera the raytracer renders through
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// backgroundGradient returns a white-to-blue gradient based on ray direction
func backgroundGradient(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)

	return core.Lerp(skyWhite, skyBlue, a)
}

// RayColor returns the linear color carried back along ray
func (rt *Raytracer) RayColor(ray core.Ray, sampler core.Sampler) core.Color {
	return rt.rayColorRecursive(ray, rt.config.MaxDepth, sampler)
}

// rayColorRecursive returns the color for a given ray with material support
func (rt *Raytracer) rayColorRecursive(r core.Ray, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := rt.world.Hit(r, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return backgroundGradient(r)
	}
	if hit.Material == nil {
		return core.Color{}
	}

	scatter, didScatter := hit.Material.Scatter(r, hit.HitRecord, sampler)
	if !didScatter {
		return core.Color{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.rayColorRecursive(scatter.Scattered, depth-1, sampler))
}

// SamplePixel averages SamplesPerPixel jittered samples of pixel (i, j) in linear space
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Color {
	var ps PixelStats
	for ps.SampleCount < rt.config.SamplesPerPixel {
		ps.AddSample(rt.RayColor(rt.camera.GetRay(i, j, sampler), sampler))
	}
	return ps.GetColor()
}

// RenderBounds renders pixels within bounds into fb; only those pixels are written
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, fb *Framebuffer, sampler core.Sampler) RenderStats {
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			fb.Set(i, j, rt.SamplePixel(i, j, sampler))
		}
	}

	pixels := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:  pixels,
		TotalSamples: pixels * rt.config.SamplesPerPixel,
	}
}

// Render renders the full image in parallel tiles.
// Cancellation is checked between tiles; a cancelled render returns ctx.Err() and no framebuffer.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	startTime := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()

	fb := NewFramebuffer(width, height)
	tiles := NewTileGrid(width, height, rt.config.TileSize, rt.config.Seed)
	pool := NewWorkerPool(rt, fb, len(tiles), rt.config.NumWorkers)

	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, max depth %d, %d tiles on %d workers...\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for id, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: id})
	}

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	var renderErr error
	reportEvery := max(1, len(tiles)/10)

	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = errors.New("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}

		stats.merge(result.Stats)
		if stats.Tiles%reportEvery == 0 || stats.Tiles == len(tiles) {
			rt.logger.Printf("Tiles completed: %d/%d\n", stats.Tiles, len(tiles))
		}
	}
	pool.Stop()

	stats.Elapsed = time.Since(startTime)
	if renderErr != nil {
		rt.logger.Printf("Render aborted after %v: %v\n", stats.Elapsed, renderErr)
		return nil, stats, renderErr
	}

	rt.logger.Printf("Render completed in %v (%d samples)\n", stats.Elapsed, stats.TotalSamples)
	return fb, stats, nil
}
