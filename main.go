package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType      string
	configPath     string
	width          int
	aspectRatio    float64
	viewportHeight float64
	samples        int
	depth          int
	workers        int
	tileSize       int
	seed           int64
	format         string
	output         string
	help           bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	camera := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()
	opts := &options{}

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.sceneType, "scene", "default", "Built-in scene: "+strings.Join(scene.BuiltinNames(), ", "))
	fs.StringVar(&opts.configPath, "config", "", "JSON scene file (overrides -scene)")
	fs.IntVar(&opts.width, "width", camera.Width, "Image width in pixels")
	fs.Float64Var(&opts.aspectRatio, "aspect", camera.AspectRatio, "Aspect ratio (width / height)")
	fs.Float64Var(&opts.viewportHeight, "viewport-height", camera.ViewportHeight, "Viewport height in scene units")
	fs.IntVar(&opts.samples, "samples", sampling.SamplesPerPixel, "Samples per pixel")
	fs.IntVar(&opts.depth, "depth", sampling.MaxDepth, "Maximum ray bounce depth")
	fs.IntVar(&opts.workers, "workers", sampling.NumWorkers, "Number of parallel workers (0 = use CPU count)")
	fs.IntVar(&opts.tileSize, "tile", sampling.TileSize, "Tile size in pixels")
	fs.Int64Var(&opts.seed, "seed", sampling.Seed, "Random seed")
	fs.StringVar(&opts.format, "format", string(renderer.FormatPPM), "Output format: ppm or png")
	fs.StringVar(&opts.output, "out", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

// createScene resolves the scene and its render settings; explicitly set flags win over scene files
func createScene(opts *options, setFlags map[string]bool) (*scene.Scene, renderer.CameraConfig, renderer.SamplingConfig, error) {
	camera := renderer.CameraConfig{
		Width:          opts.width,
		AspectRatio:    opts.aspectRatio,
		ViewportHeight: opts.viewportHeight,
	}
	sampling := renderer.SamplingConfig{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		TileSize:        opts.tileSize,
		NumWorkers:      opts.workers,
		Seed:            opts.seed,
	}

	if opts.configPath == "" {
		s, err := scene.Builtin(opts.sceneType)
		if err != nil {
			return nil, camera, sampling, err
		}
		return s, camera, sampling, nil
	}

	sf, err := loaders.LoadSceneFile(opts.configPath)
	if err != nil {
		return nil, camera, sampling, err
	}

	fileCamera, fileSampling := sf.Camera, sf.Sampling
	if setFlags["width"] {
		fileCamera.Width = camera.Width
	}
	if setFlags["aspect"] {
		fileCamera.AspectRatio = camera.AspectRatio
	}
	if setFlags["viewport-height"] {
		fileCamera.ViewportHeight = camera.ViewportHeight
	}
	if setFlags["samples"] {
		fileSampling.SamplesPerPixel = sampling.SamplesPerPixel
	}
	if setFlags["depth"] {
		fileSampling.MaxDepth = sampling.MaxDepth
	}
	if setFlags["workers"] {
		fileSampling.NumWorkers = sampling.NumWorkers
	}
	if setFlags["tile"] {
		fileSampling.TileSize = sampling.TileSize
	}
	if setFlags["seed"] {
		fileSampling.Seed = sampling.Seed
	}
	return sf.Scene, fileCamera, fileSampling, nil
}

// outputPath picks the destination file for a render
func outputPath(opts *options, format renderer.Format, now time.Time) string {
	if opts.output != "" {
		return opts.output
	}
	name := opts.sceneType
	if opts.configPath != "" {
		name = strings.TrimSuffix(filepath.Base(opts.configPath), filepath.Ext(opts.configPath))
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", timestamp, format))
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Sphere Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	fmt.Fprintln(w, "  default - Diffuse sphere on a large ground sphere")
	fmt.Fprintln(w, "  metal   - Diffuse sphere between a silver and a gold mirror sphere")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.<format> unless -out is given")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}

	format, err := renderer.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	selectedScene, cameraConfig, samplingConfig, err := createScene(opts, setFlags)
	if err != nil {
		return err
	}

	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return err
	}

	logger := &writerLogger{w: stdout}
	raytracer, err := renderer.NewRaytracer(selectedScene, camera, samplingConfig, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Starting Sphere Raytracer (%d objects)...\n", selectedScene.Len())

	fb, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Samples per pixel: %.1f over %d tiles on %d workers\n",
		stats.AverageSamples(), stats.Tiles, stats.Workers)

	filename := outputPath(opts, format, time.Now())
	if err := writeImage(filename, fb, format); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render saved as %s\n", filename)
	return nil
}

// writeImage encodes the framebuffer to filename, creating parent directories as needed
func writeImage(filename string, fb *renderer.Framebuffer, format renderer.Format) (err error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := renderer.Encode(file, fb, format); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

// writerLogger implements core.Logger on an io.Writer
type writerLogger struct {
	w io.Writer
}

func (l *writerLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format, args...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
