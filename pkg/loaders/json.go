package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Vec3Cfg is a JSON [x, y, z] triple
type Vec3Cfg [3]float64

func (v Vec3Cfg) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

type CameraCfg struct {
	Width          int     `json:"width"`
	AspectRatio    float64 `json:"aspectRatio"`
	ViewportHeight float64 `json:"viewportHeight"`
}

type SamplingCfg struct {
	SamplesPerPixel int   `json:"samplesPerPixel"`
	MaxDepth        int   `json:"maxDepth"`
	TileSize        int   `json:"tileSize,omitempty"`
	Workers         int   `json:"workers,omitempty"`
	Seed            int64 `json:"seed,omitempty"`
}

type MaterialCfg struct {
	Kind   string  `json:"kind"`
	Albedo Vec3Cfg `json:"albedo"`
}

type SphereCfg struct {
	Label    string  `json:"label,omitempty"`
	Center   Vec3Cfg `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"` // key into Config.Materials
}

// Config is the on-disk scene description. Fields left out keep their defaults.
type Config struct {
	Camera    CameraCfg              `json:"camera"`
	Sampling  SamplingCfg            `json:"sampling"`
	Materials map[string]MaterialCfg `json:"materials"`
	Spheres   []SphereCfg            `json:"spheres"`
}

// SceneFile is a loaded scene together with the camera and sampling settings it asks for
type SceneFile struct {
	Scene    *scene.Scene
	Camera   renderer.CameraConfig
	Sampling renderer.SamplingConfig
}

func defaultConfig() Config {
	cam := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()
	return Config{
		Camera: CameraCfg{
			Width:          cam.Width,
			AspectRatio:    cam.AspectRatio,
			ViewportHeight: cam.ViewportHeight,
		},
		Sampling: SamplingCfg{
			SamplesPerPixel: sampling.SamplesPerPixel,
			MaxDepth:        sampling.MaxDepth,
			TileSize:        sampling.TileSize,
			Workers:         sampling.NumWorkers,
			Seed:            sampling.Seed,
		},
	}
}

// LoadSceneFile reads and builds a JSON scene description
func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	sf, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

// ParseSceneFile builds a scene from JSON. Unknown fields are rejected.
func ParseSceneFile(data []byte) (*SceneFile, error) {
	cfg := defaultConfig()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scene json: %w", err)
	}

	return cfg.Build()
}

// Build validates the description and constructs the scene
func (cfg Config) Build() (*SceneFile, error) {
	camera := renderer.CameraConfig{
		Width:          cfg.Camera.Width,
		AspectRatio:    cfg.Camera.AspectRatio,
		ViewportHeight: cfg.Camera.ViewportHeight,
	}
	if err := camera.Validate(); err != nil {
		return nil, err
	}

	sampling := renderer.SamplingConfig{
		SamplesPerPixel: cfg.Sampling.SamplesPerPixel,
		MaxDepth:        cfg.Sampling.MaxDepth,
		TileSize:        cfg.Sampling.TileSize,
		NumWorkers:      cfg.Sampling.Workers,
		Seed:            cfg.Sampling.Seed,
	}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	materials, err := buildMaterials(cfg.Materials)
	if err != nil {
		return nil, err
	}

	s := scene.NewScene()
	for i, sc := range cfg.Spheres {
		label := sc.Label
		if label == "" {
			label = fmt.Sprintf("sphere[%d]", i)
		}
		mat, ok := materials[sc.Material]
		if !ok {
			return nil, fmt.Errorf("object %q: unknown material %q", label, sc.Material)
		}
		if err := s.AddSphere(sc.Center.vec(), sc.Radius, mat, label); err != nil {
			return nil, err
		}
	}

	return &SceneFile{Scene: s, Camera: camera, Sampling: sampling}, nil
}

// buildMaterials creates one shared instance per named material
func buildMaterials(cfgs map[string]MaterialCfg) (map[string]*material.Material, error) {
	names := make([]string, 0, len(cfgs))
	for name := range cfgs {
		names = append(names, name)
	}
	// Sorted so the first reported error is stable
	sort.Strings(names)

	materials := make(map[string]*material.Material, len(cfgs))
	for _, name := range names {
		mc := cfgs[name]
		kind, err := material.ParseKind(mc.Kind)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		mat := &material.Material{Albedo: mc.Albedo.vec(), Kind: kind}
		if err := mat.Validate(); err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}
	return materials, nil
}
