package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// ErrUnknownScene is returned by Builtin for names it does not know
var ErrUnknownScene = errors.New("unknown scene")

var builtins = map[string]func() *Scene{
	"default": NewDefaultScene,
	"metal":   NewMetalScene,
}

// Builtin returns a freshly constructed built-in scene by name
func Builtin(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, BuiltinNames())
	}
	return build(), nil
}

// BuiltinNames lists the built-in scene names in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDefaultScene creates a single diffuse sphere resting on a large ground sphere
func NewDefaultScene() *Scene {
	s := NewScene()

	sphereMaterial := material.NewDiffuse(core.NewVec3(0.7, 0.3, 0.3))
	groundMaterial := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))

	mustAdd(s.AddSphere(core.NewVec3(0, 0, -1), 0.5, sphereMaterial, "center"))
	mustAdd(s.AddSphere(core.NewVec3(0, -100.5, -1), 100, groundMaterial, "ground"))

	return s
}

// NewMetalScene creates a diffuse sphere flanked by two mirror spheres
func NewMetalScene() *Scene {
	s := NewScene()

	groundMaterial := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0))
	centerMaterial := material.NewDiffuse(core.NewVec3(0.7, 0.3, 0.3))
	silver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8))
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2))

	mustAdd(s.AddSphere(core.NewVec3(0, -100.5, -1), 100, groundMaterial, "ground"))
	mustAdd(s.AddSphere(core.NewVec3(0, 0, -1), 0.5, centerMaterial, "center"))
	mustAdd(s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, silver, "left"))
	mustAdd(s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold, "right"))

	return s
}

// mustAdd panics on errors from hard-coded scene definitions
func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
