package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// ErrInvalidMaterial is returned for materials with out-of-range albedo or an unknown kind
var ErrInvalidMaterial = errors.New("invalid material")

// Kind selects the scattering model of a material
type Kind int

const (
	// Diffuse scatters into a random direction in the hemisphere around the normal
	Diffuse Kind = iota
	// Metal reflects as a perfect mirror
	Metal
)

func (k Kind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Metal:
		return "metal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a scene-file name onto a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diffuse", "lambertian":
		return Diffuse, nil
	case "metal", "mirror":
		return Metal, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidMaterial, name)
	}
}

// Material describes how a surface scatters light.
// Materials are never mutated during a render and may be shared by many objects.
type Material struct {
	Albedo core.Color // Per-channel reflectance in [0,1]
	Kind   Kind
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Color) *Material {
	return &Material{Albedo: albedo, Kind: Diffuse}
}

// NewMetal creates a new mirror-like metal material
func NewMetal(albedo core.Color) *Material {
	return &Material{Albedo: albedo, Kind: Metal}
}

// Validate checks the albedo range and kind
func (m *Material) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil material", ErrInvalidMaterial)
	}
	for _, c := range []float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z} {
		if !(c >= 0 && c <= 1) {
			return fmt.Errorf("%w: albedo %v outside [0,1]", ErrInvalidMaterial, m.Albedo)
		}
	}
	if m.Kind != Diffuse && m.Kind != Metal {
		return fmt.Errorf("%w: %v", ErrInvalidMaterial, m.Kind)
	}
	return nil
}

// Scatter computes the outgoing ray for an incoming ray at a hit.
// It returns false when the ray is absorbed.
func (m *Material) Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	var direction core.Vec3

	switch m.Kind {
	case Diffuse:
		direction = core.RandomOnHemisphere(hit.Normal, sampler)
		// Catch degenerate scatter direction
		if direction.NearZero() {
			direction = hit.Normal
		}
	case Metal:
		direction = reflect(rayIn.Direction, hit.Normal)
	default:
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, true
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
