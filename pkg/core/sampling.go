package core

import "math/rand"

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// RandomRange returns a uniform value in [lo, hi)
func RandomRange(sampler Sampler, lo, hi float64) float64 {
	return lo + (hi-lo)*sampler.Get1D()
}

// RandomInUnitSphere returns a point inside the unit ball by rejection sampling
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := NewVec3(
			RandomRange(sampler, -1, 1),
			RandomRange(sampler, -1, 1),
			RandomRange(sampler, -1, 1),
		)
		// The origin itself cannot be normalized
		if lenSq := p.LengthSquared(); lenSq <= 1.0 && lenSq > 0 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	return RandomInUnitSphere(sampler).Normalize()
}

// RandomOnHemisphere returns a unit direction in the hemisphere around normal.
// A sample pointing into the surface is flipped rather than redrawn.
func RandomOnHemisphere(normal Vec3, sampler Sampler) Vec3 {
	v := RandomUnitVector(sampler)
	if v.Dot(normal) > 0 {
		return v
	}
	return v.Negate()
}
