package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_NearestRoot(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("Expected t=4, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected hit point (0,0,1), got %v", hit.Point)
	}
	if !vecNear(hit.Normal, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -4),
			expectedT:      0.5,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if !vecNear(hit.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_NormalOpposesRay(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0.3, -0.2, -1), 0.7)
	sampler := core.NewSeededSampler(42)

	hits := 0
	for i := 0; i < 2000; i++ {
		// Origins both inside and outside the sphere
		origin := core.NewVec3(
			core.RandomRange(sampler, -2, 2),
			core.RandomRange(sampler, -2, 2),
			core.RandomRange(sampler, -3, 1),
		)
		ray := core.NewRay(origin, core.RandomUnitVector(sampler).Multiply(core.RandomRange(sampler, 0.1, 3)))

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}
		hits++
		if d := hit.Normal.Dot(ray.Direction); d > 0 {
			t.Fatalf("Normal %v does not oppose ray direction %v (dot %f)", hit.Normal, ray.Direction, d)
		}
		if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
			t.Fatalf("Normal not unit length: %f", hit.Normal.Length())
		}
	}

	if hits == 0 {
		t.Fatal("Expected at least some random rays to hit the sphere")
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Closer root excluded, farther root accepted
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far root hit")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got %f", hit.T)
	}
	if hit.FrontFace {
		t.Error("Far root is hit from inside and should be a back face")
	}
}

func TestSphere_Hit_OpenInterval(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Roots are exactly 1 and 3; both endpoints are excluded
	if _, isHit := sphere.Hit(ray, 1.0, 3.0); isHit {
		t.Error("Roots on the interval endpoints should not count as hits")
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		wantErr bool
	}{
		{"positive", 0.5, false},
		{"large ground", 100, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"infinite", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSphere(core.NewVec3(0, 0, 0), tt.radius).Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRadius) {
					t.Errorf("Expected ErrInvalidRadius, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	var front HitRecord
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", front)
	}

	var back HitRecord
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), outward)
	if back.FrontFace || back.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got %+v", back)
	}

	// A grazing ray (dot == 0) counts as a front face
	var grazing HitRecord
	grazing.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), outward)
	if !grazing.FrontFace {
		t.Error("Expected grazing ray to count as front face")
	}
}
