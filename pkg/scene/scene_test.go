package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

func TestScene_Hit_NoObjects(t *testing.T) {
	s := NewScene()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := s.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected no hit in empty scene, got %+v", hit)
	}
}

func TestScene_Hit_Miss(t *testing.T) {
	s := NewScene()
	mat := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	if err := s.AddSphere(core.NewVec3(0, 0, -1), 0.5, mat, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSphere(core.NewVec3(0, 0, -3), 0.5, mat, "b"); err != nil {
		t.Fatal(err)
	}

	// Parallel to the line of spheres but offset beyond their radius
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -1))
	if hit, isHit := s.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected miss, got hit on %q at t=%f", hit.Label, hit.T)
	}
}

func TestScene_Hit_ClosestRegardlessOfOrder(t *testing.T) {
	near := material.NewDiffuse(core.NewVec3(0.9, 0.1, 0.1))
	far := material.NewMetal(core.NewVec3(0.1, 0.1, 0.9))

	type entry struct {
		center core.Vec3
		radius float64
		mat    *material.Material
		label  string
	}
	nearSphere := entry{core.NewVec3(0, 0, -2), 0.5, near, "near"}
	farSphere := entry{core.NewVec3(0, 0, -2.6), 0.5, far, "far"}

	orders := map[string][]entry{
		"near first": {nearSphere, farSphere},
		"far first":  {farSphere, nearSphere},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			s := NewScene()
			for _, e := range order {
				if err := s.AddSphere(e.center, e.radius, e.mat, e.label); err != nil {
					t.Fatal(err)
				}
			}

			ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
			hit, isHit := s.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			if hit.Label != "near" {
				t.Errorf("Expected closest object 'near', got %q", hit.Label)
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected t=1.5, got %f", hit.T)
			}
			if hit.Material != near {
				t.Error("Hit should carry the closest object's material")
			}
		})
	}
}

func TestScene_Hit_RespectsRange(t *testing.T) {
	s := NewDefaultScene()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// Small sphere is hit at t=0.5; an upper bound below it means no hit at all
	if _, isHit := s.Hit(ray, 0.001, 0.4); isHit {
		t.Error("Expected no hit with tMax before the first surface")
	}

	hit, isHit := s.Hit(ray, 0.001, math.Inf(1))
	if !isHit || hit.Label != "center" {
		t.Fatalf("Expected hit on center sphere, got %+v", hit)
	}
	if math.Abs(hit.T-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got %f", hit.T)
	}
}

func TestScene_Hit_NormalOpposesRay(t *testing.T) {
	s := NewMetalScene()
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 1000; i++ {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.RandomUnitVector(sampler))
		hit, isHit := s.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}
		if hit.Normal.Dot(ray.Direction) > 0 {
			t.Fatalf("Normal %v must oppose ray %v", hit.Normal, ray.Direction)
		}
	}
}

func TestScene_SharedMaterial(t *testing.T) {
	s := NewScene()
	shared := material.NewDiffuse(core.NewVec3(0.4, 0.4, 0.4))
	for i, z := range []float64{-1, -3, -5} {
		if err := s.AddSphere(core.NewVec3(float64(i), 0, z), 0.5, shared, ""); err != nil {
			t.Fatal(err)
		}
	}

	for _, obj := range s.Objects {
		if obj.Material != shared {
			t.Error("Objects should share the same material instance")
		}
	}
}

func TestScene_Add_Validation(t *testing.T) {
	good := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))

	tests := []struct {
		name    string
		shape   geometry.Shape
		mat     *material.Material
		wantErr error
	}{
		{"valid", geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5), good, nil},
		{"zero radius", geometry.NewSphere(core.NewVec3(0, 0, -1), 0), good, geometry.ErrInvalidRadius},
		{"negative radius", geometry.NewSphere(core.NewVec3(0, 0, -1), -2), good, geometry.ErrInvalidRadius},
		{"bad albedo", geometry.NewSphere(core.NewVec3(0, 0, -1), 1), material.NewMetal(core.NewVec3(2, 0, 0)), material.ErrInvalidMaterial},
		{"nil material", geometry.NewSphere(core.NewVec3(0, 0, -1), 1), nil, material.ErrInvalidMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			err := s.Add(tt.shape, tt.mat, tt.name)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if s.Len() != 1 {
					t.Errorf("Expected 1 object, got %d", s.Len())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if s.Len() != 0 {
				t.Errorf("Rejected object should not be added, scene has %d", s.Len())
			}
		})
	}

	if err := NewScene().Add(nil, good, "nothing"); err == nil {
		t.Error("Expected error for nil shape")
	}
}

func TestBuiltin(t *testing.T) {
	tests := []struct {
		name        string
		scene       string
		objects     int
		expectError bool
	}{
		{"default scene", "default", 2, false},
		{"metal scene", "metal", 4, false},
		{"unknown scene", "nonexistent", 0, true},
		{"empty scene name", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Builtin(tt.scene)
			if tt.expectError {
				if !errors.Is(err, ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene, got %v", err)
				}
				if s != nil {
					t.Errorf("Expected nil scene, got %+v", s)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if s.Len() != tt.objects {
				t.Errorf("Expected %d objects, got %d", tt.objects, s.Len())
			}
		})
	}

	names := BuiltinNames()
	if len(names) != 2 || names[0] != "default" || names[1] != "metal" {
		t.Errorf("Unexpected builtin names %v", names)
	}
}
