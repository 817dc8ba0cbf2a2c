package scene

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Object pairs a shape with the material it is rendered with
type Object struct {
	Shape    geometry.Shape
	Material *material.Material // Shared, read-only during rendering
	Label    string             // Diagnostic only
}

// Hit is the result of a successful scene intersection
type Hit struct {
	geometry.HitRecord
	Material *material.Material
	Label    string
}

// Scene contains all the objects needed for rendering.
// It must not be modified while a render is in progress.
type Scene struct {
	Objects []Object
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{Objects: make([]Object, 0)}
}

// Add validates the shape and material and appends a new object
func (s *Scene) Add(shape geometry.Shape, mat *material.Material, label string) error {
	if shape == nil {
		return fmt.Errorf("object %q: nil shape", label)
	}
	if v, ok := shape.(geometry.Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("object %q: %w", label, err)
		}
	}
	if err := mat.Validate(); err != nil {
		return fmt.Errorf("object %q: %w", label, err)
	}

	s.Objects = append(s.Objects, Object{Shape: shape, Material: mat, Label: label})
	return nil
}

// AddSphere is a convenience wrapper around Add for spheres
func (s *Scene) AddSphere(center core.Point3, radius float64, mat *material.Material, label string) error {
	return s.Add(geometry.NewSphere(center, radius), mat, label)
}

// Len returns the number of objects in the scene
func (s *Scene) Len() int {
	return len(s.Objects)
}

// Hit finds the closest intersection in (tMin, tMax).
// Each hit narrows the search so later objects can only replace it with a strictly closer one;
// on an exact tie the earlier object wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*Hit, bool) {
	var closest *Hit
	closestSoFar := tMax

	for i := range s.Objects {
		obj := &s.Objects[i]
		if rec, isHit := obj.Shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = rec.T
			closest = &Hit{HitRecord: *rec, Material: obj.Material, Label: obj.Label}
		}
	}

	return closest, closest != nil
}
