package scene

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name   string                // Scene identifier
	World  *geometry.World       // Spheres in registration order
	Camera renderer.CameraConfig // Camera and sampling configuration
}

// New creates an empty scene with the default camera
func New(name string) *Scene {
	return &Scene{
		Name:   name,
		World:  geometry.NewWorld(),
		Camera: renderer.DefaultCameraConfig(),
	}
}

// AddSphere appends a sphere to the scene's world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// NewRaytracer creates a raytracer for the scene's world and camera
func (s *Scene) NewRaytracer(logger core.Logger) *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, s.Camera, logger)
}

// SamplingOverrides replaces selected camera settings, typically from CLI
// flags or query parameters. Zero width and samples keep the scene's values;
// a negative depth keeps the scene's depth so that zero stays expressible.
type SamplingOverrides struct {
	Width           int
	SamplesPerPixel int
	MaxDepth        int
}

// DefaultSamplingOverrides returns overrides that change nothing
func DefaultSamplingOverrides() SamplingOverrides {
	return SamplingOverrides{MaxDepth: -1}
}

// Apply merges the overrides into the scene's camera configuration
func (o SamplingOverrides) Apply(s *Scene) {
	if o.Width > 0 {
		s.Camera.ImageWidth = o.Width
	}
	if o.SamplesPerPixel > 0 {
		s.Camera.SamplesPerPixel = o.SamplesPerPixel
	}
	if o.MaxDepth >= 0 {
		s.Camera.MaxDepth = o.MaxDepth
	}
}
