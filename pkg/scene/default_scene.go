package scene

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// NewDefaultScene creates the three-sphere scene: a diffuse center sphere
// between a hollow glass sphere and fuzzy gold, on a large ground sphere
func NewDefaultScene() *Scene {
	s := New("default")
	s.Camera.VFov = 20
	s.Camera.LookFrom = core.NewVec3(-2, 2, 1)
	s.Camera.LookAt = core.NewVec3(0, 0, -1)
	s.Camera.DefocusAngle = 10.0
	s.Camera.FocusDistance = 3.4
	s.Camera.SamplesPerPixel = 100
	s.Camera.MaxDepth = 50

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.5)
	materialBubble := material.NewDielectric(1.0 / 1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, materialGround)
	s.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, materialCenter)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, materialLeft)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.4, materialBubble)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, materialRight)

	return s
}

// NewSingleSphereScene creates one grey diffuse sphere straight ahead of the default camera
func NewSingleSphereScene() *Scene {
	s := New("single-sphere")
	s.Camera.AspectRatio = 1
	s.Camera.SamplesPerPixel = 1
	s.Camera.MaxDepth = 1

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return s
}

// NewTwoSpheresScene creates a small sphere resting on a large ground sphere
func NewTwoSpheresScene() *Scene {
	s := New("two-spheres")

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return s
}
