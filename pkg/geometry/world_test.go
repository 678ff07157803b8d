package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

func TestWorld_NearestHitWins(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewLambertian(core.NewVec3(1, 0, 0)))
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, material.NewMetal(core.NewVec3(0, 1, 0), 0))
	// Register the far sphere first so order alone cannot pick the winner
	world := NewWorld(far, near)

	rays := core.NewRayBatch(3)
	rays.Set(0, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	rays.Set(1, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))
	rays.Set(2, core.NewRay(core.NewVec3(0, 0, -3.5), core.NewVec3(0, 0, -1)))

	hits := world.Hit(rays, core.NewMask(3, true), defaultRange)

	if !hits.Hit[0] || hits.Index[0] != 1 || math.Abs(hits.T[0]-1.5) > 1e-9 {
		t.Errorf("Ray 0: expected near sphere (index 1) at t=1.5, got hit=%t index=%d t=%f",
			hits.Hit[0], hits.Index[0], hits.T[0])
	}
	if hits.Hit[1] || hits.Index[1] != -1 {
		t.Errorf("Ray 1: expected miss, got index %d", hits.Index[1])
	}
	if !hits.Hit[2] || hits.Index[2] != 0 || math.Abs(hits.T[2]-1.0) > 1e-9 {
		t.Errorf("Ray 2: expected far sphere (index 0) at t=1, got hit=%t index=%d t=%f",
			hits.Hit[2], hits.Index[2], hits.T[2])
	}

	world.Record(rays, hits)
	if hits.Point[0].Subtract(core.NewVec3(0, 0, -1.5)).Length() > 1e-9 {
		t.Errorf("Expected near hit point (0,0,-1.5), got %v", hits.Point[0])
	}
	if hits.Normal[2].Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 || !hits.FrontFace[2] {
		t.Errorf("Expected front-face normal (0,0,1) for ray 2, got %v front=%t", hits.Normal[2], hits.FrontFace[2])
	}
}

func TestWorld_TieKeepsLowestIndex(t *testing.T) {
	a := NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewLambertian(core.NewVec3(1, 0, 0)))
	b := NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewDielectric(1.5))
	world := NewWorld(a, b)

	rec, index, ok := world.HitRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), defaultRange)
	if !ok {
		t.Fatal("Expected hit")
	}
	if index != 0 {
		t.Errorf("Expected identical spheres to resolve to the first registered, got %d", index)
	}
	if math.Abs(rec.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", rec.T)
	}
}

func TestWorld_InactiveRaysAreSkipped(t *testing.T) {
	world := NewWorld(NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial))

	rays := core.NewRayBatch(2)
	rays.Set(0, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	rays.Set(1, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))

	hits := world.Hit(rays, core.Mask{false, true}, defaultRange)
	if hits.Hit[0] || !hits.Hit[1] {
		t.Errorf("Expected only the active ray to hit, got %v", hits.Hit)
	}
}

func TestWorld_EmptyAndClear(t *testing.T) {
	world := NewWorld()
	if _, _, ok := world.HitRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), defaultRange); ok {
		t.Error("Empty world should never report a hit")
	}

	world.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial))
	if world.Len() != 1 {
		t.Errorf("Expected 1 sphere, got %d", world.Len())
	}
	world.Clear()
	if world.Len() != 0 {
		t.Errorf("Expected empty world after Clear, got %d", world.Len())
	}
}

func TestWorld_BoundingBox(t *testing.T) {
	if _, ok := NewWorld().BoundingBox(); ok {
		t.Error("Empty world should have no bounding box")
	}

	world := NewWorld(
		NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial),
		NewSphere(core.NewVec3(2, 1, 0), 1, testMaterial),
	)
	box, ok := world.BoundingBox()
	if !ok {
		t.Fatal("Expected a bounding box")
	}
	if box.Min != core.NewVec3(-0.5, -0.5, -1.5) || box.Max != core.NewVec3(3, 2, 1) {
		t.Errorf("Unexpected bounds %+v", box)
	}
}

func TestWorld_SphereByIndex(t *testing.T) {
	first := NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial)
	second := NewSphere(core.NewVec3(2, 1, 0), 1, testMaterial)
	world := NewWorld(first, second)

	tests := []struct {
		index    int
		expected *Sphere
	}{
		{0, first},
		{1, second},
		{2, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		if got := world.Sphere(tt.index); got != tt.expected {
			t.Errorf("Sphere(%d): expected %p, got %p", tt.index, tt.expected, got)
		}
	}
}
