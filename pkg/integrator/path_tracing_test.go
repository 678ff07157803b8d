package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestPathTracer_EmptySceneReturnsBackground(t *testing.T) {
	pt := NewPathTracer(geometry.NewWorld(), 10)
	random := rand.New(rand.NewSource(42))

	directions := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, -1),
		core.NewVec3(3, 4, -12),
	}

	for _, dir := range directions {
		color := pt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), dir), random)

		unit := dir.Normalize()
		a := 0.5 * (unit.Y + 1)
		expected := core.NewVec3(1, 1, 1).Multiply(1 - a).Add(core.NewVec3(0.5, 0.7, 1.0).Multiply(a))
		if color != expected {
			t.Errorf("Direction %v: expected %v, got %v", dir, expected, color)
		}
	}
}

func TestBackground_Endpoints(t *testing.T) {
	if up := Background(core.NewVec3(0, 5, 0)); !vecClose(up, core.NewVec3(0.5, 0.7, 1.0), 1e-12) {
		t.Errorf("Straight up should be sky blue, got %v", up)
	}
	if down := Background(core.NewVec3(0, -2, 0)); !vecClose(down, core.NewVec3(1, 1, 1), 1e-12) {
		t.Errorf("Straight down should be white, got %v", down)
	}
}

func TestPathTracer_ZeroDepthIsBlack(t *testing.T) {
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	pt := NewPathTracer(world, 0)
	random := rand.New(rand.NewSource(42))

	rays := core.NewRayBatch(2)
	rays.Set(0, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))) // hits
	rays.Set(1, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))  // misses

	colors, stats := pt.TraceBatch(rays, random)
	for i, c := range colors {
		if c != (core.Vec3{}) {
			t.Errorf("Ray %d: expected black with zero depth, got %v", i, c)
		}
	}
	if stats.Passes != 0 || stats.Exhausted != 2 {
		t.Errorf("Expected no passes and 2 exhausted rays, got %+v", stats)
	}
}

func TestPathTracer_SingleBounceDiffuse(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.5, 0.5)
	world := geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(albedo)))
	pt := NewPathTracer(world, 1)

	for seed := int64(0); seed < 20; seed++ {
		color := pt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), rand.New(rand.NewSource(seed)))

		// One scatter off a convex sphere always escapes: albedo × background
		if color.X <= 0 || color.Y <= 0 || color.Z <= 0 {
			t.Fatalf("Seed %d: expected non-black color, got %v", seed, color)
		}
		if color.X > 0.5+1e-12 || color.Y > 0.5+1e-12 || color.Z > 0.5+1e-12 {
			t.Fatalf("Seed %d: color %v exceeds albedo × white", seed, color)
		}
	}
}

func TestPathTracer_MirrorReflectsBackground(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	world := geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewMetal(albedo, 0)))
	pt := NewPathTracer(world, 5)

	// Head-on hit reflects straight back along +z
	color := pt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), rand.New(rand.NewSource(1)))
	expected := albedo.MultiplyVec(Background(core.NewVec3(0, 0, 1)))
	if !vecClose(color, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestPathTracer_ExhaustedRaysAreBlack(t *testing.T) {
	// Camera inside a mirror sphere: every reflection hits the sphere again
	world := geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, 0), 10, material.NewMetal(core.NewVec3(1, 1, 1), 0)))
	pt := NewPathTracer(world, 4)

	rays := core.NewRayBatch(1)
	rays.Set(0, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.3, 0.2, -1)))
	colors, stats := pt.TraceBatch(rays, rand.New(rand.NewSource(1)))

	if colors[0] != (core.Vec3{}) {
		t.Errorf("Expected black for a trapped ray, got %v", colors[0])
	}
	if stats.Exhausted != 1 || stats.Passes != 5 {
		t.Errorf("Expected 1 exhausted ray after 5 passes, got %+v", stats)
	}
}

func TestPathTracer_DeterministicForSeed(t *testing.T) {
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)),
	)
	pt := NewPathTracer(world, 20)

	build := func() core.RayBatch {
		rays := core.NewRayBatch(64)
		for i := 0; i < 64; i++ {
			x := float64(i%8)/4 - 1
			y := float64(i/8)/4 - 1
			rays.Set(i, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(x, y, -1)))
		}
		return rays
	}

	first, firstStats := pt.TraceBatch(build(), rand.New(rand.NewSource(7)))
	second, secondStats := pt.TraceBatch(build(), rand.New(rand.NewSource(7)))

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Ray %d differs: %v vs %v", i, first[i], second[i])
		}
	}
	if firstStats != secondStats {
		t.Errorf("Stats differ: %+v vs %+v", firstStats, secondStats)
	}
	if firstStats.Escaped+firstStats.Absorbed+firstStats.Exhausted != firstStats.Rays {
		t.Errorf("Every ray must end exactly once: %+v", firstStats)
	}
}

func TestTraceStats_Add(t *testing.T) {
	s := TraceStats{Rays: 1, Passes: 2, Escaped: 1}
	s.Add(TraceStats{Rays: 3, Passes: 1, Absorbed: 2, Exhausted: 1})
	expected := TraceStats{Rays: 4, Passes: 3, Escaped: 1, Absorbed: 2, Exhausted: 1}
	if s != expected {
		t.Errorf("Expected %+v, got %+v", expected, s)
	}
}
