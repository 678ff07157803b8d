package geometry

import (
	"math"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// BoundingBox returns the axis-aligned box enclosing the sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := math.Abs(s.Radius)
	extent := core.NewVec3(r, r, r)
	return core.NewAABB(s.Center.Subtract(extent), s.Center.Add(extent))
}

// Hit returns the nearest root of the ray/sphere quadratic strictly inside rayT.
// A zero-length direction never hits.
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval) (float64, bool) {
	// Vector from ray origin to sphere center
	oc := s.Center.Subtract(ray.Origin)

	// Half-b form: a*t² - 2h*t + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return 0, false
	}
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return 0, false
		}
	}

	return root, true
}

// Record computes the hit point, face-corrected normal and front-face flag at t
func (s *Sphere) Record(ray core.Ray, t float64) core.HitRecord {
	rec := core.HitRecord{
		T:     t,
		Point: ray.At(t),
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := rec.Point.Subtract(s.Center).Divide(s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)

	return rec
}

// HitBatch tests every ray selected by active and returns the hit mask and
// nearest valid t per ray (+Inf where the ray misses or is inactive)
func (s *Sphere) HitBatch(rays core.RayBatch, active core.Mask, rayT core.Interval) (core.Mask, []float64) {
	n := rays.Len()
	hit := make(core.Mask, n)
	ts := make([]float64, n)

	for i := 0; i < n; i++ {
		ts[i] = math.Inf(1)
		if !active[i] {
			continue
		}
		if t, ok := s.Hit(rays.Ray(i), rayT); ok {
			hit[i] = true
			ts[i] = t
		}
	}

	return hit, ts
}

// RecordBatch fills point, normal and front-face in hits for the rays selected by mask,
// using the t values already stored in hits
func (s *Sphere) RecordBatch(rays core.RayBatch, hits *core.HitBatch, mask core.Mask) {
	for i, selected := range mask {
		if !selected {
			continue
		}
		hits.SetRecord(i, s.Record(rays.Ray(i), hits.T[i]))
	}
}
