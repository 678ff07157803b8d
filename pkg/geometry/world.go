package geometry

import "github.com/df07/go-batch-raytracer/pkg/core"

// World holds every primitive of a scene and resolves nearest hits by linear scan
type World struct {
	Spheres []*Sphere
}

// NewWorld creates a world from an ordered list of spheres
func NewWorld(spheres ...*Sphere) *World {
	return &World{Spheres: spheres}
}

// Add appends a sphere; registration order decides ties
func (w *World) Add(s *Sphere) {
	w.Spheres = append(w.Spheres, s)
}

// Clear removes every sphere
func (w *World) Clear() {
	w.Spheres = nil
}

// Len returns the number of primitives
func (w *World) Len() int {
	return len(w.Spheres)
}

// Sphere returns the primitive at index i, or nil when i is out of range
func (w *World) Sphere(i int) *Sphere {
	if i < 0 || i >= len(w.Spheres) {
		return nil
	}
	return w.Spheres[i]
}

// BoundingBox returns the box enclosing every sphere; ok is false for an empty world
func (w *World) BoundingBox() (box core.AABB, ok bool) {
	for i, sphere := range w.Spheres {
		if i == 0 {
			box = sphere.BoundingBox()
			continue
		}
		box = box.Union(sphere.BoundingBox())
	}
	return box, len(w.Spheres) > 0
}

// Hit resolves, for each active ray, the primitive with the smallest t inside rayT.
// A primitive only replaces the current winner when its t is strictly smaller,
// so on an exact tie the lowest-indexed primitive keeps the ray.
// Only Hit, T and Index of the result are filled; call Record for the geometry.
func (w *World) Hit(rays core.RayBatch, active core.Mask, rayT core.Interval) *core.HitBatch {
	hits := core.NewHitBatch(rays.Len())

	for index, sphere := range w.Spheres {
		hit, ts := sphere.HitBatch(rays, active, rayT)
		for i := range hit {
			if hit[i] && ts[i] < hits.T[i] {
				hits.Hit[i] = true
				hits.T[i] = ts[i]
				hits.Index[i] = index
			}
		}
	}

	return hits
}

// Record computes point, normal and front-face for every hit ray, each
// primitive handling only the rays it won
func (w *World) Record(rays core.RayBatch, hits *core.HitBatch) {
	for index, sphere := range w.Spheres {
		mask := hits.IndexMask(index)
		if !mask.Any() {
			continue
		}
		sphere.RecordBatch(rays, hits, mask)
	}
}

// HitRay is the single-ray form of Hit followed by Record
func (w *World) HitRay(ray core.Ray, rayT core.Interval) (core.HitRecord, int, bool) {
	rays := core.NewRayBatch(1)
	rays.Set(0, ray)
	hits := w.Hit(rays, core.Mask{true}, rayT)
	if !hits.Hit[0] {
		return core.HitRecord{}, -1, false
	}
	w.Record(rays, hits)
	return hits.Record(0), hits.Index[0], true
}
