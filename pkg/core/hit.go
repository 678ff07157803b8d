package core

import "math"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3    // Point of intersection
	Normal    Vec3    // Unit normal, always facing against the incoming ray
	T         float64 // Parameter t along the ray
	FrontFace bool    // Whether ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// HitBatch holds per-ray intersection results for a RayBatch.
// Hit, T and Index are filled by the nearest-hit pass; Point, Normal and
// FrontFace are only meaningful where Hit is set and the record pass has run.
type HitBatch struct {
	Hit       Mask
	T         []float64
	Index     []int // winning primitive, -1 on miss
	Point     []Vec3
	Normal    []Vec3
	FrontFace []bool
}

// NewHitBatch allocates an empty result for n rays
func NewHitBatch(n int) *HitBatch {
	hb := &HitBatch{
		Hit:       make(Mask, n),
		T:         make([]float64, n),
		Index:     make([]int, n),
		Point:     make([]Vec3, n),
		Normal:    make([]Vec3, n),
		FrontFace: make([]bool, n),
	}
	for i := range hb.T {
		hb.T[i] = math.Inf(1)
		hb.Index[i] = -1
	}
	return hb
}

// Len returns the number of rays covered by the batch
func (hb *HitBatch) Len() int {
	return len(hb.Hit)
}

// Record returns the i-th entry as a HitRecord
func (hb *HitBatch) Record(i int) HitRecord {
	return HitRecord{
		Point:     hb.Point[i],
		Normal:    hb.Normal[i],
		T:         hb.T[i],
		FrontFace: hb.FrontFace[i],
	}
}

// SetRecord stores rec as the geometry of the i-th entry
func (hb *HitBatch) SetRecord(i int, rec HitRecord) {
	hb.Point[i] = rec.Point
	hb.Normal[i] = rec.Normal
	hb.FrontFace[i] = rec.FrontFace
}

// IndexMask selects the rays whose winning primitive is index
func (hb *HitBatch) IndexMask(index int) Mask {
	m := make(Mask, len(hb.Index))
	for i, idx := range hb.Index {
		m[i] = hb.Hit[i] && idx == index
	}
	return m
}
