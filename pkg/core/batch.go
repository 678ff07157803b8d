package core

// RayBatch is a population of rays stored as parallel slices.
// Operations on a batch apply element-wise, one entry per pixel-sample.
type RayBatch struct {
	Origins    []Vec3
	Directions []Vec3
}

// NewRayBatch allocates a batch of n zero rays
func NewRayBatch(n int) RayBatch {
	return RayBatch{
		Origins:    make([]Vec3, n),
		Directions: make([]Vec3, n),
	}
}

// Len returns the number of rays in the batch
func (b RayBatch) Len() int {
	return len(b.Origins)
}

// Ray returns the i-th ray of the batch
func (b RayBatch) Ray(i int) Ray {
	return Ray{Origin: b.Origins[i], Direction: b.Directions[i]}
}

// Set overwrites the i-th ray of the batch
func (b RayBatch) Set(i int, ray Ray) {
	b.Origins[i] = ray.Origin
	b.Directions[i] = ray.Direction
}

// Mask selects a subset of a batch
type Mask []bool

// NewMask allocates a mask of n entries all set to value
func NewMask(n int, value bool) Mask {
	m := make(Mask, n)
	if value {
		for i := range m {
			m[i] = true
		}
	}
	return m
}

// Count returns the number of selected entries
func (m Mask) Count() int {
	count := 0
	for _, set := range m {
		if set {
			count++
		}
	}
	return count
}

// Any reports whether at least one entry is selected
func (m Mask) Any() bool {
	for _, set := range m {
		if set {
			return true
		}
	}
	return false
}

// Indices returns the selected positions in ascending order
func (m Mask) Indices() []int {
	indices := make([]int, 0, m.Count())
	for i, set := range m {
		if set {
			indices = append(indices, i)
		}
	}
	return indices
}

// And returns the element-wise conjunction of two masks of equal length
func (m Mask) And(other Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && other[i]
	}
	return out
}
