package core

import (
	"math"
	"math/rand"
)

// SampleOnUnitSphere maps two uniform samples to a uniform direction on the unit sphere
func SampleOnUnitSphere(u1, u2 float64) Vec3 {
	z := 1.0 - 2.0*u1 // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * u2
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// RandomUnitVector returns a uniformly distributed unit-length direction
func RandomUnitVector(random *rand.Rand) Vec3 {
	return SampleOnUnitSphere(random.Float64(), random.Float64())
}

// SamplePointInUnitDisk maps two uniform samples to a point in the unit disk (z = 0)
// using r = √u1 and θ = 2π·u2, which is uniform over the disk area
func SamplePointInUnitDisk(u1, u2 float64) Vec3 {
	r := math.Sqrt(u1)
	theta := 2.0 * math.Pi * u2
	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	return SamplePointInUnitDisk(random.Float64(), random.Float64())
}

// RandomPixelOffset returns a jitter offset in [-0.5, 0.5)² (z = 0)
func RandomPixelOffset(random *rand.Rand) Vec3 {
	return NewVec3(random.Float64()-0.5, random.Float64()-0.5, 0)
}
