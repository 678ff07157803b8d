package material

import (
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// FuzzRange is the closed range of valid metal fuzz values
var FuzzRange = core.NewInterval(0, 1)

// NewMetal creates a new metal material, clamping fuzz into FuzzRange
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	return Material{Kind: KindMetal, Albedo: albedo, Fuzz: FuzzRange.Clamp(fuzz)}
}

// metalDirection mirrors the incoming direction about the normal and perturbs it by fuzz.
// The second result is false when the perturbed ray points into the surface.
func metalDirection(incoming, normal core.Vec3, fuzz float64, random *rand.Rand) (core.Vec3, bool) {
	reflected := Reflect(incoming.Normalize(), normal)

	if fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitVector(random).Multiply(fuzz))
	}

	return reflected, reflected.Dot(normal) > 0
}
