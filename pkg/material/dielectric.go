package material

import (
	"math"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// NewDielectric creates a transparent material like glass that can both reflect and refract
func NewDielectric(refractionIndex float64) Material {
	return Material{Kind: KindDielectric, RefractionIndex: refractionIndex}
}

// dielectricDirection picks reflection or refraction for one ray.
// u is a uniform sample in [0, 1) compared against the Schlick reflectance.
func dielectricDirection(incoming, normal core.Vec3, frontFace bool, refractionIndex, u float64) core.Vec3 {
	// Entering the material (air to glass) uses 1/ior, exiting uses ior
	refractionRatio := refractionIndex
	if frontFace {
		refractionRatio = 1.0 / refractionIndex
	}

	unitDirection := incoming.Normalize()

	// Matched indices: no interface, nothing reflects
	if refractionRatio == 1 {
		return unitDirection
	}

	cosTheta := math.Min(unitDirection.Negate().Dot(normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	if cannotRefract || Reflectance(cosTheta, refractionRatio) > u {
		return Reflect(unitDirection, normal)
	}
	return Refract(unitDirection, normal, refractionRatio)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

func sqrtAbs(x float64) float64 {
	return math.Sqrt(math.Abs(x))
}
