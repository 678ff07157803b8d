package material

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// Kind identifies which scattering rule a Material follows
type Kind int

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

// String returns the lowercase name used in scene files
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Material is a closed set of surface variants. Only the fields of the
// active Kind are meaningful: Albedo for Lambertian and Metal, Fuzz for
// Metal, RefractionIndex for Dielectric.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3
	Fuzz            float64
	RefractionIndex float64
}

// ScatterBatch is the result of scattering the masked subset of a ray batch.
// Indices, Directions and Scattered are parallel; Scattered[k] is false when
// the ray at Indices[k] was absorbed.
type ScatterBatch struct {
	Indices     []int
	Directions  []core.Vec3
	Scattered   []bool
	Attenuation core.Vec3 // per-channel multiplier shared by the whole subset
}

// Scatter computes new directions for the rays selected by mask.
// Random numbers are drawn in ascending ray order so results are reproducible
// for a seeded generator.
func (m Material) Scatter(rays core.RayBatch, hits *core.HitBatch, mask core.Mask, random *rand.Rand) ScatterBatch {
	indices := mask.Indices()
	result := ScatterBatch{
		Indices:    indices,
		Directions: make([]core.Vec3, len(indices)),
		Scattered:  make([]bool, len(indices)),
	}

	switch m.Kind {
	case KindLambertian:
		result.Attenuation = m.Albedo
		for k, i := range indices {
			result.Directions[k] = lambertianDirection(hits.Normal[i], core.RandomUnitVector(random))
			result.Scattered[k] = true
		}
	case KindMetal:
		result.Attenuation = m.Albedo
		for k, i := range indices {
			result.Directions[k], result.Scattered[k] = metalDirection(
				rays.Directions[i], hits.Normal[i], m.Fuzz, random)
		}
	case KindDielectric:
		result.Attenuation = core.NewVec3(1.0, 1.0, 1.0)
		for k, i := range indices {
			result.Directions[k] = dielectricDirection(
				rays.Directions[i], hits.Normal[i], hits.FrontFace[i], m.RefractionIndex, random.Float64())
			result.Scattered[k] = true
		}
	default:
		// Unknown kinds absorb everything
		result.Attenuation = core.Vec3{}
	}

	return result
}

// Validate reports parameters outside the variant's domain
func (m Material) Validate() error {
	switch m.Kind {
	case KindLambertian:
		return validateAlbedo(m.Albedo)
	case KindMetal:
		if !FuzzRange.Contains(m.Fuzz) {
			return fmt.Errorf("metal fuzz must be in [0, 1], got %g", m.Fuzz)
		}
		return validateAlbedo(m.Albedo)
	case KindDielectric:
		if m.RefractionIndex <= 0 {
			return fmt.Errorf("dielectric refraction index must be positive, got %g", m.RefractionIndex)
		}
		return nil
	default:
		return fmt.Errorf("unknown material kind %v", m.Kind)
	}
}

func validateAlbedo(albedo core.Vec3) error {
	for _, c := range []float64{albedo.X, albedo.Y, albedo.Z} {
		if c < 0 {
			return fmt.Errorf("albedo components must be non-negative, got %v", albedo)
		}
	}
	return nil
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit vector uv through a surface with unit normal n using Snell's law
func Refract(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := min(uv.Negate().Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-sqrtAbs(1.0 - rOutPerp.LengthSquared()))
	return rOutPerp.Add(rOutParallel)
}
