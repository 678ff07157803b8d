package material

import "github.com/df07/go-batch-raytracer/pkg/core"

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

// lambertianDirection offsets the normal by a random unit vector.
// When the two nearly cancel the normal itself is used, so the result is never zero.
func lambertianDirection(normal, randomUnit core.Vec3) core.Vec3 {
	direction := normal.Add(randomUnit)
	if direction.NearZero() {
		return normal
	}
	return direction
}
