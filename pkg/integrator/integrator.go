package integrator

import (
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms.
// TraceBatch returns one linear color per ray, in batch order.
type Integrator interface {
	TraceBatch(rays core.RayBatch, random *rand.Rand) ([]core.Vec3, TraceStats)
}

var _ Integrator = (*PathTracer)(nil)
