package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
)

// ShadowAcneEpsilon is the minimum t accepted for a hit, so scattered rays do
// not re-hit the surface they leave
const ShadowAcneEpsilon = 0.001

var (
	backgroundBottom = core.NewVec3(1.0, 1.0, 1.0) // white
	backgroundTop    = core.NewVec3(0.5, 0.7, 1.0) // sky blue
)

// TraceStats counts what happened to the rays of one traced batch
type TraceStats struct {
	Rays      int // rays submitted
	Passes    int // intersection passes over the active population
	Escaped   int // rays that left the scene and picked up the background
	Absorbed  int // rays a material refused to scatter
	Exhausted int // rays still bouncing when the depth budget ran out
}

// Add accumulates other into s
func (s *TraceStats) Add(other TraceStats) {
	s.Rays += other.Rays
	s.Passes += other.Passes
	s.Escaped += other.Escaped
	s.Absorbed += other.Absorbed
	s.Exhausted += other.Exhausted
}

// PathTracer traces populations of rays through a world until every ray has
// escaped, been absorbed or used up its bounce budget
type PathTracer struct {
	world    *geometry.World
	maxDepth int
}

// NewPathTracer creates a path tracer with a scatter budget of maxDepth bounces
func NewPathTracer(world *geometry.World, maxDepth int) *PathTracer {
	return &PathTracer{world: world, maxDepth: maxDepth}
}

// TraceBatch returns the linear color carried back by every ray of the batch.
// The batch is consumed: origins and directions are overwritten as rays scatter.
//
// Each pass intersects all active rays at once. A miss ends the ray with the
// background scaled by its attenuation. A hit made after maxDepth scatters ends
// the ray black. Other hits are grouped by material and scattered together;
// an absorbed ray ends black. A budget of zero (or less) returns black for
// every ray without consulting geometry or materials.
func (pt *PathTracer) TraceBatch(rays core.RayBatch, random *rand.Rand) ([]core.Vec3, TraceStats) {
	n := rays.Len()
	colors := make([]core.Vec3, n)
	stats := TraceStats{Rays: n}

	if pt.maxDepth <= 0 {
		stats.Exhausted = n
		return colors, stats
	}

	attenuation := make([]core.Vec3, n)
	for i := range attenuation {
		attenuation[i] = core.NewVec3(1, 1, 1)
	}
	active := core.NewMask(n, true)
	rayT := core.NewInterval(ShadowAcneEpsilon, math.Inf(1))

	for depth := 0; active.Any(); depth++ {
		stats.Passes++
		hits := pt.world.Hit(rays, active, rayT)

		// Resolve misses and budget exhaustion
		scatterMask := make(core.Mask, n)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			switch {
			case !hits.Hit[i]:
				colors[i] = attenuation[i].MultiplyVec(Background(rays.Directions[i]))
				active[i] = false
				stats.Escaped++
			case depth >= pt.maxDepth:
				active[i] = false
				stats.Exhausted++
			default:
				scatterMask[i] = true
			}
		}
		if !scatterMask.Any() {
			break
		}

		pt.world.Record(rays, hits)

		// Scatter each primitive's rays with its material
		for index, sphere := range pt.world.Spheres {
			mask := hits.IndexMask(index).And(scatterMask)
			if !mask.Any() {
				continue
			}

			result := sphere.Material.Scatter(rays, hits, mask, random)
			for k, i := range result.Indices {
				if !result.Scattered[k] {
					active[i] = false
					stats.Absorbed++
					continue
				}
				rays.Set(i, core.NewRay(hits.Point[i], result.Directions[k]))
				attenuation[i] = attenuation[i].MultiplyVec(result.Attenuation)
			}
		}
	}

	return colors, stats
}

// RayColor traces a single ray
func (pt *PathTracer) RayColor(ray core.Ray, random *rand.Rand) core.Vec3 {
	rays := core.NewRayBatch(1)
	rays.Set(0, ray)
	colors, _ := pt.TraceBatch(rays, random)
	return colors[0]
}

// Background returns the sky gradient seen along direction
func Background(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	a := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-a)*white + a*skyBlue
	return backgroundBottom.Multiply(1.0 - a).Add(backgroundTop.Multiply(a))
}
