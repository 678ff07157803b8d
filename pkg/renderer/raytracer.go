package renderer

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
)

// Raytracer renders a world through a camera, one whole-image batch per sample
type Raytracer struct {
	world  *geometry.World
	config CameraConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards progress messages.
func NewRaytracer(world *geometry.World, config CameraConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		world:  world,
		config: config,
		logger: logger,
	}
}

// Config returns the camera configuration
func (rt *Raytracer) Config() CameraConfig {
	return rt.config
}

// Render traces SamplesPerPixel batches of camera rays and returns the
// finished image as rows of display colors, top row first. All randomness
// is drawn from random, so a fixed seed reproduces the image exactly.
func (rt *Raytracer) Render(random *rand.Rand) ([][]RGB, RenderStats, error) {
	state, err := ComputeCameraState(rt.config)
	if err != nil {
		return nil, RenderStats{}, err
	}

	width, height := state.ImageWidth, state.ImageHeight
	stats := RenderStats{
		Width:           width,
		Height:          height,
		TotalPixels:     width * height,
		SamplesPerPixel: state.SamplesPerPixel,
		MaxDepth:        state.MaxDepth,
	}

	rt.logger.Printf("Rendering %dx%d, %d spp, max depth %d, %d spheres\n",
		width, height, state.SamplesPerPixel, state.MaxDepth, rt.world.Len())
	start := time.Now()

	var tracer integrator.Integrator = integrator.NewPathTracer(rt.world, state.MaxDepth)
	pixels := make([]PixelStats, width*height)

	for sample := 0; sample < state.SamplesPerPixel; sample++ {
		rays := state.GenerateRays(random)
		colors, trace := tracer.TraceBatch(rays, random)
		for i, c := range colors {
			pixels[i].AddSample(c)
		}
		stats.TotalSamples += len(colors)
		stats.Trace.Add(trace)
	}

	rows := make([][]RGB, height)
	for j := range rows {
		row := make([]RGB, width)
		for i := range row {
			row[i] = ToRGB(pixels[j*width+i].GetColor())
		}
		rows[j] = row
	}

	rt.logger.Printf("Rendered %d samples in %v (%d passes, %d escaped, %d absorbed, %d exhausted)\n",
		stats.TotalSamples, time.Since(start).Round(time.Millisecond), stats.Trace.Passes,
		stats.Trace.Escaped, stats.Trace.Absorbed, stats.Trace.Exhausted)

	return rows, stats, nil
}

// RenderImage renders and converts the result to an RGBA image
func (rt *Raytracer) RenderImage(random *rand.Rand) (*image.RGBA, RenderStats, error) {
	pixels, stats, err := rt.Render(random)
	if err != nil {
		return nil, stats, fmt.Errorf("render failed: %w", err)
	}
	img := ToImage(pixels)
	stats.AvgLuminance = CalculateAverageLuminance(img)
	return img, stats, nil
}
