package renderer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// CameraConfig contains every option that controls ray generation and sampling
type CameraConfig struct {
	ImageWidth      int       // Image width in pixels
	AspectRatio     float64   // Width / height; the height is derived and at least 1
	SamplesPerPixel int       // Number of jittered rays per pixel
	MaxDepth        int       // Maximum number of scatter events per ray
	VFov            float64   // Vertical field of view in degrees
	LookFrom        core.Vec3 // Camera position
	LookAt          core.Vec3 // Point the camera looks at
	ViewUp          core.Vec3 // Camera-relative "up" direction
	DefocusAngle    float64   // Variation angle of rays through each pixel, in degrees
	FocusDistance   float64   // Distance from LookFrom to the plane of perfect focus
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		ImageWidth:      400,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		ViewUp:          core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDistance:   1,
	}
}

// ImageHeight derives the image height from width and aspect ratio
func (c CameraConfig) ImageHeight() int {
	height := int(float64(c.ImageWidth) / c.AspectRatio)
	if height < 1 {
		height = 1
	}
	return height
}

// Validate checks every option against its allowed range
func (c CameraConfig) Validate() error {
	switch {
	case c.ImageWidth <= 0:
		return fmt.Errorf("image width must be positive, got %d", c.ImageWidth)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("aspect ratio must be positive and finite, got %g", c.AspectRatio)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("vertical field of view must be in (0, 180) degrees, got %g", c.VFov)
	case !(c.DefocusAngle >= 0):
		return fmt.Errorf("defocus angle must not be negative, got %g", c.DefocusAngle)
	case !(c.FocusDistance > 0):
		return fmt.Errorf("focus distance must be positive, got %g", c.FocusDistance)
	}

	forward := c.LookFrom.Subtract(c.LookAt)
	if forward.NearZero() {
		return fmt.Errorf("look-from %v and look-at %v must differ", c.LookFrom, c.LookAt)
	}
	if c.ViewUp.Cross(forward).NearZero() {
		return fmt.Errorf("view-up %v must not be parallel to the viewing direction", c.ViewUp)
	}
	return nil
}

// CameraState is the basis and viewport derived from a CameraConfig.
// It is computed in one step by ComputeCameraState and never modified.
type CameraState struct {
	ImageWidth      int
	ImageHeight     int
	SamplesPerPixel int
	MaxDepth        int

	Center      core.Vec3 // Camera center (LookFrom)
	U, V, W     core.Vec3 // Orthonormal camera basis: right, up, backward
	Pixel00     core.Vec3 // Center of the top-left pixel
	PixelDeltaU core.Vec3 // Offset to the pixel to the right
	PixelDeltaV core.Vec3 // Offset to the pixel below

	DefocusAngle float64
	DefocusDiskU core.Vec3 // Defocus disk horizontal radius
	DefocusDiskV core.Vec3 // Defocus disk vertical radius
}

// ComputeCameraState validates config and derives the camera basis, viewport and defocus disk
func ComputeCameraState(config CameraConfig) (CameraState, error) {
	if err := config.Validate(); err != nil {
		return CameraState{}, fmt.Errorf("invalid camera config: %w", err)
	}

	width := config.ImageWidth
	height := config.ImageHeight()

	// Viewport dimensions at the focus plane
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(width) / float64(height))

	// Orthonormal basis
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.ViewUp.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(width))
	pixelDeltaV := viewportV.Divide(float64(height))

	viewportUpperLeft := config.LookFrom.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return CameraState{
		ImageWidth:      width,
		ImageHeight:     height,
		SamplesPerPixel: config.SamplesPerPixel,
		MaxDepth:        config.MaxDepth,
		Center:          config.LookFrom,
		U:               u,
		V:               v,
		W:               w,
		Pixel00:         pixel00,
		PixelDeltaU:     pixelDeltaU,
		PixelDeltaV:     pixelDeltaV,
		DefocusAngle:    config.DefocusAngle,
		DefocusDiskU:    u.Multiply(defocusRadius),
		DefocusDiskV:    v.Multiply(defocusRadius),
	}, nil
}

// PixelCenter returns the world-space center of pixel (i, j), j counting down from the top
func (c CameraState) PixelCenter(i, j int) core.Vec3 {
	return c.Pixel00.
		Add(c.PixelDeltaU.Multiply(float64(i))).
		Add(c.PixelDeltaV.Multiply(float64(j)))
}

// GetRay generates a jittered ray through pixel (i, j), originating on the
// defocus disk when the defocus angle is positive
func (c CameraState) GetRay(i, j int, random *rand.Rand) core.Ray {
	offset := core.RandomPixelOffset(random)
	pixelSample := c.Pixel00.
		Add(c.PixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.PixelDeltaV.Multiply(float64(j) + offset.Y))

	origin := c.Center
	if c.DefocusAngle > 0 {
		origin = c.defocusDiskSample(random)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// GenerateRays builds one ray per pixel in row-major order, top row first
func (c CameraState) GenerateRays(random *rand.Rand) core.RayBatch {
	rays := core.NewRayBatch(c.ImageWidth * c.ImageHeight)
	for j := 0; j < c.ImageHeight; j++ {
		for i := 0; i < c.ImageWidth; i++ {
			rays.Set(j*c.ImageWidth+i, c.GetRay(i, j, random))
		}
	}
	return rays
}

// defocusDiskSample returns a random point on the camera's defocus disk
func (c CameraState) defocusDiskSample(random *rand.Rand) core.Vec3 {
	p := core.RandomInUnitDisk(random)
	return c.Center.Add(c.DefocusDiskU.Multiply(p.X)).Add(c.DefocusDiskV.Multiply(p.Y))
}
