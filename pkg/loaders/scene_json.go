package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// ValidationErrors holds every problem found in a scene description
type ValidationErrors []string

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	if len(ve) == 1 {
		return ve[0]
	}
	return fmt.Sprintf("%d validation errors: %s", len(ve), strings.Join(ve, "; "))
}

// SceneFile is the JSON scene format
type SceneFile struct {
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Group       string       `json:"group,omitempty"`
	Camera      *CameraFile  `json:"camera,omitempty"`
	Spheres     []SphereFile `json:"spheres"`
}

// CameraFile holds camera options; absent fields keep renderer.DefaultCameraConfig values
type CameraFile struct {
	ImageWidth      *int        `json:"image_width,omitempty"`
	AspectRatio     *float64    `json:"aspect_ratio,omitempty"`
	SamplesPerPixel *int        `json:"samples_per_pixel,omitempty"`
	MaxDepth        *int        `json:"max_depth,omitempty"`
	VFov            *float64    `json:"vertical_fov_degrees,omitempty"`
	LookFrom        *[3]float64 `json:"look_from,omitempty"`
	LookAt          *[3]float64 `json:"look_at,omitempty"`
	ViewUp          *[3]float64 `json:"view_up,omitempty"`
	DefocusAngle    *float64    `json:"defocus_angle,omitempty"`
	FocusDistance   *float64    `json:"focus_distance,omitempty"`
}

// SphereFile describes one sphere
type SphereFile struct {
	Center   *[3]float64  `json:"center"`
	Radius   float64      `json:"radius"`
	Material MaterialFile `json:"material"`
}

// MaterialFile describes a sphere's material. Albedo is either an RGB triple
// or a CSS color name such as "gold".
type MaterialFile struct {
	Type            string          `json:"type"`
	Albedo          json.RawMessage `json:"albedo,omitempty"`
	Fuzz            float64         `json:"fuzz,omitempty"`
	RefractionIndex float64         `json:"refraction_index,omitempty"`
}

// LoadSceneFile reads and parses a JSON scene file. The scene is named after
// the file unless the file names itself.
func LoadSceneFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ParseScene decodes a JSON scene. Structural problems are returned as a
// decode error; every semantic problem is collected into ValidationErrors.
func ParseScene(data []byte) (*scene.Scene, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("invalid scene JSON: %w", err)
	}

	var errors ValidationErrors

	s := scene.New(file.Name)
	s.Camera = file.Camera.apply(renderer.DefaultCameraConfig())
	if err := s.Camera.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("camera: %v", err))
	}

	for i, sphereFile := range file.Spheres {
		if sphereFile.Center == nil {
			errors = append(errors, fmt.Sprintf("sphere %d: center is required", i))
		}
		if !(sphereFile.Radius > 0) {
			errors = append(errors, fmt.Sprintf("sphere %d: radius must be positive, got %g", i, sphereFile.Radius))
		}

		mat, err := sphereFile.Material.build()
		if err != nil {
			errors = append(errors, fmt.Sprintf("sphere %d: %v", i, err))
			continue
		}

		if sphereFile.Center != nil {
			s.AddSphere(vec3(*sphereFile.Center), sphereFile.Radius, mat)
		}
	}

	if len(errors) > 0 {
		return nil, errors
	}
	return s, nil
}

// apply overlays the fields present in the file onto config
func (c *CameraFile) apply(config renderer.CameraConfig) renderer.CameraConfig {
	if c == nil {
		return config
	}
	if c.ImageWidth != nil {
		config.ImageWidth = *c.ImageWidth
	}
	if c.AspectRatio != nil {
		config.AspectRatio = *c.AspectRatio
	}
	if c.SamplesPerPixel != nil {
		config.SamplesPerPixel = *c.SamplesPerPixel
	}
	if c.MaxDepth != nil {
		config.MaxDepth = *c.MaxDepth
	}
	if c.VFov != nil {
		config.VFov = *c.VFov
	}
	if c.LookFrom != nil {
		config.LookFrom = vec3(*c.LookFrom)
	}
	if c.LookAt != nil {
		config.LookAt = vec3(*c.LookAt)
	}
	if c.ViewUp != nil {
		config.ViewUp = vec3(*c.ViewUp)
	}
	if c.DefocusAngle != nil {
		config.DefocusAngle = *c.DefocusAngle
	}
	if c.FocusDistance != nil {
		config.FocusDistance = *c.FocusDistance
	}
	return config
}

// build converts the description into a material, rejecting out-of-range values
func (m MaterialFile) build() (material.Material, error) {
	var mat material.Material

	switch strings.ToLower(m.Type) {
	case "lambertian":
		albedo, err := parseAlbedo(m.Albedo)
		if err != nil {
			return mat, err
		}
		mat = material.NewLambertian(albedo)
	case "metal":
		albedo, err := parseAlbedo(m.Albedo)
		if err != nil {
			return mat, err
		}
		if !material.FuzzRange.Contains(m.Fuzz) {
			return mat, fmt.Errorf("metal fuzz must be in [0, 1], got %g", m.Fuzz)
		}
		mat = material.NewMetal(albedo, m.Fuzz)
	case "dielectric":
		if !(m.RefractionIndex > 0) {
			return mat, fmt.Errorf("dielectric refraction_index must be positive, got %g", m.RefractionIndex)
		}
		mat = material.NewDielectric(m.RefractionIndex)
	case "":
		return mat, fmt.Errorf("material type is required")
	default:
		return mat, fmt.Errorf("unknown material type %q", m.Type)
	}

	if err := mat.Validate(); err != nil {
		return mat, err
	}
	return mat, nil
}

var albedoRange = core.NewInterval(0, 1)

// parseAlbedo accepts [r, g, b] with components in [0, 1] or a CSS color name
func parseAlbedo(raw json.RawMessage) (core.Vec3, error) {
	if len(raw) == 0 {
		return core.Vec3{}, fmt.Errorf("albedo is required")
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return core.Vec3{}, fmt.Errorf("unknown color name %q", name)
		}
		return core.NewVec3(float64(rgba.R)/255, float64(rgba.G)/255, float64(rgba.B)/255), nil
	}

	var components []float64
	if err := json.Unmarshal(raw, &components); err != nil {
		return core.Vec3{}, fmt.Errorf("albedo must be [r, g, b] or a color name: %w", err)
	}
	if len(components) != 3 {
		return core.Vec3{}, fmt.Errorf("albedo needs 3 components, got %d", len(components))
	}
	for _, c := range components {
		if !albedoRange.Contains(c) {
			return core.Vec3{}, fmt.Errorf("albedo components must be in [0, 1], got %v", components)
		}
	}
	return core.NewVec3(components[0], components[1], components[2]), nil
}

func vec3(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
