package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
	"github.com/df07/go-batch-raytracer/pkg/material"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo extracts the parameters meaningful for the material's kind
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = toArray(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = toArray(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractionIndex"] = mat.RefractionIndex
	}
	return mat.Kind.String(), properties
}

// inspectPixel casts an unjittered ray from the camera center through the
// center of pixel (x, y) and reports the first sphere it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (InspectResponse, error) {
	state, err := renderer.ComputeCameraState(sceneObj.Camera)
	if err != nil {
		return InspectResponse{}, err
	}

	ray := core.NewRay(state.Center, state.PixelCenter(pixelX, pixelY).Subtract(state.Center))
	rec, index, ok := sceneObj.World.HitRay(ray, core.NewInterval(integrator.ShadowAcneEpsilon, math.Inf(1)))
	if !ok {
		return InspectResponse{Hit: false, SphereIndex: -1}, nil
	}

	sphere := sceneObj.World.Sphere(index)
	materialType, properties := extractMaterialInfo(sphere.Material)
	for key, value := range extractGeometryInfo(sphere) {
		properties[key] = value
	}

	return InspectResponse{
		Hit:          true,
		SphereIndex:  index,
		MaterialType: materialType,
		GeometryType: "sphere",
		Point:        toArray(rec.Point),
		Normal:       toArray(rec.Normal),
		Distance:     rec.Point.Subtract(ray.Origin).Length(),
		FrontFace:    rec.FrontFace,
		Properties:   properties,
	}, nil
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(sphere *geometry.Sphere) map[string]interface{} {
	return map[string]interface{}{
		"center": toArray(sphere.Center),
		"radius": sphere.Radius,
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scene: "+req.Scene)
		return
	}
	scene.SamplingOverrides{Width: req.Width, MaxDepth: -1}.Apply(sceneObj)

	// Validate pixel coordinates
	width, height := sceneObj.Camera.ImageWidth, sceneObj.Camera.ImageHeight()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	response, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
