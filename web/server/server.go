package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fogleman/gg"

	"github.com/df07/go-batch-raytracer/pkg/loaders"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

const (
	maxImageWidth   = 2000
	maxSamples      = 10000
	maxDepth        = 1000
	maxPixelSamples = 50_000_000 // width × height × spp for one render
	maxSceneBody    = 1 << 20 // bytes accepted for a posted scene
	defaultSceneID  = "default"
	defaultSeed     = 42
	formatPNG       = "png"
	formatJSON      = "json"
	renderIDPrefix  = "render"
	defaultScenesIn = "scenes"
)

// Server handles web requests for the batch raytracer
type Server struct {
	port      int
	scenesDir string
	renders   atomic.Int64
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	if scenesDir == "" {
		scenesDir = defaultScenesIn
	}
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Built-in scene name or scene file path
	Width           int    `json:"width"`           // Image width, 0 keeps the scene's
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel, 0 keeps the scene's
	MaxDepth        int    `json:"maxDepth"`        // Scatter depth, negative keeps the scene's
	Seed            int64  `json:"seed"`            // Random seed
	Format          string `json:"format"`          // "png" or "json"
}

// RenderResponse is the JSON form of a finished render
type RenderResponse struct {
	Scene     string           `json:"scene"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
	ElapsedMs int64            `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width           int `json:"width"`
	Height          int `json:"height"`
	TotalPixels     int `json:"totalPixels"`
	TotalSamples    int `json:"totalSamples"`
	SamplesPerPixel int `json:"samplesPerPixel"`
	MaxDepth        int `json:"maxDepth"`
	Passes          int `json:"passes"`
	Escaped         int `json:"escaped"`
	Absorbed        int `json:"absorbed"`
	Exhausted       int `json:"exhausted"`

	AvgLuminance float64 `json:"avgLuminance"`
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleRender renders a built-in scene (GET) or a posted JSON scene (POST)
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	var sceneObj *scene.Scene
	switch r.Method {
	case http.MethodGet:
		sceneObj, err = s.createScene(req.Scene)
	case http.MethodPost:
		sceneObj, err = readPostedScene(r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scene.SamplingOverrides{
		Width:           req.Width,
		SamplesPerPixel: req.SamplesPerPixel,
		MaxDepth:        req.MaxDepth,
	}.Apply(sceneObj)

	if err := checkRenderLimits(sceneObj.Camera); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	renderID := fmt.Sprintf("%s-%d", renderIDPrefix, s.renders.Add(1))
	logger := NewWebLogger(renderID)

	startTime := time.Now()
	img, stats, err := sceneObj.NewRaytracer(logger).RenderImage(rand.New(rand.NewSource(req.Seed)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	elapsed := time.Since(startTime)

	if req.Format == formatJSON {
		imageData, err := imageToBase64PNG(img)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(RenderResponse{
			Scene:     sceneObj.Name,
			ImageData: imageData,
			Stats:     newStats(stats),
			Console:   logger.Messages(),
			ElapsedMs: elapsed.Milliseconds(),
		})
		return
	}

	var buf bytes.Buffer
	if err := gg.NewContextForRGBA(img).EncodePNG(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[%s] failed to write response: %v", renderID, err)
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: defaultSceneID, Format: formatPNG}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxImageWidth); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", defaultSeed); err != nil {
		return nil, err
	}

	switch format := query.Get("format"); format {
	case "", formatPNG:
	case formatJSON:
		req.Format = formatJSON
	default:
		return nil, fmt.Errorf("format must be %q or %q, got: %s", formatPNG, formatJSON, format)
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses a 64-bit integer parameter from URL query
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in scene name, falling back to a file discovered in the scenes directory
func (s *Server) createScene(sceneName string) (*scene.Scene, error) {
	sceneObj, err := scene.NewBuiltinScene(sceneName)
	if err == nil {
		return sceneObj, nil
	}

	files, listErr := scene.ListSceneFiles(s.scenesDir)
	if listErr != nil {
		return nil, listErr
	}
	for _, info := range files {
		if info.ID == sceneName {
			return loaders.LoadSceneFile(info.FilePath)
		}
	}
	return nil, err
}

// readPostedScene parses a JSON scene from the request body
func readPostedScene(r *http.Request) (*scene.Scene, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	if len(data) > maxSceneBody {
		return nil, fmt.Errorf("scene body exceeds %d bytes", maxSceneBody)
	}

	sceneObj, err := loaders.ParseScene(data)
	if err != nil {
		return nil, err
	}
	if sceneObj.Name == "" {
		sceneObj.Name = "posted"
	}
	return sceneObj, nil
}

// checkRenderLimits rejects requests the server will not render, whatever their origin
func checkRenderLimits(config renderer.CameraConfig) error {
	if config.ImageWidth > maxImageWidth {
		return fmt.Errorf("width must be at most %d, got: %d", maxImageWidth, config.ImageWidth)
	}
	if config.ImageHeight() > maxImageWidth {
		return fmt.Errorf("height must be at most %d, got: %d", maxImageWidth, config.ImageHeight())
	}
	if config.SamplesPerPixel > maxSamples {
		return fmt.Errorf("samples per pixel must be at most %d, got: %d", maxSamples, config.SamplesPerPixel)
	}
	if config.MaxDepth > maxDepth {
		return fmt.Errorf("max depth must be at most %d, got: %d", maxDepth, config.MaxDepth)
	}
	pixelSamples := int64(config.ImageWidth) * int64(config.ImageHeight()) * int64(config.SamplesPerPixel)
	if pixelSamples > maxPixelSamples {
		return fmt.Errorf("width × height × samples per pixel must be at most %d, got: %d", maxPixelSamples, pixelSamples)
	}
	return nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = defaultSceneID
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scene: "+sceneName)
		return
	}

	config := sceneObj.Camera
	response := map[string]interface{}{
		"scene": sceneName,
		"bounds": nil,
		"defaults": map[string]interface{}{
			"width":           config.ImageWidth,
			"height":          config.ImageHeight(),
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"spheres":         sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": 1,
				"max": maxImageWidth,
			},
			"spp": map[string]int{
				"min": 1,
				"max": maxSamples,
			},
			"depth": map[string]int{
				"min": 0,
				"max": maxDepth,
			},
			"pixelSamples": map[string]int{
				"max": maxPixelSamples,
			},
		},
	}

	if box, ok := sceneObj.World.BoundingBox(); ok {
		response["bounds"] = map[string][3]float64{
			"min":    toArray(box.Min),
			"max":    toArray(box.Max),
			"center": toArray(box.Center()),
			"size":   toArray(box.Size()),
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:           stats.Width,
		Height:          stats.Height,
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    stats.TotalSamples,
		SamplesPerPixel: stats.SamplesPerPixel,
		MaxDepth:        stats.MaxDepth,
		Passes:          stats.Trace.Passes,
		Escaped:         stats.Trace.Escaped,
		Absorbed:        stats.Trace.Absorbed,
		Exhausted:       stats.Trace.Exhausted,
		AvgLuminance:    stats.AvgLuminance,
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
