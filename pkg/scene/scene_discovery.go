package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RandomSpheresSeed is the layout seed used for the built-in random-spheres scene
const RandomSpheresSeed = 42

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{ID: "default", DisplayName: "Three Spheres",
			Description: "Diffuse, hollow glass and fuzzy gold spheres on a ground sphere"},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{ID: "single-sphere", DisplayName: "Single Sphere",
			Description: "One diffuse sphere, one sample, one bounce"},
		build: NewSingleSphereScene,
	},
	{
		info: SceneInfo{ID: "two-spheres", DisplayName: "Two Spheres",
			Description: "A small sphere resting on a ground sphere"},
		build: NewTwoSpheresScene,
	},
	{
		info: SceneInfo{ID: "spheregrid", DisplayName: "Sphere Grid",
			Description: "10x10 grid of rainbow-colored metallic spheres"},
		build: NewSphereGridScene,
	},
	{
		info: SceneInfo{ID: "random-spheres", DisplayName: "Random Spheres",
			Description: "Hundreds of small random spheres around three large ones"},
		build: func() *Scene { return NewRandomSpheresScene(RandomSpheresSeed) },
	},
}

// BuiltinNames returns the identifiers of every built-in scene
func BuiltinNames() []string {
	names := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		names[i] = b.info.ID
	}
	return names
}

// NewBuiltinScene creates the built-in scene with the given identifier
func NewBuiltinScene(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.build(), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
}

// ListBuiltinScenes returns metadata for the built-in scenes
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		info := b.info
		info.Group = "Built-in Scenes"
		info.Type = "builtin"
		scenes[i] = info
	}
	return scenes
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the optional "name" and "description" fields of a JSON scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          filePath,
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, err
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("invalid scene file: %w", err)
	}

	if header.Name != "" {
		info.DisplayName = header.Name
	}
	if header.Group != "" {
		info.Group = header.Group
	}
	info.Description = header.Description
	return info, nil
}

// ListAllScenes returns built-in scenes and the scene files in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	var groupOrder []string
	for _, info := range append(ListBuiltinScenes(), fileScenes...) {
		if _, ok := groupMap[info.Group]; !ok {
			groupOrder = append(groupOrder, info.Group)
		}
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	for _, name := range groupOrder {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response, nil
}

// titleCase converts "three-spheres" or "three_spheres" to "Three Spheres"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
