package scene

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/renderer"
)

func TestBuiltinScenesAreValid(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := NewBuiltinScene(name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Expected at least one sphere")
			}
			if _, err := renderer.ComputeCameraState(s.Camera); err != nil {
				t.Errorf("Invalid camera: %v", err)
			}
			for i, sphere := range s.World.Spheres {
				if sphere.Radius <= 0 {
					t.Errorf("Sphere %d has non-positive radius %f", i, sphere.Radius)
				}
				if err := sphere.Material.Validate(); err != nil {
					t.Errorf("Sphere %d: %v", i, err)
				}
			}
		})
	}
}

func TestNewBuiltinScene_Unknown(t *testing.T) {
	s, err := NewBuiltinScene("nonexistent")
	if err == nil {
		t.Error("Expected error for unknown scene")
	}
	if s != nil {
		t.Errorf("Expected nil scene, got %v", s)
	}
}

func TestRandomSpheresScene_SeedReproducible(t *testing.T) {
	a := NewRandomSpheresScene(7)
	b := NewRandomSpheresScene(7)

	if a.World.Len() != b.World.Len() {
		t.Fatalf("Sphere counts differ: %d vs %d", a.World.Len(), b.World.Len())
	}
	for i := range a.World.Spheres {
		if *a.World.Spheres[i] != *b.World.Spheres[i] {
			t.Fatalf("Sphere %d differs: %+v vs %+v", i, *a.World.Spheres[i], *b.World.Spheres[i])
		}
	}
}

func TestSamplingOverrides_Apply(t *testing.T) {
	s := NewDefaultScene()
	original := s.Camera

	DefaultSamplingOverrides().Apply(s)
	if s.Camera != original {
		t.Errorf("Default overrides should not change the camera, got %+v", s.Camera)
	}

	SamplingOverrides{Width: 64, SamplesPerPixel: 3, MaxDepth: 0}.Apply(s)
	if s.Camera.ImageWidth != 64 || s.Camera.SamplesPerPixel != 3 || s.Camera.MaxDepth != 0 {
		t.Errorf("Overrides not applied: %+v", s.Camera)
	}
	if s.Camera.LookFrom != original.LookFrom {
		t.Error("Overrides should leave the camera position alone")
	}
}

func TestTwoSpheresScene_ZeroDepthRendersBlack(t *testing.T) {
	s := NewTwoSpheresScene()
	SamplingOverrides{Width: 16, SamplesPerPixel: 2, MaxDepth: 0}.Apply(s)

	pixels, _, err := s.NewRaytracer(nil).Render(rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for j, row := range pixels {
		for i, p := range row {
			if p != (renderer.RGB{}) {
				t.Fatalf("Pixel (%d,%d): expected black, got %v", i, j, p)
			}
		}
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glass_marbles.json")
	if err := os.WriteFile(file, []byte(`{"description": "marbles", "spheres": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	named := filepath.Join(dir, "b.json")
	if err := os.WriteFile(named, []byte(`{"name": "A Named Scene", "group": "Mine"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	byGroup := make(map[string][]SceneInfo)
	for _, g := range response.Groups {
		byGroup[g.Name] = g.Scenes
	}

	if len(byGroup["Built-in Scenes"]) != len(BuiltinNames()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(BuiltinNames()), len(byGroup["Built-in Scenes"]))
	}
	files := byGroup["Scene Files"]
	if len(files) != 1 || files[0].DisplayName != "Glass Marbles" || files[0].Description != "marbles" {
		t.Errorf("Unexpected scene files %+v", files)
	}
	mine := byGroup["Mine"]
	if len(mine) != 1 || mine[0].DisplayName != "A Named Scene" || mine[0].FilePath != named {
		t.Errorf("Unexpected custom group %+v", mine)
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("Expected no scenes, got %d", len(scenes))
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"three-spheres": "Three Spheres",
		"glass_marbles": "Glass Marbles",
		"single":        "Single",
	}
	for input, expected := range tests {
		if got := titleCase(input); got != expected {
			t.Errorf("titleCase(%q): expected %q, got %q", input, expected, got)
		}
	}
}
