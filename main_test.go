package main

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

const testSceneJSON = `{
  "name": "Test File Scene",
  "camera": {"position": [0, 0, 10], "direction": [0, 0, 0], "fov": 60, "width": 32, "height": 24},
  "objects": [{"type": "sphere", "center": [0, 0, 0], "radius": 2, "color": [255, 0, 0],
    "ambientK": 0.2, "diffuseK": 0.8, "specularK": 0, "specularExponent": 1, "reflectiveK": 0}],
  "lights": [{"position": [5, 5, 5]}]
}`

func TestCreateScene(t *testing.T) {
	scenesDir := t.TempDir()
	scenePath := filepath.Join(scenesDir, "test-file.json")
	if err := os.WriteFile(scenePath, []byte(testSceneJSON), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		config         Config
		expectError    bool
		expectedWidth  int
		expectedHeight int
	}{
		// Built-in scenes
		{"default scene", Config{SceneName: "default"}, false, 400, 300},
		{"mirrors scene", Config{SceneName: "mirrors"}, false, 400, 300},
		{"sphere grid scene", Config{SceneName: "sphere-grid"}, false, 400, 225},

		// Scene files
		{"file by name", Config{SceneName: "test-file"}, false, 32, 24},
		{"file by path", Config{SceneName: scenePath}, false, 32, 24},

		// Size overrides
		{"width override", Config{SceneName: "default", Width: 64}, false, 64, 300},
		{"both overrides", Config{SceneName: "test-file", Width: 10, Height: 8}, false, 10, 8},

		// Invalid scenes
		{"unknown scene", Config{SceneName: "nonexistent"}, true, 0, 0},
		{"empty scene name", Config{SceneName: ""}, true, 0, 0},
		{"degenerate size", Config{SceneName: "default", Width: 1}, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.config, scenesDir)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.config.SceneName)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene '%s'", tt.config.SceneName)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.config.SceneName, err)
			}
			if s.Camera.Width != tt.expectedWidth || s.Camera.Height != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d",
					tt.expectedWidth, tt.expectedHeight, s.Camera.Width, s.Camera.Height)
			}
		})
	}
}

func TestCreateIntegratorConfig(t *testing.T) {
	cfg := createIntegratorConfig(Config{MaxDepth: 3, NoDiffuse: true, NoReflection: true})

	if cfg.MaxDepth != 3 {
		t.Errorf("Expected MaxDepth 3, got %d", cfg.MaxDepth)
	}
	if !cfg.Ambient || cfg.Diffuse || !cfg.Specular || cfg.Reflection {
		t.Errorf("Toggles not applied: %+v", cfg)
	}

	if err := createIntegratorConfig(Config{MaxDepth: -1}).Validate(); err == nil {
		t.Error("Expected negative max depth to fail validation")
	}
}

func TestCreateOutputName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		sceneName string
		expected  string
	}{
		{"Default Scene", filepath.Join("default-scene", "render_20240309_140507.png")},
		{"sample", filepath.Join("sample", "render_20240309_140507.png")},
		{"", filepath.Join("scene", "render_20240309_140507.png")},
	}

	for _, tt := range tests {
		if got := createOutputName(tt.sceneName, now); got != tt.expected {
			t.Errorf("createOutputName(%q) = %q, want %q", tt.sceneName, got, tt.expected)
		}
	}
}

func clearRenderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RAYTRACER_SCENES_DIR", "RAYTRACER_OUTPUT_DIR", "RAYTRACER_WORKERS", "S3_BUCKET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// renderToDir runs a small default-scene render into a fresh directory and
// returns the saved image
func renderToDir(t *testing.T, rawRows bool) image.Image {
	t.Helper()
	outDir := t.TempDir()
	cfg := Config{
		SceneName: "default",
		EnvFile:   filepath.Join(outDir, "missing.env"),
		Width:     16,
		Height:    12,
		MaxDepth:  1,
		TileSize:  8,
		Workers:   2,
		OutputDir: outDir,
		RawRows:   rawRows,
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "default-scene", "render_*.png"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected one rendered file, found %v (%v)", matches, err)
	}
	img, err := imaging.Open(matches[0])
	if err != nil {
		t.Fatalf("Failed to open render: %v", err)
	}
	return img
}

func TestRun_RawRowsFlipsOutput(t *testing.T) {
	clearRenderEnv(t)

	upright := renderToDir(t, false)
	raw := renderToDir(t, true)

	bounds := upright.Bounds()
	if raw.Bounds() != bounds {
		t.Fatalf("Expected matching sizes, got %v and %v", bounds, raw.Bounds())
	}

	// Row y of the raw file is camera row y, i.e. upright row h-1-y
	h := bounds.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r1, g1, b1, a1 := upright.At(x, h-1-y).RGBA()
			r2, g2, b2, a2 := raw.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("Pixel (%d,%d) of raw output does not match upright row %d", x, y, h-1-y)
			}
		}
	}
}

func TestRun_WritesImage(t *testing.T) {
	clearRenderEnv(t)

	outDir := t.TempDir()
	cfg := Config{
		SceneName: "default",
		Width:     16,
		Height:    12,
		MaxDepth:  1,
		TileSize:  8,
		Workers:   2,
		OutputDir: outDir,
	}

	if err := run(cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "default-scene", "render_*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected one rendered file, found %v", matches)
	}
}
