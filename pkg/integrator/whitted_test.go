package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var floorMaterial = material.NewPhong(core.NewVec3(100, 100, 100), 0.2, 0.5, 0.3, 10, 0)

// createFloorScene creates a floor at y=0 lit from directly above
func createFloorScene() *scene.Scene {
	s := scene.NewScene("floor", scene.Camera{
		Position: core.NewVec3(0, 5, 0),
		LookAt:   core.NewVec3(0, 0, 0),
		FOV:      60,
		Width:    10,
		Height:   10,
	})
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), floorMaterial)
	s.AddLight(core.NewVec3(0, 10, 0))
	return s
}

// straightDown is the view ray hitting the floor at the origin
var straightDown = core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

func assertColor(t *testing.T, got, expected core.Vec3) {
	t.Helper()
	const tolerance = 1e-9
	if math.Abs(got.X-expected.X) > tolerance ||
		math.Abs(got.Y-expected.Y) > tolerance ||
		math.Abs(got.Z-expected.Z) > tolerance {
		t.Errorf("Expected color %v, got %v", expected, got)
	}
}

func TestTrace_LocalIlluminationToggles(t *testing.T) {
	// With the light straight above: diffuse = 1, specular = 1
	// specular = 255*0.3 = 76.5, ambient = 100*0.2 = 20, diffuse = 100*0.5 = 50
	tests := []struct {
		name     string
		ambient  bool
		diffuse  bool
		specular bool
		expected float64
	}{
		{"all terms", true, true, true, 146.5},
		{"ambient disabled", false, true, true, 126.5},
		{"diffuse disabled", true, false, true, 96.5},
		{"specular disabled", true, true, false, 70},
		{"ambient only", true, false, false, 20},
		{"diffuse only", false, true, false, 50},
		{"specular only", false, false, true, 76.5},
		{"nothing", false, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Ambient = tt.ambient
			config.Diffuse = tt.diffuse
			config.Specular = tt.specular

			wi := NewWhittedIntegrator(createFloorScene(), config)
			color, ok := wi.Trace(straightDown, 0)
			if !ok {
				t.Fatal("Expected the floor to be hit")
			}
			assertColor(t, color, core.NewVec3(tt.expected, tt.expected, tt.expected))
		})
	}
}

func TestTrace_AmbientToggleIndependence(t *testing.T) {
	on := DefaultConfig()
	off := DefaultConfig()
	off.Ambient = false

	s := createFloorScene()
	withAmbient, _ := NewWhittedIntegrator(s, on).Trace(straightDown, 0)
	withoutAmbient, _ := NewWhittedIntegrator(s, off).Trace(straightDown, 0)

	// The difference is exactly the ambient term
	ambient := floorMaterial.Color.Multiply(floorMaterial.AmbientK)
	assertColor(t, withAmbient.Subtract(withoutAmbient), ambient)
}

func TestTrace_BackgroundAtDepthLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxDepth = 3
	config.Background = core.NewVec3(1, 2, 3)

	scenes := []*scene.Scene{
		createFloorScene(),
		scene.NewScene("empty", scene.Camera{}),
	}

	for _, s := range scenes {
		wi := NewWhittedIntegrator(s, config)
		color, ok := wi.Trace(straightDown, config.MaxDepth+1)
		if !ok {
			t.Fatalf("%s: expected background color, got no color", s.Name)
		}
		if color != config.Background {
			t.Errorf("%s: expected exactly %v, got %v", s.Name, config.Background, color)
		}
	}
}

func TestTrace_MissReturnsNoColor(t *testing.T) {
	wi := NewWhittedIntegrator(createFloorScene(), DefaultConfig())

	// Pointing up, away from the floor
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0))
	color, ok := wi.Trace(ray, 0)
	if ok {
		t.Errorf("Expected no color for an escaping ray, got %v", color)
	}
}

func TestTrace_Idempotent(t *testing.T) {
	s := createFloorScene()
	s.AddSphere(core.NewVec3(1, 1, 1), 0.7, material.NewMirror(core.NewVec3(30, 60, 200), 0.4))
	wi := NewWhittedIntegrator(s, DefaultConfig())

	ray := core.NewRay(core.NewVec3(0, 3, 4), core.NewVec3(0.2, -0.5, -0.8).Normalize())
	first, ok1 := wi.Trace(ray, 0)
	second, ok2 := wi.Trace(ray, 0)

	if ok1 != ok2 || first != second {
		t.Errorf("Expected identical results, got (%v,%t) and (%v,%t)", first, ok1, second, ok2)
	}
}

func TestIsInShadow(t *testing.T) {
	tests := []struct {
		name     string
		blocker  geometry.Surface
		light    core.Vec3
		expected bool
	}{
		{
			name:     "unobstructed",
			blocker:  nil,
			light:    core.NewVec3(0, 10, 0),
			expected: false,
		},
		{
			name:     "sphere between point and light",
			blocker:  geometry.NewSphere(core.NewVec3(0, 5, 0), 1, floorMaterial),
			light:    core.NewVec3(0, 10, 0),
			expected: true,
		},
		{
			name:     "sphere off to the side",
			blocker:  geometry.NewSphere(core.NewVec3(5, 5, 0), 1, floorMaterial),
			light:    core.NewVec3(0, 10, 0),
			expected: false,
		},
		{
			// The shadow ray is not clipped at the light
			name:     "ceiling beyond the light",
			blocker:  geometry.NewPlane(core.NewVec3(0, 20, 0), core.NewVec3(0, -1, 0), floorMaterial),
			light:    core.NewVec3(0, 10, 0),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createFloorScene()
			if tt.blocker != nil {
				s.Objects = append(s.Objects, tt.blocker)
			}
			wi := NewWhittedIntegrator(s, DefaultConfig())

			got := wi.IsInShadow(core.NewVec3(0, 0, 0), lights.NewPointLight(tt.light))
			if got != tt.expected {
				t.Errorf("Expected in shadow = %t, got %t", tt.expected, got)
			}
		})
	}
}

func TestShade_ShadowedLightContributesNothing(t *testing.T) {
	s := createFloorScene()
	s.AddSphere(core.NewVec3(0, 5, 0), 1, floorMaterial)

	config := DefaultConfig()
	config.Ambient = false
	config.Reflection = false
	wi := NewWhittedIntegrator(s, config)

	// Reach the origin at an angle that misses the blocking sphere
	ray := core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(-1, -1, 0))
	hit := wi.IntersectObjects(ray)
	if hit.Object != s.Objects[0] {
		t.Fatalf("Expected the floor to be hit, got %T", hit.Object)
	}
	if hit.Intersection.Point.Length() > 1e-9 {
		t.Fatalf("Expected hit at origin, got %v", hit.Intersection.Point)
	}

	color := wi.Shade(ray, hit, 0)
	if color != (core.Vec3{}) {
		t.Errorf("Expected zero diffuse and specular in shadow, got %v", color)
	}
}

func TestShade_ReflectionIsAdditive(t *testing.T) {
	// Floor and ceiling mirrors with all local terms disabled: the only color
	// is the background picked up after the depth limit.
	s := createFloorScene()
	s.Objects = nil
	mirror := material.NewPhong(core.NewVec3(0, 0, 0), 0, 0, 0, 1, 0.5)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), mirror)
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), mirror)

	config := Config{
		MaxDepth:   1,
		Reflection: true,
		Background: DefaultBackground,
	}
	wi := NewWhittedIntegrator(s, config)

	color, ok := wi.Trace(straightDown, 0)
	if !ok {
		t.Fatal("Expected a color")
	}
	// floor -> ceiling (depth 1) -> background (depth 2), halved twice
	assertColor(t, color, core.NewVec3(47.5, 52.5, 53.75))
}

func TestShade_ReflectionDisabled(t *testing.T) {
	s := createFloorScene()
	s.Objects = nil
	mirror := material.NewPhong(core.NewVec3(0, 0, 0), 0, 0, 0, 1, 0.5)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), mirror)
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), mirror)

	tests := []struct {
		name   string
		config Config
	}{
		{"reflection toggle off", Config{MaxDepth: 1, Reflection: false, Background: DefaultBackground}},
		{"zero max depth", Config{MaxDepth: 0, Reflection: true, Background: DefaultBackground}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, ok := NewWhittedIntegrator(s, tt.config).Trace(straightDown, 0)
			if !ok {
				t.Fatal("Expected a color")
			}
			if color != (core.Vec3{}) {
				t.Errorf("Expected no reflected contribution, got %v", color)
			}
		})
	}
}

func TestShade_ReflectedMissAddsNothing(t *testing.T) {
	s := createFloorScene()
	s.Objects = nil
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		material.NewPhong(core.NewVec3(100, 100, 100), 0.2, 0, 0, 1, 0.9))

	config := DefaultConfig()
	config.MaxDepth = 5
	color, ok := NewWhittedIntegrator(s, config).Trace(straightDown, 0)
	if !ok {
		t.Fatal("Expected a color")
	}
	// The mirrored ray escapes upward, so only ambient remains
	assertColor(t, color, core.NewVec3(20, 20, 20))
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
	bad := DefaultConfig()
	bad.MaxDepth = -1
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for negative max depth")
	}
}
