package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPointLight_DirectionFrom(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 10, 0))

	dir := light.DirectionFrom(core.NewVec3(0, 0, 0))
	if dir.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected (0,1,0), got %v", dir)
	}
	if math.Abs(light.DirectionFrom(core.NewVec3(3, 2, -1)).Length()-1) > 1e-12 {
		t.Error("Expected unit-length direction")
	}
}

func TestPointLight_ShadowRay(t *testing.T) {
	light := NewPointLight(core.NewVec3(1, 5, 2))
	point := core.NewVec3(1, 1, 2)

	ray := light.ShadowRay(point)
	if ray.Origin != point {
		t.Errorf("Expected origin %v, got %v", point, ray.Origin)
	}
	// The light sits at t=1 along the unnormalized shadow ray
	if ray.At(1) != light.Position {
		t.Errorf("Expected ray.At(1) to reach the light, got %v", ray.At(1))
	}
}
