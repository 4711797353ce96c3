package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an infinitesimal light with unit weight. It has no color or
// intensity: every unoccluded light adds the same diffuse and specular terms.
type PointLight struct {
	Position core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3) PointLight {
	return PointLight{Position: position}
}

// DirectionFrom returns the unit vector from point toward the light
func (l PointLight) DirectionFrom(point core.Vec3) core.Vec3 {
	return l.Position.Subtract(point).Normalize()
}

// ShadowRay returns the ray used to test occlusion between point and the
// light. Its direction is the unnormalized offset to the light.
func (l PointLight) ShadowRay(point core.Vec3) core.Ray {
	return core.NewRay(point, l.Position.Subtract(point))
}
