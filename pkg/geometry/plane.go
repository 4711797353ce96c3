package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Center   core.Vec3      // A point on the plane
	Normal   core.Vec3      // Normal vector (unit or near-unit)
	Material material.Phong // Material of the plane
}

// NewPlane creates a new plane. The normal is stored as given; shading
// normalizes it when needed.
func NewPlane(center, normal core.Vec3, mat material.Phong) *Plane {
	return &Plane{
		Center:   center,
		Normal:   normal,
		Material: mat,
	}
}

// GetMaterial returns the plane's material
func (p *Plane) GetMaterial() material.Phong { return p.Material }

func (p *Plane) surface() {}

// IntersectPlane tests a ray against the plane. A ray exactly parallel to the
// plane never hits it.
func IntersectPlane(ray core.Ray, p *Plane) (Intersection, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if denominator == 0 {
		return NoIntersection(), false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Center.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !(t > Bias) {
		return NoIntersection(), false
	}

	return Intersection{Distance: t, Point: ray.At(t)}, true
}
