package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Phong
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Phong) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// GetMaterial returns the sphere's material
func (s *Sphere) GetMaterial() material.Phong { return s.Material }

func (s *Sphere) surface() {}

// IntersectSphere finds where a ray enters or leaves the sphere. The near root
// is preferred; the far root is used when the near one lies within Bias of the
// origin or behind it, which is the case for a ray starting inside.
func IntersectSphere(ray core.Ray, s *Sphere) (Intersection, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.LengthSquared()
	b := 2 * oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return NoIntersection(), false
	}

	sqrtD := math.Sqrt(discriminant)
	denom := 2 * a

	// Try the closer intersection point first
	root := (-b - sqrtD) / denom
	if !(root > Bias) {
		root = (-b + sqrtD) / denom
		if !(root > Bias) {
			return NoIntersection(), false
		}
	}

	return Intersection{Distance: root, Point: ray.At(root)}, true
}
