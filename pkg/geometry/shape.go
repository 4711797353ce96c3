package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Bias is the minimum accepted hit distance. It rejects intersections behind
// the ray origin and keeps secondary rays from re-hitting the surface they
// leave.
const Bias = 0.001

// Surface is a renderable object. The set of implementations is closed:
// only *Sphere and *Plane satisfy it.
type Surface interface {
	GetMaterial() material.Phong
	surface()
}

// Intersection is a single ray/surface crossing
type Intersection struct {
	Distance float64   // Ray parameter t, always > Bias for a hit
	Point    core.Vec3 // Point of intersection
}

// NoIntersection returns the "nothing hit" value with infinite distance
func NoIntersection() Intersection {
	return Intersection{Distance: math.Inf(1)}
}

// Hit is the result of searching every surface for the nearest intersection
type Hit struct {
	Intersection Intersection
	Object       Surface // nil when nothing was struck
}

// Missed reports whether the ray escaped without striking any surface
func (h Hit) Missed() bool {
	return h.Object == nil
}

// Intersect tests a ray against a surface of either kind
func Intersect(ray core.Ray, s Surface) (Intersection, bool) {
	switch obj := s.(type) {
	case *Sphere:
		return IntersectSphere(ray, obj)
	case *Plane:
		return IntersectPlane(ray, obj)
	default:
		return NoIntersection(), false
	}
}

// IntersectObjects scans all surfaces linearly and returns the closest hit.
// Equal distances keep the earlier surface.
func IntersectObjects(ray core.Ray, objects []Surface) Hit {
	closest := Hit{Intersection: NoIntersection()}

	for _, object := range objects {
		intersection, ok := Intersect(ray, object)
		if ok && intersection.Distance < closest.Intersection.Distance {
			closest.Intersection = intersection
			closest.Object = object
		}
	}

	return closest
}

// Normal returns the unit surface normal at point
func Normal(s Surface, point core.Vec3) core.Vec3 {
	switch obj := s.(type) {
	case *Sphere:
		return point.Subtract(obj.Center).Normalize()
	case *Plane:
		return obj.Normal.Normalize()
	default:
		return core.Vec3{}
	}
}
