package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// white is the specular highlight color on the 0-255 scale
var white = core.NewVec3(255, 255, 255)

// WhittedIntegrator implements recursive ray tracing with hard shadows, Phong
// style local illumination and mirror reflection. It holds no mutable state
// and can be shared by any number of goroutines.
type WhittedIntegrator struct {
	objects []geometry.Surface
	lights  []lights.PointLight
	config  Config
}

// NewWhittedIntegrator creates a Whitted integrator for a scene
func NewWhittedIntegrator(s *scene.Scene, config Config) *WhittedIntegrator {
	return &WhittedIntegrator{
		objects: s.Objects,
		lights:  s.Lights,
		config:  config,
	}
}

// Config returns the configuration the integrator was built with
func (wi *WhittedIntegrator) Config() Config {
	return wi.config
}

// Trace returns the background once depth exceeds MaxDepth without testing
// the scene. Otherwise it shades the closest hit, or reports false when the
// ray escapes.
func (wi *WhittedIntegrator) Trace(ray core.Ray, depth int) (core.Vec3, bool) {
	if depth > wi.config.MaxDepth {
		return wi.config.Background, true
	}

	hit := wi.IntersectObjects(ray)
	if hit.Missed() {
		return core.Vec3{}, false
	}

	return wi.Shade(ray, hit, depth), true
}

// IntersectObjects finds the closest surface along ray
func (wi *WhittedIntegrator) IntersectObjects(ray core.Ray) geometry.Hit {
	return geometry.IntersectObjects(ray, wi.objects)
}

// IsInShadow reports whether any surface lies along the ray from point toward
// the light. The search is not clipped at the light, so a surface beyond the
// light also counts as an occluder.
func (wi *WhittedIntegrator) IsInShadow(point core.Vec3, light lights.PointLight) bool {
	return !wi.IntersectObjects(light.ShadowRay(point)).Missed()
}

// Shade computes the color at a hit: local illumination from every visible
// light plus, when enabled, the reflected color weighted by ReflectiveK.
func (wi *WhittedIntegrator) Shade(ray core.Ray, hit geometry.Hit, depth int) core.Vec3 {
	object := hit.Object
	mat := object.GetMaterial()
	point := hit.Intersection.Point
	normal := geometry.Normal(object, point)

	diffuse, specular := wi.lightTerms(ray, point, normal, mat.SpecularExponent)

	color := core.Vec3{}
	if wi.config.Specular {
		color = color.Add(white.Multiply(mat.SpecularK * specular))
	}
	if wi.config.Ambient {
		color = color.Add(mat.Color.Multiply(mat.AmbientK))
	}
	if wi.config.Diffuse {
		color = color.Add(mat.Color.Multiply(mat.DiffuseK * diffuse))
	}

	if wi.config.Reflection && wi.config.MaxDepth > 0 {
		reflected := core.NewRay(point, ray.Direction.Reflect(normal))
		if reflectedColor, ok := wi.Trace(reflected, depth+1); ok {
			color = color.Add(reflectedColor.Multiply(mat.ReflectiveK))
		}
	}

	return color
}

// lightTerms sums the unweighted diffuse and specular factors over all lights
// that are not in shadow.
func (wi *WhittedIntegrator) lightTerms(ray core.Ray, point, normal core.Vec3, exponent float64) (diffuse, specular float64) {
	nn := normal.LengthSquared()
	dd := ray.Direction.LengthSquared()

	for _, light := range wi.lights {
		if wi.IsInShadow(point, light) {
			continue
		}

		l := light.DirectionFrom(point)
		cosine := l.Dot(normal)
		if cosine > 0 {
			diffuse += cosine
		}

		// Light vector mirrored about the normal, compared with the view ray
		m := l.Subtract(normal.Multiply(2 * cosine / nn))
		lobe := math.Pow(m.Dot(ray.Direction)/math.Sqrt(m.LengthSquared()*dd), exponent)
		// NaN (negative base with a fractional exponent) fails this test too
		if lobe > 0 {
			specular += lobe
		}
	}

	return diffuse, specular
}
