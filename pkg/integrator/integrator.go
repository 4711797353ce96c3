package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace computes the color carried back along ray at the given recursion
	// depth. The boolean is false when the ray struck no surface; callers
	// decide what such pixels show.
	Trace(ray core.Ray, depth int) (core.Vec3, bool)
}
