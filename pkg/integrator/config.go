package integrator

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultBackground is the color returned once the reflection depth is
// exhausted. All colors use the 0-255 channel scale, so the classic
// (190, 210, 215)/255 sky triple is stored already scaled.
var DefaultBackground = core.NewVec3(190, 210, 215)

// Config holds the render-time switches. It is passed by value and never
// changes during a render.
type Config struct {
	MaxDepth   int       // Maximum reflection bounces (must be >= 0)
	Ambient    bool      // Include the ambient term
	Diffuse    bool      // Include the diffuse term
	Specular   bool      // Include the specular term
	Reflection bool      // Trace mirrored rays
	Background core.Vec3 // Color returned when depth exceeds MaxDepth
}

// DefaultConfig returns every term enabled with a single reflection bounce
func DefaultConfig() Config {
	return Config{
		MaxDepth:   1,
		Ambient:    true,
		Diffuse:    true,
		Specular:   true,
		Reflection: true,
		Background: DefaultBackground,
	}
}

// Validate checks that the configuration describes a finite render
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", c.MaxDepth)
	}
	return nil
}
