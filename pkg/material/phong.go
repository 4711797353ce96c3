package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Phong is the material record shared by every surface. Color channels are
// expressed on the 0-255 scale; the coefficients are weights in [0,1] except
// SpecularExponent which is any positive power.
type Phong struct {
	Color            core.Vec3 // Base color used by the ambient and diffuse terms
	AmbientK         float64   // Ambient weight
	DiffuseK         float64   // Diffuse weight
	SpecularK        float64   // Specular weight (applied to white)
	SpecularExponent float64   // Specular lobe exponent
	ReflectiveK      float64   // Weight of the mirrored ray's color
}

// NewPhong creates a new Phong material
func NewPhong(color core.Vec3, ambientK, diffuseK, specularK, specularExponent, reflectiveK float64) Phong {
	return Phong{
		Color:            color,
		AmbientK:         ambientK,
		DiffuseK:         diffuseK,
		SpecularK:        specularK,
		SpecularExponent: specularExponent,
		ReflectiveK:      reflectiveK,
	}
}

// NewMatte creates a non-reflective material with a weak highlight
func NewMatte(color core.Vec3) Phong {
	return NewPhong(color, 0.1, 0.9, 0.1, 10, 0)
}

// NewMirror creates a mostly reflective material with a sharp highlight
func NewMirror(color core.Vec3, reflectiveK float64) Phong {
	return NewPhong(color, 0.05, 0.2, 0.6, 100, reflectiveK)
}
