package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB on the 0-255 scale
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	lms := core.NewVec3(
		l+0.3963377774*a+0.2158037573*b,
		l-0.1055613458*a-0.0638541728*b,
		l-0.0894841775*a-1.2914855480*b,
	)
	lms = lms.MultiplyVec(lms).MultiplyVec(lms)

	// LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*lms.X-3.3077115913*lms.Y+0.2309699292*lms.Z,
		-1.2684380046*lms.X+2.6097574011*lms.Y-0.3413193965*lms.Z,
		-0.0041960863*lms.X-0.7034186147*lms.Y+1.7076147010*lms.Z,
	)

	return rgb.Clamp(0, 1).Multiply(255)
}

// NewSphereGridScene creates a scene with a gridSize x gridSize grid of
// rainbow-colored spheres whose reflectivity increases front to back
func NewSphereGridScene() *Scene {
	const gridSize = 10
	const spacing = 1.0
	const radius = 0.4

	s := NewScene("Sphere Grid", Camera{
		Position: core.NewVec3(4.5, 6, 18),
		LookAt:   core.NewVec3(4.5, 0.8, 4.5),
		FOV:      40,
		Width:    DefaultWidth,
		Height:   DefaultWidth * 9 / 16,
	})

	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			// Hue sweeps across columns, lightness across rows
			hue := float64(col) / gridSize * 360
			lightness := 0.55 + 0.25*float64(row)/(gridSize-1)
			color := oklchToRGB(lightness, 0.15, hue)

			reflectivity := 0.6 * float64(gridSize-1-row) / (gridSize - 1)
			mat := material.NewPhong(color, 0.1, 0.7, 0.5, 60, reflectivity)

			center := core.NewVec3(float64(col)*spacing, radius, float64(row)*spacing)
			s.AddSphere(center, radius, mat)
		}
	}

	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.NewMatte(core.NewVec3(60, 60, 70)))

	s.AddLight(core.NewVec3(-4, 12, 14))
	s.AddLight(core.NewVec3(14, 8, 10))

	return s
}
