package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Default image size for built-in scenes and scene files that omit one
const (
	DefaultWidth  = 400
	DefaultHeight = 300
)

// NewDefaultScene creates a default scene with three spheres on a ground plane
func NewDefaultScene() *Scene {
	s := NewScene("Default Scene", Camera{
		Position: core.NewVec3(0, 1.5, 6),
		LookAt:   core.NewVec3(0, 0.75, 0),
		FOV:      60,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
	})

	red := material.NewPhong(core.NewVec3(200, 60, 50), 0.1, 0.8, 0.4, 30, 0)
	silver := material.NewMirror(core.NewVec3(200, 200, 200), 0.6)
	blue := material.NewPhong(core.NewVec3(40, 80, 200), 0.1, 0.7, 0.6, 80, 0.2)
	ground := material.NewPhong(core.NewVec3(120, 160, 90), 0.15, 0.8, 0.05, 5, 0.1)

	s.AddSphere(core.NewVec3(0, 1, 0), 1, red)
	s.AddSphere(core.NewVec3(-2.2, 0.75, -0.5), 0.75, silver)
	s.AddSphere(core.NewVec3(2.2, 0.6, 0.3), 0.6, blue)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), ground)

	s.AddLight(core.NewVec3(-5, 8, 6))
	s.AddLight(core.NewVec3(6, 5, 2))

	return s
}

// NewMirrorScene creates a ring of mirror spheres around a matte sphere,
// useful for seeing how MaxDepth limits inter-reflection
func NewMirrorScene() *Scene {
	s := NewScene("Mirror Spheres", Camera{
		Position: core.NewVec3(0, 3, 8),
		LookAt:   core.NewVec3(0, 0.8, 0),
		FOV:      50,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
	})

	mirror := material.NewMirror(core.NewVec3(180, 190, 200), 0.85)
	gold := material.NewPhong(core.NewVec3(220, 170, 60), 0.1, 0.7, 0.8, 120, 0.3)
	floor := material.NewPhong(core.NewVec3(90, 90, 100), 0.15, 0.8, 0.1, 10, 0.25)

	s.AddSphere(core.NewVec3(0, 0.8, 0), 0.8, gold)
	for i := 0; i < 5; i++ {
		angle := float64(i) * 2 * math.Pi / 5
		center := core.NewVec3(2.4*math.Sin(angle), 1, -2.4*math.Cos(angle))
		s.AddSphere(center, 1, mirror)
	}
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), floor)

	s.AddLight(core.NewVec3(-4, 9, 6))
	s.AddLight(core.NewVec3(5, 7, 3))

	return s
}
