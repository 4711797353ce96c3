package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Camera describes a pinhole camera. LookAt is a point the camera faces, not
// a direction vector.
type Camera struct {
	Position core.Vec3 // Eye position
	LookAt   core.Vec3 // Target point
	FOV      float64   // Field of view in degrees
	Width    int       // Image width in pixels
	Height   int       // Image height in pixels
}

// Scene contains all the elements needed for rendering. A scene is read-only
// while a render is in progress.
type Scene struct {
	Name    string
	Camera  Camera
	Objects []geometry.Surface  // Surfaces, searched in order
	Lights  []lights.PointLight // Point lights
}

// NewScene creates an empty scene with the given camera
func NewScene(name string, camera Camera) *Scene {
	return &Scene{
		Name:    name,
		Camera:  camera,
		Objects: make([]geometry.Surface, 0),
		Lights:  make([]lights.PointLight, 0),
	}
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Phong) {
	s.Objects = append(s.Objects, geometry.NewSphere(center, radius, mat))
}

// AddPlane adds an infinite plane to the scene
func (s *Scene) AddPlane(center, normal core.Vec3, mat material.Phong) {
	s.Objects = append(s.Objects, geometry.NewPlane(center, normal, mat))
}

// AddLight adds a point light to the scene
func (s *Scene) AddLight(position core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position))
}

// WithResolution returns a copy of the scene whose camera renders at the given
// size. Objects and lights are shared with the original.
func (s *Scene) WithResolution(width, height int) *Scene {
	clone := *s
	clone.Camera.Width = width
	clone.Camera.Height = height
	return &clone
}

// GetPrimitiveCount returns the number of surfaces in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
