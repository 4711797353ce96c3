package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Default image size for scene files that do not specify one
const (
	DefaultWidth  = scene.DefaultWidth
	DefaultHeight = scene.DefaultHeight
)

// vec3JSON is a vector written as a three-element array
type vec3JSON [3]float64

func (v vec3JSON) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// cameraJSON mirrors the camera block of a scene file. "direction" is a
// look-at point.
type cameraJSON struct {
	Position  vec3JSON `json:"position"`
	Direction vec3JSON `json:"direction"`
	FOV       float64  `json:"fov"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
}

// objectJSON covers both surface kinds; unused fields are ignored per type
type objectJSON struct {
	Type             string   `json:"type"`
	Center           vec3JSON `json:"center"`
	Radius           float64  `json:"radius"`
	Normal           vec3JSON `json:"normal"`
	Color            vec3JSON `json:"color"`
	AmbientK         float64  `json:"ambientK"`
	DiffuseK         float64  `json:"diffuseK"`
	SpecularK        float64  `json:"specularK"`
	SpecularExponent float64  `json:"specularExponent"`
	ReflectiveK      float64  `json:"reflectiveK"`
}

type lightJSON struct {
	Position vec3JSON `json:"position"`
}

type sceneJSON struct {
	Name    string       `json:"name"`
	Camera  cameraJSON   `json:"camera"`
	Objects []objectJSON `json:"objects"`
	Lights  []lightJSON  `json:"lights"`
}

// LoadSceneJSON decodes a scene description. Only structural problems are
// reported; numeric values are taken as written.
func LoadSceneJSON(r io.Reader) (*scene.Scene, error) {
	var raw sceneJSON
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	width, height := raw.Camera.Width, raw.Camera.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	s := scene.NewScene(raw.Name, scene.Camera{
		Position: raw.Camera.Position.toVec3(),
		LookAt:   raw.Camera.Direction.toVec3(),
		FOV:      raw.Camera.FOV,
		Width:    width,
		Height:   height,
	})

	for i, obj := range raw.Objects {
		mat := material.NewPhong(obj.Color.toVec3(), obj.AmbientK, obj.DiffuseK,
			obj.SpecularK, obj.SpecularExponent, obj.ReflectiveK)

		switch obj.Type {
		case "sphere":
			s.AddSphere(obj.Center.toVec3(), obj.Radius, mat)
		case "plane":
			s.AddPlane(obj.Center.toVec3(), obj.Normal.toVec3(), mat)
		default:
			return nil, fmt.Errorf("object %d: unknown type %q", i, obj.Type)
		}
	}

	for _, light := range raw.Lights {
		s.AddLight(light.Position.toVec3())
	}

	return s, nil
}

// LoadSceneFile loads a scene from a JSON file. The scene is named after the
// file when the document has no name.
func LoadSceneFile(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := LoadSceneJSON(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return s, nil
}
