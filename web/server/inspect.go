package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"`    // Traced color before clamping
	Shadowed     []bool                 `json:"shadowed"` // Per light, in scene order
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo lists the Phong coefficients of a material
func extractMaterialInfo(mat material.Phong) map[string]interface{} {
	return map[string]interface{}{
		"color":            vec3Array(mat.Color),
		"hex":              colorToHex(mat.Color),
		"ambientK":         mat.AmbientK,
		"diffuseK":         mat.DiffuseK,
		"specularK":        mat.SpecularK,
		"specularExponent": mat.SpecularExponent,
		"reflectiveK":      mat.ReflectiveK,
	}
}

// extractGeometryInfo names the surface kind and lists its parameters
func extractGeometryInfo(surface geometry.Surface) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := surface.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3Array(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["center"] = vec3Array(geom.Center)
		properties["normal"] = vec3Array(geom.Normal)
		return "plane", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel traces the primary ray through image pixel (x, row) and
// reports what it hits. Rows count from the top of the image.
func inspectPixel(sceneObj *scene.Scene, config integrator.Config, x, row int) InspectResponse {
	camera := renderer.NewCamera(sceneObj.Camera)
	ray := camera.GetRay(x, sceneObj.Camera.Height-1-row)

	whitted := integrator.NewWhittedIntegrator(sceneObj, config)
	hit := whitted.IntersectObjects(ray)
	if hit.Missed() {
		return InspectResponse{Hit: false}
	}

	point := hit.Intersection.Point
	normal := geometry.Normal(hit.Object, point)
	shadowed := make([]bool, len(sceneObj.Lights))
	for i, light := range sceneObj.Lights {
		shadowed[i] = whitted.IsInShadow(point, light)
	}

	color, _ := whitted.Trace(ray, 0)
	geometryType, geometryProps := extractGeometryInfo(hit.Object)

	return InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vec3Array(point),
		Normal:       vec3Array(normal),
		Distance:     hit.Intersection.Distance,
		Color:        vec3Array(color),
		Shadowed:     shadowed,
		Properties: map[string]interface{}{
			"geometry": geometryProps,
			"material": extractMaterialInfo(hit.Object.GetMaterial()),
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= sceneObj.Camera.Width || pixelY < 0 || pixelY >= sceneObj.Camera.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, inspectReq.Config, pixelX, pixelY))
}

// colorToHex formats a 0-255 scale color as #rrggbb
func colorToHex(c core.Vec3) string {
	clamped := c.Clamp(0, 255)
	return fmt.Sprintf("#%02x%02x%02x", int(clamped.X+0.5), int(clamped.Y+0.5), int(clamped.Z+0.5))
}
