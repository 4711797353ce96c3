package renderer

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Raytracer drives the camera and integrator over the pixels of an image
type Raytracer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	width      int
	height     int
}

// NewRaytracer creates a raytracer for a scene using the Whitted integrator.
// A nil scene yields a raytracer that renders nothing.
func NewRaytracer(s *scene.Scene, config integrator.Config) *Raytracer {
	if s == nil {
		return &Raytracer{}
	}
	return NewRaytracerWithIntegrator(s, integrator.NewWhittedIntegrator(s, config))
}

// NewRaytracerWithIntegrator creates a raytracer with a custom integrator
func NewRaytracerWithIntegrator(s *scene.Scene, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:      s,
		camera:     NewCamera(s.Camera),
		integrator: integratorInst,
		width:      s.Camera.Width,
		height:     s.Camera.Height,
	}
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// RenderPixel traces the primary ray for camera pixel (x, y)
func (rt *Raytracer) RenderPixel(x, y int) (color.RGBA, bool) {
	c, ok := rt.integrator.Trace(rt.camera.GetRay(x, y), 0)
	if !ok {
		return color.RGBA{}, false
	}
	return vec3ToColor(c), true
}

// RenderBounds renders the pixels within bounds into img. Bounds are given in
// image coordinates; camera row y is written to image row height-1-y so the
// result is upright. Pixels whose ray escapes are not written.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA) RenderStats {
	stats := RenderStats{}

	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		y := rt.height - 1 - row
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats.TotalPixels++
			pixelColor, ok := rt.RenderPixel(x, y)
			if !ok {
				stats.MissPixels++
				continue
			}
			stats.HitPixels++
			img.SetRGBA(x, row, pixelColor)
		}
	}

	return stats
}

// RenderInto renders the whole image sequentially into an existing buffer
func (rt *Raytracer) RenderInto(img *image.RGBA) RenderStats {
	if rt.scene == nil {
		return RenderStats{}
	}

	startTime := time.Now()
	stats := rt.RenderBounds(image.Rect(0, 0, rt.width, rt.height), img)
	stats.Duration = time.Since(startTime)
	return stats
}

// Render renders the whole image sequentially into a new transparent buffer.
// It returns a nil image when there is no scene.
func (rt *Raytracer) Render() (*image.RGBA, RenderStats) {
	if rt.scene == nil {
		return nil, RenderStats{}
	}

	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	stats := rt.RenderInto(img)
	return img, stats
}

// vec3ToColor converts a 0-255 scale color to RGBA, clamping each channel and
// mapping NaN to 0
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	return color.RGBA{
		R: channel(colorVec.X),
		G: channel(colorVec.Y),
		B: channel(colorVec.Z),
		A: 255,
	}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
