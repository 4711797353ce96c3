package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// worldUp is the reference up vector used to build the camera basis
var worldUp = core.NewVec3(0, 1, 0)

// Camera generates one ray per pixel from a pinhole at the camera position
type Camera struct {
	origin      core.Vec3
	eye         core.Vec3 // Unit forward vector
	right       core.Vec3 // Unit right vector
	up          core.Vec3 // Unit up vector
	halfWidth   float64
	halfHeight  float64
	pixelWidth  float64
	pixelHeight float64
}

// NewCamera builds the eye/right/up basis and the per-pixel step sizes for a
// camera configuration
func NewCamera(config scene.Camera) *Camera {
	eye := config.LookAt.Subtract(config.Position).Normalize()
	right := eye.Cross(worldUp).Normalize()
	up := right.Cross(eye).Normalize()

	halfWidth := math.Tan(config.FOV / 2 * math.Pi / 180)
	halfHeight := float64(config.Height) / float64(config.Width) * halfWidth

	return &Camera{
		origin:      config.Position,
		eye:         eye,
		right:       right,
		up:          up,
		halfWidth:   halfWidth,
		halfHeight:  halfHeight,
		pixelWidth:  2 * halfWidth / float64(config.Width-1),
		pixelHeight: 2 * halfHeight / float64(config.Height-1),
	}
}

// GetRay returns the normalized ray through pixel (x, y). y grows along the
// camera's up vector, so y = 0 is the bottom row of the view.
func (c *Camera) GetRay(x, y int) core.Ray {
	horizontal := c.right.Multiply(float64(x)*c.pixelWidth - c.halfWidth)
	vertical := c.up.Multiply(float64(y)*c.pixelHeight - c.halfHeight)
	direction := c.eye.Add(horizontal).Add(vertical).Normalize()

	return core.NewRay(c.origin, direction)
}
