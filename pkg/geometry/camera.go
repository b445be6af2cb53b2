package geometry

import (
	"math"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Eye position
	LookAt        core.Vec3 // Target point
	Up            core.Vec3 // Global up direction
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 = pinhole
	FocusDistance float64   // Distance to the focal plane, 0 = focus on LookAt
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Camera generates rays for rendering with optional depth of field
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	forward         core.Vec3
	right           core.Vec3
	up              core.Vec3
	lensRadius      float64
	config          CameraConfig
}

// NewCamera builds the orthonormal basis and viewport from the config
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := viewportHeight * config.AspectRatio

	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}

	horizontal := right.Multiply(focusDistance * viewportWidth)
	vertical := up.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Add(forward.Multiply(focusDistance)).
		Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2))

	return &Camera{
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		forward:         forward,
		right:           right,
		up:              up,
		lensRadius:      config.Aperture / 2,
		config:          config,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1.
// The sampler is only used when the camera has a finite aperture.
func (c *Camera) GetRay(u, v float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.right.Multiply(rd.X)).Add(c.up.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v))

	return core.NewRay(origin, target.Subtract(origin))
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.forward
}

// GetConfig returns the configuration the camera was built from
func (c *Camera) GetConfig() CameraConfig {
	return c.config
}
