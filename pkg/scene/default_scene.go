package scene

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// NewDefaultScene creates a small scene with ground, a diffuse sphere, a
// metal sphere and a hollow glass sphere. It has no random layout, so the
// seed is ignored.
func NewDefaultScene(_ int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            worldUp,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.0,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}, cameraOverrides)

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	materialGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	shapes := []geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter),
		// Hollow glass: the inner sphere's negative radius flips its normals
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, materialGlass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, materialGold),
	}

	return NewScene(cameraConfig, renderConfigFor(cameraConfig, 400), shapes...)
}
