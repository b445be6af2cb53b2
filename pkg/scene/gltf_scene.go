package scene

import (
	"fmt"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/loaders"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// NewGLTFScene creates a scene from a glTF file. The file's camera node, if
// any, replaces the default eye; explicit overrides still win.
func NewGLTFScene(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	gltfScene, err := loaders.LoadGLTFScene(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load glTF file: %w", err)
	}

	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          worldUp,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}
	if cam := gltfScene.Camera; cam != nil {
		cameraConfig.Center = cam.Eye
		cameraConfig.LookAt = cam.LookAt
		if cam.VFov > 0 {
			cameraConfig.VFov = cam.VFov
		}
		if cam.AspectRatio > 0 {
			cameraConfig.AspectRatio = cam.AspectRatio
		}
	}
	if cameraConfig.Center == cameraConfig.LookAt {
		return nil, fmt.Errorf("camera eye and target coincide at %v", cameraConfig.Center)
	}
	cameraConfig = mergeCamera(cameraConfig, cameraOverrides)

	shapes := make([]geometry.Shape, 0, len(gltfScene.Spheres))
	for _, s := range gltfScene.Spheres {
		shapes = append(shapes, geometry.NewSphere(s.Center, s.Radius, convertMaterial(s.Material)))
	}

	return NewScene(cameraConfig, renderConfigFor(cameraConfig, 400), shapes...), nil
}

func convertMaterial(m loaders.GLTFMaterial) material.Material {
	switch m.Kind {
	case loaders.MaterialDielectric:
		return material.NewDielectric(m.RefractiveIndex)
	case loaders.MaterialMetal:
		return material.NewMetal(m.BaseColor, m.Roughness)
	default:
		return material.NewLambertian(m.BaseColor)
	}
}
