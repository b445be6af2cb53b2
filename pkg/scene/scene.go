package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	World        *geometry.HittableList // Objects in the scene, in insertion order
	RenderConfig renderer.RenderConfig  // Recommended render settings
}

// NewScene creates a scene from a camera configuration and a list of shapes
func NewScene(cameraConfig geometry.CameraConfig, renderConfig renderer.RenderConfig, shapes ...geometry.Shape) *Scene {
	return &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		World:        geometry.NewHittableList(shapes...),
		RenderConfig: renderConfig,
	}
}

// GetCamera implements renderer.Scene
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() geometry.Shape {
	return s.World
}

// GetShapeCount returns the number of top-level shapes
func (s *Scene) GetShapeCount() int {
	return s.World.Len()
}

// Constructor builds a named built-in scene. The seed drives any random
// scene layout; camera overrides are merged into the scene's own camera.
type Constructor func(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene

var builtins = map[string]Constructor{
	"cover":   NewCoverScene,
	"default": NewDefaultScene,
}

// Names lists the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the built-in scene with the given name
func Create(name string, seed int64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	constructor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return constructor(seed, cameraOverrides...), nil
}

// mergeCamera applies the first override, if any, to the scene's default camera
func mergeCamera(defaults geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}

// renderConfigFor derives image height from the camera aspect ratio
func renderConfigFor(cameraConfig geometry.CameraConfig, width int) renderer.RenderConfig {
	config := renderer.DefaultRenderConfig()
	config.Width = width
	config.Height = max(int(float64(width)/cameraConfig.AspectRatio), 1)
	return config
}

var _ renderer.Scene = (*Scene)(nil)

// worldUp is the global up direction used by the built-in scenes
var worldUp = core.NewVec3(0, 1, 0)
