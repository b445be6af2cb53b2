package loaders

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// MaterialKind identifies which surface model a glTF material maps to
type MaterialKind int

const (
	MaterialLambertian MaterialKind = iota
	MaterialMetal
	MaterialDielectric
)

// String returns the material kind name
func (k MaterialKind) String() string {
	switch k {
	case MaterialLambertian:
		return "lambertian"
	case MaterialMetal:
		return "metal"
	case MaterialDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("MaterialKind(%d)", int(k))
	}
}

// GLTFMaterial is the surface description read from a glTF material
type GLTFMaterial struct {
	Name            string
	Kind            MaterialKind
	BaseColor       core.Vec3 // Linear base color factor
	Roughness       float64   // Metal fuzz
	RefractiveIndex float64   // Dielectric index of refraction
}

// GLTFSphere is a mesh node placed in the scene as an analytic sphere
type GLTFSphere struct {
	Name     string
	Center   core.Vec3
	Radius   float64
	Material GLTFMaterial
}

// GLTFCamera is the view read from a node named "camera" or carrying a camera
type GLTFCamera struct {
	Eye         core.Vec3
	LookAt      core.Vec3
	VFov        float64 // Degrees, 0 if the file does not say
	AspectRatio float64 // 0 if the file does not say
}

// GLTFScene holds everything extracted from a glTF document
type GLTFScene struct {
	Spheres []GLTFSphere
	Camera  *GLTFCamera // nil if the file has no camera node
}

// cameraNodeName is the node name that marks the eye position
const cameraNodeName = "camera"

// defaultMaterial is used for primitives without a material
var defaultMaterial = GLTFMaterial{
	Name:      "default",
	Kind:      MaterialLambertian,
	BaseColor: core.NewVec3(0.5, 0.5, 0.5),
}

// LoadGLTFScene reads a .gltf or .glb file. Every node with a mesh becomes a
// sphere centred on the node translation with the largest scale component as
// radius. Node hierarchies are not composed; each node is taken in world space.
func LoadGLTFScene(path string) (*GLTFScene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return convertDocument(doc)
}

func convertDocument(doc *gltf.Document) (*GLTFScene, error) {
	materials := make([]GLTFMaterial, len(doc.Materials))
	for i, m := range doc.Materials {
		mat, err := convertMaterial(m)
		if err != nil {
			return nil, fmt.Errorf("material %d (%q): %w", i, m.Name, err)
		}
		materials[i] = mat
	}

	scene := &GLTFScene{}
	for i, node := range doc.Nodes {
		if node.Camera != nil || node.Name == cameraNodeName {
			if scene.Camera == nil {
				scene.Camera = convertCamera(doc, node)
			}
			continue
		}
		if node.Mesh == nil {
			continue
		}

		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d (%q): mesh index %d out of range", i, node.Name, *node.Mesh)
		}
		mat, err := primitiveMaterial(doc.Meshes[*node.Mesh], materials)
		if err != nil {
			return nil, fmt.Errorf("node %d (%q): %w", i, node.Name, err)
		}

		t := node.TranslationOrDefault()
		s := node.ScaleOrDefault()
		radius := math.Max(s[0], math.Max(s[1], s[2]))
		if radius == 0 {
			return nil, fmt.Errorf("node %d (%q): zero scale", i, node.Name)
		}

		scene.Spheres = append(scene.Spheres, GLTFSphere{
			Name:     node.Name,
			Center:   core.NewVec3(t[0], t[1], t[2]),
			Radius:   radius,
			Material: mat,
		})
	}

	return scene, nil
}

// primitiveMaterial returns the material of the first primitive of a mesh
func primitiveMaterial(mesh *gltf.Mesh, materials []GLTFMaterial) (GLTFMaterial, error) {
	if len(mesh.Primitives) == 0 || mesh.Primitives[0].Material == nil {
		return defaultMaterial, nil
	}
	idx := *mesh.Primitives[0].Material
	if idx < 0 || idx >= len(materials) {
		return GLTFMaterial{}, fmt.Errorf("material index %d out of range", idx)
	}
	return materials[idx], nil
}

// convertMaterial maps a PBR metallic-roughness material onto the three
// surface models: an "ior" extra makes glass, any metalness makes metal
func convertMaterial(m *gltf.Material) (GLTFMaterial, error) {
	mat := GLTFMaterial{Name: m.Name, Kind: MaterialLambertian, BaseColor: defaultMaterial.BaseColor}

	ior, hasIOR, err := extrasIOR(m.Extras)
	if err != nil {
		return GLTFMaterial{}, err
	}
	if hasIOR {
		if ior <= 0 {
			return GLTFMaterial{}, fmt.Errorf("ior must be positive, got %g", ior)
		}
		mat.Kind = MaterialDielectric
		mat.RefractiveIndex = ior
		return mat, nil
	}

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat, nil
	}

	c := pbr.BaseColorFactorOrDefault()
	mat.BaseColor = core.NewVec3(c[0], c[1], c[2])
	if pbr.MetallicFactorOrDefault() > 0 {
		mat.Kind = MaterialMetal
		mat.Roughness = pbr.RoughnessFactorOrDefault()
	}
	return mat, nil
}

// extrasIOR reads the "ior" key of a material's extras
func extrasIOR(extras any) (float64, bool, error) {
	var fields map[string]any
	switch e := extras.(type) {
	case nil:
		return 0, false, nil
	case map[string]any:
		fields = e
	case json.RawMessage:
		if err := json.Unmarshal(e, &fields); err != nil {
			return 0, false, fmt.Errorf("decode extras: %w", err)
		}
	case []byte:
		if err := json.Unmarshal(e, &fields); err != nil {
			return 0, false, fmt.Errorf("decode extras: %w", err)
		}
	default:
		return 0, false, nil
	}

	raw, ok := fields["ior"]
	if !ok {
		return 0, false, nil
	}
	ior, ok := raw.(float64)
	if !ok {
		return 0, false, fmt.Errorf("ior must be a number, got %T", raw)
	}
	return ior, true, nil
}

// convertCamera places the eye at the node translation. A rotated node looks
// along its local -Z axis, otherwise the camera looks at the origin.
func convertCamera(doc *gltf.Document, node *gltf.Node) *GLTFCamera {
	t := node.TranslationOrDefault()
	cam := &GLTFCamera{Eye: core.NewVec3(t[0], t[1], t[2])}

	r := node.RotationOrDefault()
	if r != [4]float64{0, 0, 0, 1} {
		forward := rotate(r, core.NewVec3(0, 0, -1))
		cam.LookAt = cam.Eye.Add(forward)
	}

	if node.Camera != nil && *node.Camera >= 0 && *node.Camera < len(doc.Cameras) {
		if p := doc.Cameras[*node.Camera].Perspective; p != nil {
			cam.VFov = p.Yfov * 180.0 / math.Pi
			if p.AspectRatio != nil {
				cam.AspectRatio = *p.AspectRatio
			}
		}
	}
	return cam
}

// rotate applies the unit quaternion q = (x, y, z, w) to v
func rotate(q [4]float64, v core.Vec3) core.Vec3 {
	u := core.NewVec3(q[0], q[1], q[2])
	w := q[3]
	// v' = v + 2w(u×v) + 2u×(u×v)
	uv := u.Cross(v)
	return v.Add(uv.Multiply(2 * w)).Add(u.Cross(uv).Multiply(2))
}
