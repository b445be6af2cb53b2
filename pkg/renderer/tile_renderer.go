package renderer

import (
	"image/color"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// TileRenderer handles the actual rendering of individual tiles
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a new tile renderer for the given raytracer
func NewTileRenderer(raytracer *Raytracer) *TileRenderer {
	return &TileRenderer{raytracer: raytracer}
}

// RenderTile renders every pixel of the tile with the full sample count and
// returns them row-major, together with the tile statistics
func (tr *TileRenderer) RenderTile(tile *Tile, sampler core.Sampler) ([]color.RGBA, RenderStats) {
	bounds := tile.Bounds
	pixels := make([]color.RGBA, 0, bounds.Dx()*bounds.Dy())
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy(), TilesRendered: 1}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := tr.samplePixel(x, y, sampler)
			stats.TotalSamples += ps.SampleCount
			pixels = append(pixels, vec3ToColor(ps.GetColor()))
		}
	}

	return pixels, stats
}

// samplePixel averages jittered camera samples for image pixel (x, y), where
// y counts rows from the top of the image
func (tr *TileRenderer) samplePixel(x, y int, sampler core.Sampler) PixelStats {
	config := tr.raytracer.config
	camera := tr.raytracer.scene.GetCamera()

	// Camera v grows upward while image rows grow downward
	j := config.Height - 1 - y
	uScale := float64(max(config.Width-1, 1))
	vScale := float64(max(config.Height-1, 1))

	var ps PixelStats
	for sample := 0; sample < config.SamplesPerPixel; sample++ {
		u := (float64(x) + sampler.Get1D()) / uScale
		v := (float64(j) + sampler.Get1D()) / vScale

		ray := camera.GetRay(u, v, sampler)
		ps.AddSample(tr.raytracer.RayColor(ray, config.MaxDepth, sampler))
	}

	return ps
}
