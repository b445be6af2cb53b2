package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
)

// ShadowAcneEpsilon is the lower bound of the hit interval, keeping
// scattered rays from re-hitting the surface they left
const ShadowAcneEpsilon = 0.001

var (
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
	white   = core.NewVec3(1.0, 1.0, 1.0)
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	TileSize        int   // Side length of a square tile
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed for the per-tile random generators
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		TileSize:        64,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate reports configuration values the renderer cannot work with
func (c RenderConfig) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max depth must be positive, got %d", c.MaxDepth))
	}
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile size must be positive, got %d", c.TileSize))
	}
	if c.NumWorkers < 0 {
		errs = append(errs, fmt.Errorf("worker count must not be negative, got %d", c.NumWorkers))
	}
	return errors.Join(errs...)
}

// workers resolves the effective worker count
func (c RenderConfig) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *geometry.Camera
	GetWorld() geometry.Shape
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene  Scene
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:  scene,
		config: config,
		logger: logger,
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// RayColor returns the color carried back along a ray.
// depth is the remaining bounce budget; reaching zero contributes black.
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.scene.GetWorld().Hit(r, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return backgroundGradient(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// backgroundGradient blends white at the bottom into sky blue at the top
func backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return white.Lerp(skyBlue, t)
}

// vec3ToColor converts a linear color to RGBA with gamma 2 correction and clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = core.NewVec3(nanToZero(colorVec.X), nanToZero(colorVec.Y), nanToZero(colorVec.Z))
	colorVec = colorVec.Clamp(0.0, math.Inf(1)).GammaCorrect(2.0).Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255.999 * colorVec.X),
		G: uint8(255.999 * colorVec.Y),
		B: uint8(255.999 * colorVec.Z),
		A: 255,
	}
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Render renders the whole image in parallel tiles and returns it once every tile is done
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid render config: %w", err)
	}

	startTime := time.Now()

	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)
	queue := NewTileQueue(tiles)
	frameBuffer := NewFrameBuffer(rt.config.Width, rt.config.Height)
	pool := NewWorkerPool(NewTileRenderer(rt), rt.config.workers(), rt.logger)

	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, depth %d: %d tiles on %d workers\n",
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, rt.config.MaxDepth,
		len(tiles), pool.GetNumWorkers())

	stats, err := pool.Run(ctx, queue, frameBuffer)
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats.Elapsed = time.Since(startTime)
	stats.finalize()

	rt.logger.Printf("Render completed in %v (%d samples)\n", stats.Elapsed, stats.TotalSamples)

	return frameBuffer.Image(), stats, nil
}
