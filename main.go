package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/output"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

var version = "dev"

// options holds the command line flags
type options struct {
	sceneName string
	gltfPath  string
	width     int
	aspect    float64
	samples   int
	depth     int
	tileSize  int
	workers   int
	seed      int64
	out       string
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, newRootCommand(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return newRenderCommand(&options{})
}

// newRenderCommand builds the command with its flags bound to opts
func newRenderCommand(opts *options) *cobra.Command {
	defaults := renderer.DefaultRenderConfig()

	cmd := &cobra.Command{
		Use:   "raytracer",
		Short: "Render a sphere scene with a batch path tracer",
		Long: "Renders a scene of spheres with diffuse, metal and glass surfaces into a single image.\n" +
			"Built-in scenes: " + strings.Join(scene.Names(), ", ") + ". " +
			"The output format follows the file extension (.png, .ppm or .txt).",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.sceneName, "scene", "cover", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	flags.StringVar(&opts.gltfPath, "gltf", "", "Load the scene from a .gltf or .glb file instead of a built-in scene")
	flags.IntVar(&opts.width, "width", defaults.Width, "Image width in pixels")
	flags.Float64Var(&opts.aspect, "aspect", 16.0/9.0, "Aspect ratio (width / height)")
	flags.IntVar(&opts.samples, "samples", defaults.SamplesPerPixel, "Samples per pixel")
	flags.IntVar(&opts.depth, "depth", defaults.MaxDepth, "Maximum ray bounce depth")
	flags.IntVar(&opts.tileSize, "tile-size", defaults.TileSize, "Tile side length in pixels")
	flags.IntVar(&opts.workers, "workers", defaults.NumWorkers, "Number of render workers (0 = number of CPUs)")
	flags.Int64Var(&opts.seed, "seed", 0, "Random seed (default: time based)")
	flags.StringVarP(&opts.out, "out", "o", "out.png", "Output file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log per-worker progress")
	cmd.MarkFlagsMutuallyExclusive("scene", "gltf")

	return cmd
}

func runRender(cmd *cobra.Command, opts *options) error {
	logger := newLogger(opts.verbose)

	if !cmd.Flags().Changed("seed") {
		opts.seed = time.Now().UnixNano()
	}

	var cameraOverride geometry.CameraConfig
	if cmd.Flags().Changed("aspect") {
		if opts.aspect <= 0 {
			return fmt.Errorf("aspect ratio must be positive, got %g", opts.aspect)
		}
		cameraOverride.AspectRatio = opts.aspect
	}

	s, err := createScene(opts, cameraOverride)
	if err != nil {
		return err
	}

	config := renderConfig(cmd.Flags(), opts, s)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid render settings: %w", err)
	}

	logger.Info("Rendering", "scene", sceneLabel(opts), "shapes", s.GetShapeCount(),
		"size", fmt.Sprintf("%dx%d", config.Width, config.Height),
		"samples", config.SamplesPerPixel, "depth", config.MaxDepth, "seed", config.Seed)

	rt := renderer.NewRaytracer(s, config, &consoleLogger{logger: logger})
	img, stats, err := rt.Render(cmd.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("render interrupted")
		}
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Info("Render completed", "elapsed", stats.Elapsed.Round(time.Millisecond),
		"tiles", stats.TilesRendered, "workers", stats.NumWorkers, "samples", stats.TotalSamples)

	if err := output.Save(opts.out, img); err != nil {
		return fmt.Errorf("save %s: %w", opts.out, err)
	}
	logger.Info("Render saved", "path", opts.out)
	return nil
}

// createScene builds the scene selected by the flags
func createScene(opts *options, cameraOverride geometry.CameraConfig) (*scene.Scene, error) {
	if opts.gltfPath != "" {
		return scene.NewGLTFScene(opts.gltfPath, cameraOverride)
	}
	return scene.Create(opts.sceneName, opts.seed, cameraOverride)
}

// renderConfig starts from the scene's recommended settings and applies
// only the flags that were set explicitly
func renderConfig(flags *pflag.FlagSet, opts *options, s *scene.Scene) renderer.RenderConfig {
	config := s.RenderConfig

	if flags.Changed("width") || flags.Changed("aspect") {
		if flags.Changed("width") {
			config.Width = opts.width
		}
		config.Height = max(int(float64(config.Width)/s.CameraConfig.AspectRatio), 1)
	}
	if flags.Changed("samples") {
		config.SamplesPerPixel = opts.samples
	}
	if flags.Changed("depth") {
		config.MaxDepth = opts.depth
	}
	if flags.Changed("tile-size") {
		config.TileSize = opts.tileSize
	}
	if flags.Changed("workers") {
		config.NumWorkers = opts.workers
	}
	config.Seed = opts.seed

	return config
}

func sceneLabel(opts *options) string {
	if opts.gltfPath != "" {
		return opts.gltfPath
	}
	return opts.sceneName
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "raytracer",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// consoleLogger implements core.Logger on top of the CLI logger.
// Renderer messages are progress detail, so they go out at debug level.
type consoleLogger struct {
	logger *log.Logger
}

// Printf implements core.Logger interface
func (c *consoleLogger) Printf(format string, args ...interface{}) {
	c.logger.Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

var _ core.Logger = (*consoleLogger)(nil)
