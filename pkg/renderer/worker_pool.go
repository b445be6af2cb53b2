package renderer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// WorkerPool manages parallel tile rendering.
// Workers drain a shared TileQueue; a worker that finds it empty exits.
type WorkerPool struct {
	renderer   *TileRenderer
	numWorkers int
	logger     core.Logger
}

// Worker handles tiles popped from the queue
type Worker struct {
	ID       int
	renderer *TileRenderer
	stats    RenderStats
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(renderer *TileRenderer, numWorkers int, logger core.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &WorkerPool{
		renderer:   renderer,
		numWorkers: numWorkers,
		logger:     logger,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every queued tile into the frame buffer and blocks until all
// workers exit. The first worker failure cancels the others and is returned.
func (wp *WorkerPool) Run(ctx context.Context, queue *TileQueue, frameBuffer *FrameBuffer) (RenderStats, error) {
	group, ctx := errgroup.WithContext(ctx)

	workers := make([]*Worker, wp.numWorkers)
	for i := range workers {
		worker := &Worker{ID: i, renderer: wp.renderer}
		workers[i] = worker
		group.Go(func() error {
			return worker.run(ctx, queue, frameBuffer)
		})
	}

	if err := group.Wait(); err != nil {
		return RenderStats{}, err
	}

	stats := RenderStats{NumWorkers: wp.numWorkers}
	for _, worker := range workers {
		wp.logger.Printf("Worker %d rendered %d tiles\n", worker.ID, worker.stats.TilesRendered)
		stats.merge(worker.stats)
	}
	return stats, nil
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, queue *TileQueue, frameBuffer *FrameBuffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: %v", w.ID, r)
		}
	}()

	seed := w.renderer.raytracer.config.Seed
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tile, ok := queue.Pop()
		if !ok {
			return nil
		}

		// The tile's generator is owned by this worker until the tile is done
		sampler := core.NewSeededSampler(tileSeed(seed, tile.ID))
		pixels, stats := w.renderer.RenderTile(tile, sampler)

		// Tiles never overlap, so this write does not race with other workers
		if err := frameBuffer.WriteTile(tile.Bounds, pixels); err != nil {
			return fmt.Errorf("worker %d: %w", w.ID, err)
		}
		w.stats.merge(stats)
	}
}
