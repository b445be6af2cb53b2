package renderer

import (
	"context"
	"testing"
)

func TestWorkerPoolRendersEveryTile(t *testing.T) {
	config := smallConfig(3, 9)
	rt := NewRaytracer(newTestScene(0.001), config, nil)
	tiles := NewTileGrid(config.Width, config.Height, config.TileSize)
	queue := NewTileQueue(tiles)

	pool := NewWorkerPool(NewTileRenderer(rt), 3, nil)
	stats, err := pool.Run(context.Background(), queue, NewFrameBuffer(config.Width, config.Height))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if queue.Len() != 0 {
		t.Errorf("Expected drained queue, %d tiles left", queue.Len())
	}
	if stats.TilesRendered != len(tiles) {
		t.Errorf("Expected %d tiles rendered, got %d", len(tiles), stats.TilesRendered)
	}
	if stats.NumWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", stats.NumWorkers)
	}
}

func TestWorkerPoolDefaultsToOneWorker(t *testing.T) {
	pool := NewWorkerPool(nil, 0, nil)
	if pool.GetNumWorkers() != 1 {
		t.Errorf("Expected 1 worker, got %d", pool.GetNumWorkers())
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	// A scene without a camera makes every tile fail
	scene := &testScene{world: newTestScene(90).world}
	config := smallConfig(2, 1)
	rt := NewRaytracer(scene, config, nil)

	pool := NewWorkerPool(NewTileRenderer(rt), 2, nil)
	queue := NewTileQueue(NewTileGrid(config.Width, config.Height, config.TileSize))
	if _, err := pool.Run(context.Background(), queue, NewFrameBuffer(config.Width, config.Height)); err == nil {
		t.Error("Expected an error from a failing worker")
	}
}
