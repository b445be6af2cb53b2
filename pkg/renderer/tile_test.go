package renderer

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

func TestNewTileGridCoversImageOnce(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"exact fit", 128, 64, 64, 2},
		{"ragged edges", 100, 70, 32, 4 * 3},
		{"tile larger than image", 10, 5, 64, 1},
		{"single pixel tiles", 3, 2, 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			covered := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Tile %d has ID %d", i, tile.ID)
				}
				if tile.Bounds.Empty() {
					t.Errorf("Tile %d is empty", i)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}

			for i, count := range covered {
				if count != 1 {
					t.Fatalf("Pixel (%d,%d) covered %d times", i%tt.width, i/tt.width, count)
				}
			}
		})
	}
}

func TestNewTileGridRowMajorOrder(t *testing.T) {
	tiles := NewTileGrid(100, 100, 50)
	expected := []image.Rectangle{
		image.Rect(0, 0, 50, 50),
		image.Rect(50, 0, 100, 50),
		image.Rect(0, 50, 50, 100),
		image.Rect(50, 50, 100, 100),
	}
	for i, rect := range expected {
		if tiles[i].Bounds != rect {
			t.Errorf("Tile %d: expected %v, got %v", i, rect, tiles[i].Bounds)
		}
	}
}

func TestTileQueueFIFO(t *testing.T) {
	queue := NewTileQueue(NewTileGrid(30, 10, 10))
	for i := 0; i < 3; i++ {
		tile, ok := queue.Pop()
		if !ok || tile.ID != i {
			t.Fatalf("Pop %d: got tile %v, ok=%t", i, tile, ok)
		}
	}
	if _, ok := queue.Pop(); ok {
		t.Error("Expected empty queue")
	}
	if queue.Len() != 0 {
		t.Errorf("Expected length 0, got %d", queue.Len())
	}
}

func TestTileQueueConcurrentDrain(t *testing.T) {
	tiles := NewTileGrid(200, 200, 10)
	queue := NewTileQueue(tiles)

	var mu sync.Mutex
	seen := make(map[int]int)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				tile, ok := queue.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[tile.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != len(tiles) {
		t.Fatalf("Expected %d distinct tiles, got %d", len(tiles), len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("Tile %d popped %d times", id, count)
		}
	}
}

func TestTileSeedDistinct(t *testing.T) {
	seen := make(map[int64]bool)
	for id := 0; id < 1000; id++ {
		seed := tileSeed(42, id)
		if seen[seed] {
			t.Fatalf("Duplicate seed for tile %d", id)
		}
		seen[seed] = true
	}
	if tileSeed(1, 0) == tileSeed(2, 0) {
		t.Error("Base seed should change tile seeds")
	}
}

func TestFrameBufferWriteTile(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	if got := fb.Image().RGBAAt(3, 2); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected opaque black, got %v", got)
	}

	red := color.RGBA{255, 0, 0, 255}
	bounds := image.Rect(1, 1, 3, 3)
	if err := fb.WriteTile(bounds, []color.RGBA{red, red, red, red}); err != nil {
		t.Fatalf("WriteTile failed: %v", err)
	}
	if got := fb.Image().RGBAAt(2, 2); got != red {
		t.Errorf("Expected red, got %v", got)
	}
	if got := fb.Image().RGBAAt(0, 0); got == red {
		t.Error("Pixel outside the tile was written")
	}

	if err := fb.WriteTile(image.Rect(3, 2, 5, 3), []color.RGBA{red, red}); err == nil {
		t.Error("Expected error for out-of-frame tile")
	}
	if err := fb.WriteTile(bounds, []color.RGBA{red}); err == nil {
		t.Error("Expected error for short pixel slice")
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if c := ps.GetColor(); c.X != 0 || c.Y != 0 || c.Z != 0 {
		t.Errorf("Empty stats should be black, got %v", c)
	}
	ps.AddSample(core.NewVec3(1, 0, 0.5))
	ps.AddSample(core.NewVec3(0, 1, 0.5))
	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if c := ps.GetColor(); c != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected average (0.5,0.5,0.5), got %v", c)
	}
}
