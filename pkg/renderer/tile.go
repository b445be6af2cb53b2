package renderer

import (
	"image"
	"sync"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image, scanning
// tile rows top to bottom and tile columns left to right
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}

// TileQueue is the shared work list drained by the workers
type TileQueue struct {
	mu    sync.Mutex
	tiles []*Tile
}

// NewTileQueue creates a queue holding tiles in the given order
func NewTileQueue(tiles []*Tile) *TileQueue {
	queued := make([]*Tile, len(tiles))
	copy(queued, tiles)
	return &TileQueue{tiles: queued}
}

// Pop removes the next tile. It returns false once the queue is empty.
func (q *TileQueue) Pop() (*Tile, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tiles) == 0 {
		return nil, false
	}

	tile := q.tiles[0]
	q.tiles[0] = nil
	q.tiles = q.tiles[1:]
	return tile, true
}

// Len returns the number of tiles left
func (q *TileQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tiles)
}

// tileSeed derives the random seed of a tile, so output does not depend on
// which worker renders it
func tileSeed(baseSeed int64, tileID int) int64 {
	return baseSeed*1_000_003 + int64(tileID) + 1
}
