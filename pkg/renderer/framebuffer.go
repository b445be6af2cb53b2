package renderer

import (
	"fmt"
	"image"
	"image/color"
)

// FrameBuffer is the shared output image. Workers write disjoint tiles, so
// no locking is needed for pixel writes.
type FrameBuffer struct {
	img *image.RGBA
}

// NewFrameBuffer creates a black, opaque frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &FrameBuffer{img: img}
}

// Bounds returns the image rectangle
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Bounds()
}

// WriteTile copies row-major tile pixels into the buffer
func (fb *FrameBuffer) WriteTile(bounds image.Rectangle, pixels []color.RGBA) error {
	if !bounds.In(fb.img.Bounds()) {
		return fmt.Errorf("tile %v outside frame %v", bounds, fb.img.Bounds())
	}
	if len(pixels) != bounds.Dx()*bounds.Dy() {
		return fmt.Errorf("tile %v expects %d pixels, got %d", bounds, bounds.Dx()*bounds.Dy(), len(pixels))
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			fb.img.SetRGBA(x, y, pixels[i])
			i++
		}
	}
	return nil
}

// Image returns the underlying image; only read it after all workers finished
func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.img
}
