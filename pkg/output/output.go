// Package output writes rendered images to disk.
package output

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Format identifies an image file format
type Format string

const (
	FormatPNG     Format = "png"
	FormatPPM     Format = "ppm"
	FormatListing Format = "txt"
)

// FormatForPath picks the output format from the file extension
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatPNG, FormatPPM, FormatListing:
		return Format(ext), nil
	default:
		return "", fmt.Errorf("unsupported output extension %q (use .png, .ppm or .txt)", filepath.Ext(path))
	}
}

// Save writes img to path in the format implied by its extension
func Save(path string, img *image.RGBA) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	return Write(f, format, img)
}

// Write encodes img to w in the given format
func Write(w io.Writer, format Format, img *image.RGBA) error {
	switch format {
	case FormatPNG:
		return WritePNG(w, img)
	case FormatPPM:
		return WritePPM(w, img)
	case FormatListing:
		return WritePixelListing(w, img)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img *image.RGBA) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePPM encodes img as plain-text PPM (P3), rows top to bottom
func WritePPM(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

// WritePixelListing writes one "x y #rrggbb" line per pixel
func WritePixelListing(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			c.A = 255
			col, _ := colorful.MakeColor(c)
			fmt.Fprintf(bw, "%d %d %s\n", x, y, col.Hex())
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write pixel listing: %w", err)
	}
	return nil
}
