package raster

import (
	"bufio"
	"fmt"
	"image"
	imagecolor "image/color"
	"image/png"
	"io"
	"os"
	"sync"

	"frakt.systems/frakt/internal/wire"
)

// Raster is the full output image, assembled tile by tile under a mutex.
// Width and Height are the total pixel dimensions; a Raster is built once
// per render job and shared by every tile write.
type Raster struct {
	mu     sync.Mutex
	width  int
	height int
	pixels []wire.PixelIntensity
	filled []bool
}

// New allocates a blank Raster of the given total dimensions.
func New(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		pixels: make([]wire.PixelIntensity, width*height),
		filled: make([]bool, width*height),
	}
}

// Width returns the raster's total pixel width.
func (r *Raster) Width() int { return r.width }

// Height returns the raster's total pixel height.
func (r *Raster) Height() int { return r.height }

// WriteTile copies a tile's pixel intensities into the raster at the
// rectangle whose top-left corner is (originX, originY) and whose size is
// given by resolution. The tile's pixel order is row-major, matching the
// kernels' output. WriteTile is safe for concurrent use by multiple
// assemblers writing disjoint or overlapping tiles.
func (r *Raster) WriteTile(originX, originY int, resolution wire.Resolution, pixels []wire.PixelIntensity) error {
	nx, ny := int(resolution.NX), int(resolution.NY)
	if len(pixels) != nx*ny {
		return fmt.Errorf("raster: tile carries %d pixels, want %d for %dx%d", len(pixels), nx*ny, nx, ny)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for row := 0; row < ny; row++ {
		destY := originY + row
		if destY < 0 || destY >= r.height {
			continue
		}
		for col := 0; col < nx; col++ {
			destX := originX + col
			if destX < 0 || destX >= r.width {
				continue
			}
			idx := destY*r.width + destX
			r.pixels[idx] = pixels[row*nx+col]
			r.filled[idx] = true
		}
	}
	return nil
}

// Complete reports whether every pixel in the raster has been written.
func (r *Raster) Complete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.filled {
		if !f {
			return false
		}
	}
	return true
}

// Image renders the raster's pixel intensities into an image.RGBA using the
// cosine palette.
func (r *Raster) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			p := r.pixels[y*r.width+x]
			rgb := color(phase(p.Zn))
			img.Set(x, y, imagecolor.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img
}

// Sink persists a finished Raster somewhere: a file, an object store, a
// test buffer.
type Sink interface {
	Write(r *Raster) error
}

// PNGFileSink encodes the raster as a PNG and writes it to Path.
type PNGFileSink struct {
	Path string
}

// Write implements Sink by encoding r as PNG and writing it to s.Path.
func (s PNGFileSink) Write(r *Raster) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("raster: creating %s: %w", s.Path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := png.Encode(bw, r.Image()); err != nil {
		return fmt.Errorf("raster: encoding png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("raster: flushing %s: %w", s.Path, err)
	}
	return nil
}

// WriterSink encodes the raster as PNG to an arbitrary io.Writer, useful for
// tests and for streaming to a non-file destination.
type WriterSink struct {
	W io.Writer
}

// Write implements Sink by encoding r as PNG to s.W.
func (s WriterSink) Write(r *Raster) error {
	if err := png.Encode(s.W, r.Image()); err != nil {
		return fmt.Errorf("raster: encoding png: %w", err)
	}
	return nil
}
