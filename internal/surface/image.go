// Package surface provides drawing surface implementations backed by
// in-memory images. The Fyne adapter hands these to renderers and blits the
// result into a canvas raster.
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"

	"github.com/soundweaver/vizor/internal/ports"
)

// Image is a Surface backed by an RGBA image. Drawing is single-owner per
// frame; only Dispose and Disposed are safe to call concurrently with drawing.
type Image struct {
	img      *image.RGBA
	width    int
	height   int
	disposed atomic.Bool
}

// NewImage creates an image surface with the given dimensions. Non-positive
// dimensions yield an empty surface that ignores all drawing.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	return &Image{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

// Size returns the surface dimensions in pixels.
func (s *Image) Size() (width, height int) {
	return s.width, s.height
}

// Fill covers the whole surface with a solid color.
func (s *Image) Fill(c color.Color) {
	if s.disposed.Load() {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetPixel sets a single pixel. Out-of-bounds coordinates are ignored.
func (s *Image) SetPixel(x, y int, c color.Color) {
	if s.disposed.Load() {
		return
	}
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.img.Set(x, y, c)
}

// Disposed reports whether the surface has been released.
func (s *Image) Disposed() bool {
	return s.disposed.Load()
}

// Dispose marks the surface as released. Idempotent; subsequent draw calls
// become no-ops.
func (s *Image) Dispose() {
	s.disposed.Store(true)
}

// RGBA returns the backing image for blitting. The caller must not draw into
// it while a renderer owns the surface.
func (s *Image) RGBA() *image.RGBA {
	return s.img
}

// Verify interface implementation at compile time.
var _ ports.Surface = (*Image)(nil)
