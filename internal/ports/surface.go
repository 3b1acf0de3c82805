// Package ports define the drawing surface abstraction consumed by renderer backends.
package ports

import (
	"image/color"
)

// Surface is the opaque drawing capability handed to renderer backends.
// It abstracts the native graphics binding so that backends only depend on a
// handful of pixel primitives.
//
// Renderers must treat a disposed surface as invalid: every draw call on a
// disposed surface is a no-op, never a fault. Render is expected to check
// Disposed before drawing.
//
// Thread-safety: a surface is owned by the single renderer drawing onto it for
// the duration of one Render call; implementations are not required to support
// concurrent drawing.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Fill covers the whole surface with a solid color.
	Fill(c color.Color)

	// SetPixel sets a single pixel. Out-of-bounds coordinates are ignored.
	SetPixel(x, y int, c color.Color)

	// Disposed reports whether the surface has been released.
	Disposed() bool
}
