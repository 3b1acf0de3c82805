// Package fyne implements the desktop UI using the Fyne toolkit.
// The window is a thin view: user interactions are forwarded to a Controller
// and all rendering flows through the renderer registry via RenderFrame.
package fyne

import (
	"image"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/surface"
)

// RenderFunc draws one spectrum frame onto a surface. The visualizer widget
// calls it from the raster generator with the most recent frame it was handed.
type RenderFunc func(target ports.Surface, spectrum []float64, width, height int)

// VisualizerWidget displays the live spectrum through a canvas.Raster backed
// by an RGBA surface. The surface is reused across frames and reallocated
// only when the widget size changes.
type VisualizerWidget struct {
	widget.BaseWidget

	render RenderFunc
	raster *canvas.Raster

	mu       sync.Mutex
	spectrum []float64
	target   *surface.Image
}

// NewVisualizerWidget creates the widget. The render function is typically
// the visualizer service's RenderFrame.
func NewVisualizerWidget(render RenderFunc) *VisualizerWidget {
	v := &VisualizerWidget{
		render: render,
	}
	v.raster = canvas.NewRaster(v.generate)
	v.raster.SetMinSize(fyneapp.NewSize(320, 200))
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *VisualizerWidget) CreateRenderer() fyneapp.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// SetFrame stores the latest spectrum and repaints. Must be called on the
// Fyne UI thread; producers go through fyne.Do.
func (v *VisualizerWidget) SetFrame(spectrum []float64) {
	v.mu.Lock()
	if cap(v.spectrum) < len(spectrum) {
		v.spectrum = make([]float64, len(spectrum))
	}
	v.spectrum = v.spectrum[:len(spectrum)]
	copy(v.spectrum, spectrum)
	v.mu.Unlock()

	v.raster.Refresh()
}

// generate is the raster pixel generator. It draws the stored frame onto the
// reusable surface and hands the backing image to Fyne.
func (v *VisualizerWidget) generate(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.target != nil {
		tw, th := v.target.Size()
		if tw != w || th != h || v.target.Disposed() {
			v.target.Dispose()
			v.target = nil
		}
	}
	if v.target == nil {
		v.target = surface.NewImage(w, h)
	}

	v.render(v.target, v.spectrum, w, h)

	return v.target.RGBA()
}
