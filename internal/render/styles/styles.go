package styles

import (
	"gonum.org/v1/gonum/floats"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/render"
)

// Fallback is the style substituted when another backend fails. Its
// constructor and hooks never return an error.
const Fallback = domain.StyleBars

// Table returns the full style table for the renderer registry.
func Table() map[domain.StyleID]render.Constructor {
	return map[domain.StyleID]render.Constructor{
		domain.StyleBars:      NewBars,
		domain.StyleLEDBars:   NewLEDBars,
		domain.StyleCircular:  NewCircular,
		domain.StyleRadial:    NewRadial,
		domain.StyleGraph:     NewGraph,
		domain.StylePlasma:    NewPlasma,
		domain.StyleStarfield: NewStarfield,
		domain.StyleTunnel:    NewTunnel,
	}
}

// All returns the display metadata for every style, in menu order.
func All() []domain.StyleInfo {
	return []domain.StyleInfo{
		{ID: domain.StyleBars, Name: "Spectrum Bars"},
		{ID: domain.StyleLEDBars, Name: "LED Bars"},
		{ID: domain.StyleCircular, Name: "Circular"},
		{ID: domain.StyleRadial, Name: "Radial Wheel"},
		{ID: domain.StyleGraph, Name: "Graph"},
		{ID: domain.StylePlasma, Name: "Plasma"},
		{ID: domain.StyleStarfield, Name: "Starfield"},
		{ID: domain.StyleTunnel, Name: "Tunnel"},
	}
}

// bandLevels splits the display bars into bass, mid and high averages.
// The bars carry low frequencies first, so the first quarter approximates
// bass, the next half mids and the remainder highs. Empty input yields zeros.
func bandLevels(bars []float64) (bass, mid, high float64) {
	n := len(bars)
	if n == 0 {
		return 0, 0, 0
	}

	bassEnd := max(n/4, 1)
	midEnd := max(3*n/4, bassEnd)

	bass = average(bars[:bassEnd])
	mid = average(bars[bassEnd:midEnd])
	high = average(bars[midEnd:])

	return bass, mid, high
}

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	return floats.Sum(vals) / float64(len(vals))
}

// Verify interface implementation at compile time.
var (
	_ render.Renderer = (*bars)(nil)
	_ render.Renderer = (*ledBars)(nil)
	_ render.Renderer = (*circular)(nil)
	_ render.Renderer = (*radial)(nil)
	_ render.Renderer = (*graph)(nil)
	_ render.Renderer = (*plasma)(nil)
	_ render.Renderer = (*starfield)(nil)
	_ render.Renderer = (*tunnel)(nil)
)
