// Package styles contains the concrete rendering backends. Each style is a
// thin drawing routine on top of render.Base, which handles lifecycle,
// scaling and smoothing; the styles keep only their own animation state.
package styles

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/render"
	"github.com/soundweaver/vizor/internal/render/paint"
)

const (
	barsCount      = 48
	barsCapHeight  = 2
	barsCapFalloff = 2.0 // Pixels per frame the cap falls
	barsMinGap     = 2
	barsPadding    = 10
)

// bars renders the classic gradient spectrum bars with falling caps. It is the
// simplest backend and serves as the substitution target when another style
// fails, so its hooks must never return an error.
type bars struct {
	*render.Base

	mu   sync.Mutex
	caps []float64 // Falling cap animation heights, in pixels

	// Layout cache, recalculated only when the viewport changes.
	lastWidth  int
	lastHeight int
	barWidth   int
	gap        int
	startX     int
	effectiveH int
}

// NewBars creates the gradient bar renderer.
func NewBars(logger *slog.Logger) (render.Renderer, error) {
	v := &bars{
		caps: make([]float64, barsCount),
	}
	v.Base = render.NewBase(domain.StyleBars, logger, render.BaseOptions{
		BarCount:  barsCount,
		Draw:      v.draw,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *bars) reset() {
	v.mu.Lock()
	for i := range v.caps {
		v.caps[i] = 0
	}
	v.mu.Unlock()
}

func (v *bars) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.Black)

	if v.lastWidth != width || v.lastHeight != height {
		v.recalculateLayout(width, height)
	}
	if v.barWidth == 0 {
		return
	}

	maxH := float64(v.effectiveH)

	v.mu.Lock()
	defer v.mu.Unlock()

	step := v.barWidth + v.gap

	for i := 0; i < len(heights) && i < len(v.caps); i++ {
		barH := heights[i] * maxH

		if barH > v.caps[i] {
			v.caps[i] = barH
		} else {
			v.caps[i] -= barsCapFalloff
			if v.caps[i] < 0 {
				v.caps[i] = 0
			}
		}

		barX := v.startX + i*step

		v.drawBar(target, barX, int(barH), height, settings)
		v.drawCap(target, barX, int(v.caps[i]), height)
	}
}

// drawBar renders one bar with gradient coloring from bottom to top.
func (v *bars) drawBar(target ports.Surface, barX, barH, height int, settings domain.QualitySettings) {
	for y := 0; y < barH && y < v.effectiveH; y++ {
		screenY := height - 1 - y
		col := paint.GradientColor(float64(y) / float64(v.effectiveH))

		for x := barX; x < barX+v.barWidth; x++ {
			target.SetPixel(x, screenY, col)
		}

		// Soften the bar edges with a half-bright column on each side.
		if settings.Antialiasing {
			soft := paint.Scaled(col, 0.4)
			target.SetPixel(barX-1, screenY, soft)
			target.SetPixel(barX+v.barWidth, screenY, soft)
		}
	}
}

// drawCap renders the falling white cap above a bar.
func (v *bars) drawCap(target ports.Surface, barX, capY, height int) {
	if capY <= 0 || capY >= v.effectiveH {
		return
	}

	screenY := height - 1 - capY

	for cy := 0; cy < barsCapHeight; cy++ {
		for x := barX; x < barX+v.barWidth; x++ {
			target.SetPixel(x, screenY+cy, color.White)
		}
	}
}

// recalculateLayout computes size-dependent layout values.
func (v *bars) recalculateLayout(width, height int) {
	v.lastWidth = width
	v.lastHeight = height

	effectiveW := width - 2*barsPadding
	v.effectiveH = height - barsPadding

	if effectiveW <= 0 || v.effectiveH <= 0 {
		v.barWidth = 0
		return
	}

	totalGapWidth := (barsCount - 1) * barsMinGap
	v.barWidth = max((effectiveW-totalGapWidth)/barsCount, 1)

	v.gap = barsMinGap
	if barsCount > 1 {
		remaining := effectiveW - v.barWidth*barsCount
		v.gap = max(remaining/(barsCount-1), barsMinGap)
	}

	usedWidth := barsCount*v.barWidth + (barsCount-1)*v.gap
	v.startX = barsPadding + (effectiveW-usedWidth)/2
}
