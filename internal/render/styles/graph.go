package styles

import (
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/render"
	"github.com/soundweaver/vizor/internal/render/paint"
)

const (
	graphBarCount  = 64
	graphPadding   = 10
	graphLineWidth = 2
	graphFillAlpha = 0.3
	graphPeakDecay = 2.0
)

// graph renders the spectrum as a continuous line with a translucent filled
// area below it and a slowly decaying peak-hold line above.
type graph struct {
	*render.Base

	mu    sync.Mutex
	peaks []float64 // Peak hold values, in pixels
}

// point represents a 2D coordinate.
type point struct {
	x, y float64
}

// NewGraph creates the graph renderer.
func NewGraph(logger *slog.Logger) (render.Renderer, error) {
	v := &graph{
		peaks: make([]float64, graphBarCount),
	}
	v.Base = render.NewBase(domain.StyleGraph, logger, render.BaseOptions{
		BarCount:  graphBarCount,
		Draw:      v.draw,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *graph) reset() {
	v.mu.Lock()
	for i := range v.peaks {
		v.peaks[i] = 0
	}
	v.mu.Unlock()
}

func (v *graph) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.Black)

	effectiveW := width - 2*graphPadding
	effectiveH := height - graphPadding
	baseY := height - 1

	if effectiveW <= 0 || effectiveH <= 0 {
		return
	}

	n := len(heights)
	spacing := float64(effectiveW)
	if n > 1 {
		spacing = float64(effectiveW) / float64(n-1)
	}

	points := make([]point, n)
	for i := 0; i < n; i++ {
		x := float64(graphPadding) + float64(i)*spacing
		y := float64(baseY) - heights[i]*float64(effectiveH)
		points[i] = point{x, y}
	}

	v.mu.Lock()
	peakPoints := make([]point, n)
	for i := 0; i < n && i < len(v.peaks); i++ {
		barH := heights[i] * float64(effectiveH)
		if barH > v.peaks[i] {
			v.peaks[i] = barH
		} else {
			v.peaks[i] -= graphPeakDecay
			if v.peaks[i] < 0 {
				v.peaks[i] = 0
			}
		}
		peakPoints[i] = point{points[i].x, float64(baseY) - v.peaks[i]}
	}
	v.mu.Unlock()

	// The fill is the expensive part; skip it at low quality.
	if settings.AdvancedEffects {
		v.drawFilledArea(target, points, baseY)
	}

	v.drawPolyline(target, points, color.RGBA{R: 0, G: 255, B: 100, A: 255}, graphLineWidth)
	v.drawPolyline(target, peakPoints, color.RGBA{R: 255, G: 255, B: 255, A: 180}, 1)
}

// drawFilledArea draws a translucent gradient fill under the curve.
func (v *graph) drawFilledArea(target ports.Surface, points []point, baseY int) {
	if len(points) < 2 {
		return
	}

	for i := 0; i < len(points)-1; i++ {
		p1 := points[i]
		p2 := points[i+1]

		steps := int(math.Abs(p2.x-p1.x)) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			x := int(p1.x + (p2.x-p1.x)*t)
			topY := int(p1.y + (p2.y-p1.y)*t)

			for y := topY; y < baseY; y++ {
				span := baseY - topY
				if span <= 0 {
					break
				}
				heightRatio := float64(baseY-y) / float64(span)
				col := paint.GradientColor(heightRatio)

				alpha := uint8(float64(col.A) * graphFillAlpha)
				target.SetPixel(x, y, color.RGBA{R: col.R, G: col.G, B: col.B, A: alpha})
			}
		}
	}
}

// drawPolyline draws a connected line through all points.
func (v *graph) drawPolyline(target ports.Surface, points []point, col color.RGBA, thickness int) {
	if len(points) < 2 {
		return
	}

	for i := 0; i < len(points)-1; i++ {
		paint.ThickLine(target, points[i].x, points[i].y, points[i+1].x, points[i+1].y, thickness, col)
	}
}
