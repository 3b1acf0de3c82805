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
	circularBarCount         = 48
	circularInnerRadiusRatio = 0.15 // Inner circle ratio of min dimension
	circularMaxBarRatio      = 0.35 // Maximum bar length ratio of min dimension
	circularCapFalloff       = 2.0  // Pixels per frame the cap falls
)

// circular renders spectrum bars radiating outward from a central circle that
// pulses with the bass.
type circular struct {
	*render.Base

	mu      sync.Mutex
	caps    []float64 // Falling cap heights, in radial distance
	bassAvg float64
}

// NewCircular creates the circular spectrum renderer.
func NewCircular(logger *slog.Logger) (render.Renderer, error) {
	v := &circular{
		caps: make([]float64, circularBarCount),
	}
	v.Base = render.NewBase(domain.StyleCircular, logger, render.BaseOptions{
		BarCount:  circularBarCount,
		Draw:      v.draw,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *circular) reset() {
	v.mu.Lock()
	v.bassAvg = 0
	for i := range v.caps {
		v.caps[i] = 0
	}
	v.mu.Unlock()
}

func (v *circular) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.Black)

	centerX := float64(width) / 2
	centerY := float64(height) / 2
	minDim := math.Min(float64(width), float64(height))
	innerRadius := minDim * circularInnerRadiusRatio
	maxBarLen := minDim * circularMaxBarRatio

	bass, _, _ := bandLevels(heights)

	v.mu.Lock()
	v.bassAvg = v.bassAvg*0.7 + bass*0.3
	pulseRadius := innerRadius + v.bassAvg*innerRadius*0.3

	paint.FilledCircle(target, int(centerX), int(centerY), pulseRadius, color.RGBA{R: 30, G: 30, B: 40, A: 255})
	paint.Circle(target, int(centerX), int(centerY), pulseRadius, color.RGBA{R: 100, G: 100, B: 150, A: 255})

	thickness := 2
	angleStep := 2 * math.Pi / float64(len(heights))

	for i := 0; i < len(heights) && i < len(v.caps); i++ {
		angle := float64(i)*angleStep - math.Pi/2 // Start from top

		barLen := heights[i] * maxBarLen

		if barLen > v.caps[i] {
			v.caps[i] = barLen
		} else {
			v.caps[i] -= circularCapFalloff
			if v.caps[i] < 0 {
				v.caps[i] = 0
			}
		}
		capLen := v.caps[i]

		startX := centerX + math.Cos(angle)*innerRadius
		startY := centerY + math.Sin(angle)*innerRadius
		endX := centerX + math.Cos(angle)*(innerRadius+barLen)
		endY := centerY + math.Sin(angle)*(innerRadius+barLen)

		col := paint.GradientColor(barLen / maxBarLen)

		if settings.Antialiasing {
			paint.ThickLine(target, startX, startY, endX, endY, thickness+2, paint.Scaled(col, 0.35))
		}
		paint.ThickLine(target, startX, startY, endX, endY, thickness, col)

		if capLen > 0 {
			capStartX := centerX + math.Cos(angle)*(innerRadius+capLen)
			capStartY := centerY + math.Sin(angle)*(innerRadius+capLen)
			capEndX := centerX + math.Cos(angle)*(innerRadius+capLen+3)
			capEndY := centerY + math.Sin(angle)*(innerRadius+capLen+3)
			paint.ThickLine(target, capStartX, capStartY, capEndX, capEndY, thickness, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	v.mu.Unlock()
}
