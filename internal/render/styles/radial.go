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
	radialBarCount         = 64
	radialInnerRadiusRatio = 0.2   // Inner radius as fraction of min(w,h)/2
	radialSpinSpeed        = 0.005 // Radians per frame
	radialCapFalloff       = 2.0   // Pixels per frame the cap falls
	radialBarThickness     = 3
)

// radial renders a slowly spinning wheel of rainbow-colored spectrum bars
// around a bass-pulsing hub.
type radial struct {
	*render.Base

	mu       sync.Mutex
	caps     []float64
	rotation float64 // Current rotation offset in radians
	bassAvg  float64
}

// NewRadial creates the radial spectrum renderer.
func NewRadial(logger *slog.Logger) (render.Renderer, error) {
	v := &radial{
		caps: make([]float64, radialBarCount),
	}
	v.Base = render.NewBase(domain.StyleRadial, logger, render.BaseOptions{
		BarCount:  radialBarCount,
		Draw:      v.draw,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *radial) reset() {
	v.mu.Lock()
	v.rotation = 0
	v.bassAvg = 0
	for i := range v.caps {
		v.caps[i] = 0
	}
	v.mu.Unlock()
}

func (v *radial) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.Black)

	centerX := float64(width) / 2
	centerY := float64(height) / 2
	minDim := math.Min(float64(width), float64(height))
	maxRadius := minDim / 2
	innerRadius := maxRadius * radialInnerRadiusRatio
	maxBarLen := maxRadius - innerRadius - 10 // Leave some margin
	if maxBarLen < 1 {
		maxBarLen = 1
	}

	bass, _, _ := bandLevels(heights)

	v.mu.Lock()
	v.bassAvg = v.bassAvg*0.7 + bass*0.3
	pulseRadius := innerRadius * (1 + v.bassAvg*0.2)
	rotation := v.rotation
	v.rotation += radialSpinSpeed
	if v.rotation >= 2*math.Pi {
		v.rotation -= 2 * math.Pi
	}

	paint.FilledCircle(target, int(centerX), int(centerY), pulseRadius, color.RGBA{R: 20, G: 20, B: 30, A: 255})
	paint.Circle(target, int(centerX), int(centerY), pulseRadius, color.RGBA{R: 80, G: 80, B: 120, A: 255})

	angleStep := 2 * math.Pi / float64(len(heights))

	for i := 0; i < len(heights) && i < len(v.caps); i++ {
		angle := float64(i)*angleStep + rotation - math.Pi/2 // Start from top

		barLen := heights[i] * maxBarLen

		if barLen > v.caps[i] {
			v.caps[i] = barLen
		} else {
			v.caps[i] -= radialCapFalloff
			if v.caps[i] < 0 {
				v.caps[i] = 0
			}
		}
		capLen := v.caps[i]

		startX := centerX + math.Cos(angle)*pulseRadius
		startY := centerY + math.Sin(angle)*pulseRadius
		endX := centerX + math.Cos(angle)*(pulseRadius+barLen)
		endY := centerY + math.Sin(angle)*(pulseRadius+barLen)

		col := paint.RainbowColor(float64(i) / float64(len(heights)))

		if settings.Antialiasing {
			paint.ThickLine(target, startX, startY, endX, endY, radialBarThickness+2, paint.Scaled(col, 0.35))
		}
		paint.ThickLine(target, startX, startY, endX, endY, radialBarThickness, col)

		if capLen > 0 {
			capStartX := centerX + math.Cos(angle)*(pulseRadius+capLen)
			capStartY := centerY + math.Sin(angle)*(pulseRadius+capLen)
			capEndX := centerX + math.Cos(angle)*(pulseRadius+capLen+4)
			capEndY := centerY + math.Sin(angle)*(pulseRadius+capLen+4)
			paint.ThickLine(target, capStartX, capStartY, capEndX, capEndY, radialBarThickness, color.RGBA{R: 255, G: 255, B: 255, A: 200})
		}
	}
	v.mu.Unlock()
}
