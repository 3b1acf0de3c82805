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
	ledBarCount   = 32
	ledSegments   = 16  // Number of LED segments per bar
	ledGapRatio   = 0.2 // Gap as fraction of segment height
	ledPadding    = 10
	ledMinGap     = 2
	ledCapFalloff = 1.0 // Segments per frame the cap falls
)

// ledBars renders the spectrum as LED-style segmented bars with a
// green/yellow/red zone coloring and falling white caps.
type ledBars struct {
	*render.Base

	mu   sync.Mutex
	caps []float64 // Cap position (segment index) for each bar

	// Layout cache
	lastWidth  int
	lastHeight int
	barWidth   int
	gap        int
	startX     int
	effectiveH int
	segHeight  int
	segGap     int
}

// NewLEDBars creates the LED bar renderer.
func NewLEDBars(logger *slog.Logger) (render.Renderer, error) {
	v := &ledBars{
		caps: make([]float64, ledBarCount),
	}
	v.Base = render.NewBase(domain.StyleLEDBars, logger, render.BaseOptions{
		BarCount:  ledBarCount,
		Draw:      v.draw,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *ledBars) reset() {
	v.mu.Lock()
	for i := range v.caps {
		v.caps[i] = 0
	}
	v.mu.Unlock()
}

func (v *ledBars) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.Black)

	if v.lastWidth != width || v.lastHeight != height {
		v.recalculateLayout(width, height)
	}
	if v.barWidth == 0 || v.segHeight == 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	step := v.barWidth + v.gap
	segStep := v.segHeight + v.segGap

	for i := 0; i < len(heights) && i < len(v.caps); i++ {
		litSegments := heights[i] * float64(ledSegments)

		if litSegments > v.caps[i] {
			v.caps[i] = litSegments
		} else {
			v.caps[i] -= ledCapFalloff
			if v.caps[i] < 0 {
				v.caps[i] = 0
			}
		}

		barX := v.startX + i*step
		lit := int(litSegments)
		capSegment := int(v.caps[i])

		for seg := 0; seg < ledSegments; seg++ {
			segY := height - ledPadding - (seg+1)*segStep
			col, draw := v.segmentColor(seg, lit, capSegment, settings)
			if draw {
				paint.Rect(target, barX, segY, v.barWidth, v.segHeight, col)
			}
		}
	}
}

// segmentColor picks the color for a segment: zone color when lit, white for
// the cap, a dim placeholder for unlit segments on higher quality levels.
func (v *ledBars) segmentColor(seg, lit, capSegment int, settings domain.QualitySettings) (color.RGBA, bool) {
	switch {
	case seg < lit:
		return ledZoneColor(float64(seg) / float64(ledSegments)), true
	case seg == capSegment && capSegment > 0:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}, true
	case settings.AdvancedEffects:
		return color.RGBA{R: 30, G: 30, B: 30, A: 255}, true
	default:
		return color.RGBA{}, false
	}
}

// ledZoneColor returns the color for a segment based on its vertical position.
// 0-40%: green, 40-75%: green-to-yellow, 75-100%: yellow-to-red.
func ledZoneColor(ratio float64) color.RGBA {
	switch {
	case ratio < 0.4:
		return color.RGBA{R: 0, G: 255, B: 0, A: 255}
	case ratio < 0.75:
		t := (ratio - 0.4) / 0.35
		return color.RGBA{R: uint8(255 * t), G: 255, B: 0, A: 255}
	default:
		t := (ratio - 0.75) / 0.25
		return color.RGBA{R: 255, G: uint8(255 * (1 - t)), B: 0, A: 255}
	}
}

// recalculateLayout computes size-dependent layout values.
func (v *ledBars) recalculateLayout(width, height int) {
	v.lastWidth = width
	v.lastHeight = height

	effectiveW := width - 2*ledPadding
	v.effectiveH = height - 2*ledPadding

	if effectiveW <= 0 || v.effectiveH <= 0 {
		v.barWidth = 0
		return
	}

	segWithGap := float64(v.effectiveH) / float64(ledSegments)
	v.segGap = max(int(segWithGap*ledGapRatio), 1)
	v.segHeight = max(int(segWithGap)-v.segGap, 2)

	totalGapWidth := (ledBarCount - 1) * ledMinGap
	v.barWidth = max((effectiveW-totalGapWidth)/ledBarCount, 2)

	v.gap = ledMinGap
	if ledBarCount > 1 {
		remaining := effectiveW - v.barWidth*ledBarCount
		v.gap = max(remaining/(ledBarCount-1), ledMinGap)
	}

	usedWidth := ledBarCount*v.barWidth + (ledBarCount-1)*v.gap
	v.startX = ledPadding + (effectiveW-usedWidth)/2
}
