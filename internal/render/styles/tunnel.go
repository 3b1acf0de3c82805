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
	tunnelBarCount     = 32
	tunnelNumRings     = 20
	tunnelMaxRadius    = 1.5 // Max radius multiplier of min dimension
	tunnelBaseSpeed    = 0.02
	tunnelWaveSegments = 60 // Segments per ring
)

// tunnel renders a wormhole of concentric distorted rings flying toward the
// viewer. Bass drives the travel speed, mids distort the ring walls, highs
// shift the hue.
type tunnel struct {
	*render.Base

	mu      sync.Mutex
	time    float64
	bassAvg float64
	midAvg  float64
	highAvg float64
}

// NewTunnel creates the tunnel renderer.
func NewTunnel(logger *slog.Logger) (render.Renderer, error) {
	v := &tunnel{
		bassAvg: 0.1,
	}
	v.Base = render.NewBase(domain.StyleTunnel, logger, render.BaseOptions{
		BarCount:  tunnelBarCount,
		Draw:      v.draw,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *tunnel) reset() {
	v.mu.Lock()
	v.time = 0
	v.bassAvg = 0.1
	v.midAvg = 0
	v.highAvg = 0
	v.mu.Unlock()
}

func (v *tunnel) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.RGBA{R: 5, G: 5, B: 15, A: 255})

	bass, mid, high := bandLevels(heights)

	v.mu.Lock()
	v.bassAvg = v.bassAvg*0.8 + bass*0.2
	v.midAvg = v.midAvg*0.8 + mid*0.2
	v.highAvg = v.highAvg*0.8 + high*0.2
	smoothedBass := v.bassAvg
	smoothedMid := v.midAvg
	smoothedHigh := v.highAvg

	v.time += tunnelBaseSpeed + smoothedBass*0.05
	time := v.time
	v.mu.Unlock()

	centerX := float64(width) / 2
	centerY := float64(height) / 2
	minDim := math.Min(float64(width), float64(height))

	// Draw rings back to front.
	for i := tunnelNumRings - 1; i >= 0; i-- {
		ringPhase := math.Mod(float64(i)/float64(tunnelNumRings)+time, 1.0)
		radius := ringPhase * minDim * tunnelMaxRadius / 2

		if radius < 5 {
			continue
		}

		depth := 1.0 - ringPhase
		intensity := depth * 0.8

		col := tunnelColor(intensity, smoothedHigh*0.3)
		waveAmplitude := smoothedMid * radius * 0.15

		drawDistortedRing(target, centerX, centerY, radius, waveAmplitude, time, col, depth)
	}

	// Lightning arcs on hard bass hits.
	if settings.AdvancedEffects && smoothedBass > 0.4 {
		drawLightning(target, centerX, centerY, minDim, smoothedBass, time)
	}
}

// drawDistortedRing draws a ring with sinusoidal wall distortion.
func drawDistortedRing(target ports.Surface, cx, cy, radius, waveAmp, time float64, col color.RGBA, depth float64) {
	thickness := int(math.Max(1, 3*depth))

	for i := 0; i < tunnelWaveSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(tunnelWaveSegments)
		nextAngle := 2 * math.Pi * float64(i+1) / float64(tunnelWaveSegments)

		wave := math.Sin(angle*4+time*10) * waveAmp
		nextWave := math.Sin(nextAngle*4+time*10) * waveAmp

		r := radius + wave
		nextR := radius + nextWave

		x1 := cx + math.Cos(angle)*r
		y1 := cy + math.Sin(angle)*r
		x2 := cx + math.Cos(nextAngle)*nextR
		y2 := cy + math.Sin(nextAngle)*nextR

		paint.ThickLine(target, x1, y1, x2, y2, thickness, col)
	}
}

// drawLightning draws jagged arcs emanating from the center.
func drawLightning(target ports.Surface, cx, cy, size, intensity, time float64) {
	numBolts := 3
	for bolt := 0; bolt < numBolts; bolt++ {
		baseAngle := (float64(bolt)/float64(numBolts))*2*math.Pi + time*2

		x := cx
		y := cy
		segLen := 15.0

		numSegments := int(size / segLen / 3)

		for seg := 0; seg < numSegments; seg++ {
			angle := baseAngle + math.Sin(time*20+float64(seg)*0.5)*0.5

			nx := x + math.Cos(angle)*segLen
			ny := y + math.Sin(angle)*segLen

			brightness := intensity * (1.0 - float64(seg)/float64(numSegments))
			col := color.RGBA{
				R: uint8(200 * brightness),
				G: uint8(200 * brightness),
				B: uint8(255 * brightness),
				A: 255,
			}

			paint.ThickLine(target, x, y, nx, ny, 1, col)

			x, y = nx, ny
		}
	}
}

// tunnelColor returns the ring color for an intensity and hue shift.
func tunnelColor(intensity, hueShift float64) color.RGBA {
	baseHue := 0.7 + hueShift
	if baseHue > 1.0 {
		baseHue -= 1.0
	}

	r, g, b := paint.HSLToRGB(baseHue, 0.8, intensity*0.5)

	return color.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 255,
	}
}
