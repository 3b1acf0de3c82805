package styles

import (
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/render"
)

const (
	plasmaBarCount    = 32
	plasmaBaseScale   = 0.02 // Base scale for the plasma pattern
	plasmaBaseSpeed   = 0.03 // Base animation speed
	plasmaPaletteSize = 256
)

// plasma renders a classic demoscene plasma whose motion, zoom and palette
// are modulated by the audio bands. The palette is precomputed during
// Initialize and regenerated each frame for color cycling.
type plasma struct {
	*render.Base

	mu      sync.Mutex
	palette []color.RGBA
	time    float64
	bassAvg float64
	midAvg  float64
	highAvg float64
}

// NewPlasma creates the plasma renderer.
func NewPlasma(logger *slog.Logger) (render.Renderer, error) {
	v := &plasma{
		palette: make([]color.RGBA, plasmaPaletteSize),
		bassAvg: 0.5,
		midAvg:  0.5,
		highAvg: 0.5,
	}
	v.Base = render.NewBase(domain.StylePlasma, logger, render.BaseOptions{
		BarCount:  plasmaBarCount,
		Draw:      v.draw,
		OnInit:    v.init,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *plasma) init() error {
	v.generatePalette(0)
	return nil
}

func (v *plasma) reset() {
	v.mu.Lock()
	v.time = 0
	v.bassAvg = 0.5
	v.midAvg = 0.5
	v.highAvg = 0.5
	v.generatePalette(0)
	v.mu.Unlock()
}

// generatePalette creates a smooth color palette with a hue offset.
// Caller must hold mu (or have exclusive access during init).
func (v *plasma) generatePalette(hueOffset float64) {
	for i := 0; i < plasmaPaletteSize; i++ {
		t := float64(i) / float64(plasmaPaletteSize)

		r := math.Sin(t*math.Pi*2+hueOffset)*0.5 + 0.5
		g := math.Sin(t*math.Pi*2+hueOffset+math.Pi*2/3)*0.5 + 0.5
		b := math.Sin(t*math.Pi*2+hueOffset+math.Pi*4/3)*0.5 + 0.5

		v.palette[i] = color.RGBA{
			R: uint8(r * 255),
			G: uint8(g * 255),
			B: uint8(b * 255),
			A: 255,
		}
	}
}

func (v *plasma) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	bass, mid, high := bandLevels(heights)

	v.mu.Lock()
	v.bassAvg = v.bassAvg*0.85 + bass*0.15
	v.midAvg = v.midAvg*0.85 + mid*0.15
	v.highAvg = v.highAvg*0.85 + high*0.15
	smoothedBass := v.bassAvg
	smoothedMid := v.midAvg
	smoothedHigh := v.highAvg

	v.time += plasmaBaseSpeed + smoothedMid*0.05
	time := v.time

	// Regenerate the palette for color cycling driven by the highs.
	v.generatePalette(smoothedHigh * math.Pi * 2)
	palette := v.palette
	v.mu.Unlock()

	// Zoom with the bass, raise contrast with overall energy.
	scale := plasmaBaseScale * (1.0 + smoothedBass*0.5)
	contrast := 0.5 + (smoothedBass+smoothedMid+smoothedHigh)*0.3

	// Sampling fidelity selects the pixel block size: fidelity 4 renders
	// per-pixel, fidelity 1 renders 4x4 blocks.
	downscale := 4 / settings.SamplingFidelity
	if downscale < 1 {
		downscale = 1
	}

	renderW := width / downscale
	renderH := height / downscale

	for py := 0; py < renderH; py++ {
		for px := 0; px < renderW; px++ {
			x := float64(px*downscale) * scale
			y := float64(py*downscale) * scale

			value := plasmaValue(x, y, time, smoothedBass, smoothedMid)

			value = (value-0.5)*contrast + 0.5
			if value < 0 {
				value = 0
			}
			if value > 1 {
				value = 1
			}

			idx := int(value * float64(plasmaPaletteSize-1))
			col := palette[idx]

			for dy := 0; dy < downscale; dy++ {
				for dx := 0; dx < downscale; dx++ {
					target.SetPixel(px*downscale+dx, py*downscale+dy, col)
				}
			}
		}
	}
}

// plasmaValue combines six interference waves into a 0-1 intensity.
func plasmaValue(x, y, time, bass, mid float64) float64 {
	v1 := math.Sin(x*10 + time*2)
	v2 := math.Sin(y*10 + time*3)
	v3 := math.Sin((x+y)*7 + time*1.5)

	// Circular waves from a bass-modulated center.
	cx := x - 5*(1+bass*0.5)
	cy := y - 5*(1+bass*0.5)
	dist := math.Sqrt(cx*cx + cy*cy)
	v4 := math.Sin(dist*8 - time*4)

	cx2 := x + 3*math.Sin(time)
	cy2 := y + 3*math.Cos(time*0.7)
	dist2 := math.Sqrt(cx2*cx2 + cy2*cy2)
	v5 := math.Sin(dist2*6 + time*2)

	v6 := math.Sin(x*3+math.Sin(y*4+time)) * mid

	combined := (v1 + v2 + v3 + v4 + v5 + v6) / 6.0
	return combined*0.5 + 0.5
}
