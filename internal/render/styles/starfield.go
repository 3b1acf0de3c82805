package styles

import (
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/render"
	"github.com/soundweaver/vizor/internal/render/paint"
)

const (
	starfieldBarCount      = 32
	starfieldNumStars      = 200
	starfieldMaxZ          = 1000.0
	starfieldMinZ          = 1.0
	starfieldBaseSpeed     = 5.0
	starfieldMaxTrailLen   = 20.0
	starfieldSpawnDistance = 800.0
)

// star is a single star in the field.
type star struct {
	x, y, z    float64 // 3D position
	prevX      float64 // Previous screen X for the trail
	prevY      float64 // Previous screen Y for the trail
	brightness float64
}

// starfield renders a warp-speed starfield whose velocity follows the bass.
// The star positions are allocated during Initialize.
type starfield struct {
	*render.Base

	mu      sync.Mutex
	stars   []star
	bassAvg float64
	midAvg  float64
}

// NewStarfield creates the starfield renderer.
func NewStarfield(logger *slog.Logger) (render.Renderer, error) {
	v := &starfield{
		bassAvg: 0.1,
	}
	v.Base = render.NewBase(domain.StyleStarfield, logger, render.BaseOptions{
		BarCount:  starfieldBarCount,
		Draw:      v.draw,
		OnInit:    v.init,
		OnDispose: v.reset,
	})

	return v, nil
}

func (v *starfield) init() error {
	v.stars = make([]star, starfieldNumStars)
	for i := range v.stars {
		initStar(&v.stars[i], true)
	}
	return nil
}

func (v *starfield) reset() {
	v.mu.Lock()
	v.bassAvg = 0.1
	v.midAvg = 0
	for i := range v.stars {
		initStar(&v.stars[i], true)
	}
	v.mu.Unlock()
}

// initStar places a star at a random position.
// nolint:gosec // G404 - weak random is fine for visual effects
func initStar(s *star, randomZ bool) {
	spread := 1500.0
	s.x = (rand.Float64() - 0.5) * spread
	s.y = (rand.Float64() - 0.5) * spread

	if randomZ {
		s.z = rand.Float64()*starfieldMaxZ + starfieldMinZ
	} else {
		s.z = starfieldSpawnDistance + rand.Float64()*200
	}

	s.brightness = 0.5 + rand.Float64()*0.5
	s.prevX = 0
	s.prevY = 0
}

func (v *starfield) draw(target ports.Surface, heights []float64, width, height int, settings domain.QualitySettings) {
	target.Fill(color.Black)

	bass, mid, _ := bandLevels(heights)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.bassAvg = v.bassAvg*0.7 + bass*0.3
	v.midAvg = v.midAvg*0.7 + mid*0.3

	speed := starfieldBaseSpeed + v.bassAvg*30.0
	trailLen := math.Min(speed*0.5, starfieldMaxTrailLen)

	centerX := float64(width) / 2
	centerY := float64(height) / 2

	for i := range v.stars {
		s := &v.stars[i]

		if s.z > starfieldMinZ {
			s.prevX = s.x / s.z * 300
			s.prevY = s.y / s.z * 300
		}

		s.z -= speed

		if s.z < starfieldMinZ {
			initStar(s, false)
			continue
		}

		// Project 3D to 2D.
		scale := 300.0 / s.z
		screenX := s.x*scale + centerX
		screenY := s.y*scale + centerY

		if screenX < 0 || screenX >= float64(width) || screenY < 0 || screenY >= float64(height) {
			initStar(s, false)
			continue
		}

		depthFactor := 1.0 - (s.z / starfieldMaxZ)
		brightness := s.brightness * depthFactor
		brightness = math.Min(brightness+v.midAvg*0.3, 1.0)

		col := starColor(s.z, brightness)

		// Motion trails are the costly part of this style.
		if settings.AdvancedEffects && trailLen > 1 && s.prevX != 0 && s.prevY != 0 {
			prevScreenX := s.prevX + centerX
			prevScreenY := s.prevY + centerY
			paint.Line(target, int(prevScreenX), int(prevScreenY), int(screenX), int(screenY), col, brightness)
		}

		starSize := int(math.Max(1, 3*depthFactor))
		drawStar(target, int(screenX), int(screenY), starSize, col)
	}
}

// starColor picks the star color by depth: warm white near, blue far.
func starColor(z, brightness float64) color.RGBA {
	switch {
	case z < starfieldMaxZ*0.3:
		return color.RGBA{
			R: uint8(255 * brightness),
			G: uint8(255 * brightness),
			B: uint8(200 * brightness),
			A: 255,
		}
	case z < starfieldMaxZ*0.6:
		return color.RGBA{
			R: uint8(255 * brightness),
			G: uint8(255 * brightness),
			B: uint8(255 * brightness),
			A: 255,
		}
	default:
		return color.RGBA{
			R: uint8(150 * brightness),
			G: uint8(180 * brightness),
			B: uint8(255 * brightness),
			A: 255,
		}
	}
}

// drawStar draws a square star point, larger when closer.
func drawStar(target ports.Surface, x, y, size int, col color.RGBA) {
	for dy := -size / 2; dy <= size/2; dy++ {
		for dx := -size / 2; dx <= size/2; dx++ {
			target.SetPixel(x+dx, y+dy, col)
		}
	}
}
