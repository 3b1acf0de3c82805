// Package paint provides the shared pixel primitives used by the rendering
// styles: lines, circles, rectangles and the color helpers for gradients.
// Everything draws through the Surface port, which ignores out-of-bounds
// coordinates, so the primitives skip their own clipping.
package paint

import (
	"image/color"
	"math"

	"github.com/soundweaver/vizor/internal/ports"
)

// Rect fills an axis-aligned rectangle.
func Rect(dst ports.Surface, x, y, w, h int, col color.RGBA) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			dst.SetPixel(x+dx, y+dy, col)
		}
	}
}

// ThickLine draws a line with the specified thickness by stamping parallel
// runs along the perpendicular.
func ThickLine(dst ports.Surface, x1, y1, x2, y2 float64, thickness int, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)

	if length == 0 {
		return
	}

	perpX := -dy / length
	perpY := dx / length

	steps := int(length) + 1

	for t := -thickness / 2; t <= thickness/2; t++ {
		offsetX := float64(t) * perpX
		offsetY := float64(t) * perpY

		for i := 0; i <= steps; i++ {
			progress := float64(i) / float64(steps)
			px := int(x1 + dx*progress + offsetX)
			py := int(y1 + dy*progress + offsetY)
			dst.SetPixel(px, py, col)
		}
	}
}

// Line draws a single-pixel line with a brightness fade from start to end.
// A fade of 1 keeps the full color at the end point.
func Line(dst ports.Surface, x1, y1, x2, y2 int, col color.RGBA, fade float64) {
	dx := x2 - x1
	dy := y2 - y1
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))

	if steps == 0 {
		return
	}

	xInc := float64(dx) / float64(steps)
	yInc := float64(dy) / float64(steps)

	x := float64(x1)
	y := float64(y1)

	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps) * fade
		dst.SetPixel(int(x), int(y), Scaled(col, f))
		x += xInc
		y += yInc
	}
}

// Circle draws a circle outline.
func Circle(dst ports.Surface, cx, cy int, radius float64, col color.RGBA) {
	steps := int(2 * math.Pi * radius)
	if steps < 36 {
		steps = 36
	}

	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		px := int(float64(cx) + math.Cos(angle)*radius)
		py := int(float64(cy) + math.Sin(angle)*radius)
		dst.SetPixel(px, py, col)
	}
}

// FilledCircle draws a filled circle.
func FilledCircle(dst ports.Surface, cx, cy int, radius float64, col color.RGBA) {
	r := int(radius)

	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				dst.SetPixel(cx+dx, cy+dy, col)
			}
		}
	}
}

// GradientColor returns a color from a red-yellow-green gradient based on
// position (0.0 to 1.0).
func GradientColor(pos float64) color.RGBA {
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}

	var r, g uint8

	if pos < 0.5 {
		r = 255
		g = uint8(pos * 2 * 255)
	} else {
		r = uint8((1 - (pos-0.5)*2) * 255)
		g = 255
	}

	return color.RGBA{R: r, G: g, B: 0, A: 255}
}

// RainbowColor maps a position (0.0 to 1.0) onto the full color wheel.
func RainbowColor(pos float64) color.RGBA {
	r, g, b := HSLToRGB(pos, 1.0, 0.5)

	return color.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 255,
	}
}

// Scaled multiplies the RGB channels by a brightness factor, leaving alpha
// untouched. Factors outside [0,1] are clamped.
func Scaled(col color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}

	return color.RGBA{
		R: uint8(float64(col.R) * factor),
		G: uint8(float64(col.G) * factor),
		B: uint8(float64(col.B) * factor),
		A: col.A,
	}
}

// HSLToRGB converts HSL to RGB (h, s, l in 0-1 range).
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)

	return r, g, b
}

// hueToRGB is a helper for HSL to RGB conversion.
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 0.5 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
