// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Vizor spectrum visualizer.
package domain

// StyleID identifies a rendering style.
// Styles are registered with the renderer registry under these identifiers.
type StyleID string

// Built-in rendering styles.
const (
	StyleBars      StyleID = "bars"
	StyleLEDBars   StyleID = "led_bars"
	StyleCircular  StyleID = "circular"
	StyleRadial    StyleID = "radial"
	StyleGraph     StyleID = "graph"
	StylePlasma    StyleID = "plasma"
	StyleStarfield StyleID = "starfield"
	StyleTunnel    StyleID = "tunnel"
)

// StyleInfo contains display information about a rendering style.
type StyleInfo struct {
	ID   StyleID
	Name string
}

// RenderQuality is the coarse quality level supplied by the settings source.
type RenderQuality int

// Quality levels, ordered from cheapest to most expensive.
const (
	QualityLow RenderQuality = iota
	QualityMedium
	QualityHigh
)

// String returns a human-readable quality name.
func (q RenderQuality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseQuality converts a quality name back to a RenderQuality.
// Unknown names map to QualityMedium, mirroring the quality policy fallback.
func ParseQuality(s string) RenderQuality {
	switch s {
	case "low":
		return QualityLow
	case "high":
		return QualityHigh
	default:
		return QualityMedium
	}
}

// QualitySettings are the concrete fidelity flags derived from a RenderQuality
// by the quality policy. Renderer backends consult these instead of the coarse
// level so that the mapping lives in exactly one place.
type QualitySettings struct {
	// Antialiasing enables soft edges on primitives that support them.
	Antialiasing bool

	// SamplingFidelity is the sampling density divisor base: 4 means full
	// resolution sampling, 1 means the coarsest. Effect styles derive their
	// downscale factor from it.
	SamplingFidelity int

	// AdvancedEffects gates the expensive extras (trails, pulse rings,
	// palette cycling).
	AdvancedEffects bool
}
