package render

import (
	"github.com/soundweaver/vizor/internal/domain"
)

// SettingsFor maps a coarse quality level to concrete fidelity flags.
//
// Low trades fidelity for throughput: no antialiasing, no advanced effects,
// coarsest sampling. Medium and High enable both; High additionally selects
// the highest sampling fidelity. Unknown or out-of-range levels fall back to
// Medium's settings, so this function is total and can never fail.
func SettingsFor(quality domain.RenderQuality) domain.QualitySettings {
	switch quality {
	case domain.QualityLow:
		return domain.QualitySettings{
			Antialiasing:     false,
			SamplingFidelity: 1,
			AdvancedEffects:  false,
		}
	case domain.QualityHigh:
		return domain.QualitySettings{
			Antialiasing:     true,
			SamplingFidelity: 4,
			AdvancedEffects:  true,
		}
	default:
		// Medium, and the fallback for anything unrecognized.
		return domain.QualitySettings{
			Antialiasing:     true,
			SamplingFidelity: 2,
			AdvancedEffects:  true,
		}
	}
}
