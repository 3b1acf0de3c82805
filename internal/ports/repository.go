// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/soundweaver/vizor/internal/domain"
)

// PreferencesRepository handles the persistence of visualizer preferences.
// Implementations can use files, platform preference stores, or in-memory storage;
// the persistence format is irrelevant to the core.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveStyle persists the selected rendering style.
	SaveStyle(style domain.StyleID) error

	// LoadStyle retrieves the saved rendering style.
	// If no style was saved, returns the default style (not an error).
	LoadStyle() (domain.StyleID, error)

	// SaveQuality persists the render quality preference.
	SaveQuality(quality domain.RenderQuality) error

	// LoadQuality retrieves the saved render quality.
	// If no quality was saved, returns domain.QualityMedium (not an error).
	LoadQuality() (domain.RenderQuality, error)

	// SaveOverlay persists the overlay mode flag.
	SaveOverlay(active bool) error

	// LoadOverlay retrieves the saved overlay mode flag.
	LoadOverlay() (bool, error)

	// Clear resets all preferences to their defaults.
	Clear() error
}
