package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

// Preference keys.
const (
	keyStyle   = "preferences.style"
	keyQuality = "preferences.quality"
	keyOverlay = "preferences.overlay"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system with proper error handling.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences' repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveStyle persists the selected rendering style.
func (r *PreferencesRepository) SaveStyle(style domain.StyleID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyStyle, string(style))
	return nil
}

// LoadStyle retrieves the saved rendering style.
// If no style was saved, returns the default bars style.
func (r *PreferencesRepository) LoadStyle() (domain.StyleID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	style := r.prefs.StringWithFallback(keyStyle, string(domain.StyleBars))
	return domain.StyleID(style), nil
}

// SaveQuality persists the render quality preference.
func (r *PreferencesRepository) SaveQuality(quality domain.RenderQuality) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyQuality, quality.String())
	return nil
}

// LoadQuality retrieves the saved render quality.
// Missing or unrecognized values map to medium via ParseQuality.
func (r *PreferencesRepository) LoadQuality() (domain.RenderQuality, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quality := r.prefs.StringWithFallback(keyQuality, domain.QualityMedium.String())
	return domain.ParseQuality(quality), nil
}

// SaveOverlay persists the overlay mode flag.
func (r *PreferencesRepository) SaveOverlay(active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyOverlay, active)
	return nil
}

// LoadOverlay retrieves the saved overlay mode flag.
func (r *PreferencesRepository) LoadOverlay() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.BoolWithFallback(keyOverlay, false), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyStyle)
	r.prefs.RemoveValue(keyQuality)
	r.prefs.RemoveValue(keyOverlay)

	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
