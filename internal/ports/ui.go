// Package ports define the UI interface for view abstraction.
// This interface allows the application core to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/soundweaver/vizor/internal/domain"
)

// UI is the interface for the user interface layer.
// This abstracts the Fyne UI implementation and allows for testing without a real UI.
//
// Thread-safety: All methods must be called from the main UI thread.
// The Fyne framework handles thread-safety internally.
type UI interface {
	// SetStyleOptions populates the style selector with the available styles
	// and highlights the active one.
	SetStyleOptions(styles []domain.StyleInfo, active domain.StyleID)

	// SetQuality updates the quality selector state.
	SetQuality(quality domain.RenderQuality)

	// SetOverlay updates the overlay toggle state.
	SetOverlay(active bool)

	// PushFrame hands a new magnitude spectrum to the visualizer widget.
	// Called once per analysis frame from the producer loop.
	PushFrame(spectrum []float64)

	// ShowError displays an error notification to the user.
	ShowError(title, message string)

	// Run starts the UI event loop.
	// This is a blocking call that runs until the application quits.
	Run() error

	// Quit closes the application.
	Quit()
}

// UIFactory is a function that creates a UI instance.
// This allows for dependency injection of different UI implementations.
type UIFactory func() (UI, error)
