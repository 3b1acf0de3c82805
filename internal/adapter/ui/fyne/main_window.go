package fyne

import (
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

// Window defaults.
const (
	appName   = "Vizor"
	winWidth  = 960
	winHeight = 600
)

// Labels shown in the quality selector, index-aligned with RenderQuality.
var qualityLabels = []string{"Low", "Medium", "High"}

// Controller receives user interactions from the window. The visualizer
// service implements it; tests can substitute a stub.
type Controller interface {
	SelectStyle(style domain.StyleID) error
	SetQuality(quality domain.RenderQuality) error
	SetOverlay(active bool) error
	RenderFrame(target ports.Surface, spectrum []float64, width, height int)
}

// MainWindow is the main UI window implementing ports.UI.
//
// It is a dumb view: selector changes are forwarded to the Controller, and
// state pushed back through the ports.UI setters updates the widgets without
// re-triggering the handlers.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	visualizer    *VisualizerWidget
	styleSelect   *widget.Select
	qualitySelect *widget.Select
	overlayCheck  *widget.Check

	// styleIDs maps the style selector index back to a StyleID.
	styleIDs []domain.StyleID

	// updating suppresses the change handlers while the setters write widget
	// state programmatically. Touched only on the UI thread.
	updating bool

	closeOnce sync.Once

	controller Controller
}

// NewMainWindow creates the main window. SetController must be called before
// showing it.
func NewMainWindow(app fyneapp.App) *MainWindow {
	w := &MainWindow{
		app: app,
	}

	w.window = app.NewWindow(appName)

	w.buildUI()

	w.window.Resize(fyneapp.Size{
		Width:  winWidth,
		Height: winHeight,
	})

	return w
}

// SetController connects the controller to this view and wires the handlers.
func (w *MainWindow) SetController(controller Controller) {
	w.controller = controller
	w.visualizer.render = controller.RenderFrame
	w.wireHandlers()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	w.visualizer = NewVisualizerWidget(func(ports.Surface, []float64, int, int) {})

	w.styleSelect = widget.NewSelect(nil, nil)
	w.styleSelect.PlaceHolder = "Style"

	w.qualitySelect = widget.NewSelect(qualityLabels, nil)
	w.qualitySelect.PlaceHolder = "Quality"

	w.overlayCheck = widget.NewCheck("Overlay", nil)

	controls := container.NewHBox(
		widget.NewLabel("Style"), w.styleSelect,
		widget.NewLabel("Quality"), w.qualitySelect,
		w.overlayCheck,
	)

	content := container.NewBorder(nil, controls, nil, nil, w.visualizer)
	w.window.SetContent(container.NewPadded(content))
}

// wireHandlers connects widget events to controller calls.
func (w *MainWindow) wireHandlers() {
	if w.controller == nil {
		return
	}

	w.styleSelect.OnChanged = func(string) {
		if w.updating {
			return
		}
		idx := w.styleSelect.SelectedIndex()
		if idx < 0 || idx >= len(w.styleIDs) {
			return
		}
		if err := w.controller.SelectStyle(w.styleIDs[idx]); err != nil {
			w.ShowError("Style", err.Error())
		}
	}

	w.qualitySelect.OnChanged = func(string) {
		if w.updating {
			return
		}
		idx := w.qualitySelect.SelectedIndex()
		if idx < 0 {
			return
		}
		if err := w.controller.SetQuality(domain.RenderQuality(idx)); err != nil {
			w.ShowError("Quality", err.Error())
		}
	}

	w.overlayCheck.OnChanged = func(active bool) {
		if w.updating {
			return
		}
		if err := w.controller.SetOverlay(active); err != nil {
			w.ShowError("Overlay", err.Error())
		}
	}
}

// ports.UI implementation

// SetStyleOptions populates the style selector and highlights the active style.
func (w *MainWindow) SetStyleOptions(styles []domain.StyleInfo, active domain.StyleID) {
	names := make([]string, len(styles))
	ids := make([]domain.StyleID, len(styles))
	activeName := ""
	for i, s := range styles {
		names[i] = s.Name
		ids[i] = s.ID
		if s.ID == active {
			activeName = s.Name
		}
	}

	w.updating = true
	w.styleIDs = ids
	w.styleSelect.SetOptions(names)
	w.styleSelect.SetSelected(activeName)
	w.updating = false
}

// SetQuality updates the quality selector state.
func (w *MainWindow) SetQuality(quality domain.RenderQuality) {
	idx := int(quality)
	if idx < 0 || idx >= len(qualityLabels) {
		idx = int(domain.QualityMedium)
	}

	w.updating = true
	w.qualitySelect.SetSelected(qualityLabels[idx])
	w.updating = false
}

// SetOverlay updates the overlay toggle state.
func (w *MainWindow) SetOverlay(active bool) {
	w.updating = true
	w.overlayCheck.SetChecked(active)
	w.updating = false
}

// PushFrame hands a new spectrum frame to the visualizer widget. Safe to call
// from the producer goroutine; the repaint is marshalled onto the UI thread.
func (w *MainWindow) PushFrame(spectrum []float64) {
	fyneapp.Do(func() {
		w.visualizer.SetFrame(spectrum)
	})
}

// ShowError displays an error notification.
func (w *MainWindow) ShowError(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// Run shows the window and runs the application event loop. Blocks until the
// window is closed.
func (w *MainWindow) Run() error {
	w.window.ShowAndRun()
	return nil
}

// Quit closes the window. Safe to call multiple times.
func (w *MainWindow) Quit() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// Verify interface implementation
var _ ports.UI = (*MainWindow)(nil)
