package fyne

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

// stubController records the interactions forwarded by the window.
type stubController struct {
	styles    []domain.StyleID
	qualities []domain.RenderQuality
	overlays  []bool
	frames    int
}

func (s *stubController) SelectStyle(style domain.StyleID) error {
	s.styles = append(s.styles, style)
	return nil
}

func (s *stubController) SetQuality(quality domain.RenderQuality) error {
	s.qualities = append(s.qualities, quality)
	return nil
}

func (s *stubController) SetOverlay(active bool) error {
	s.overlays = append(s.overlays, active)
	return nil
}

func (s *stubController) RenderFrame(target ports.Surface, spectrum []float64, width, height int) {
	s.frames++
}

func newTestWindow(t *testing.T) (*MainWindow, *stubController) {
	t.Helper()

	w := NewMainWindow(test.NewApp())
	ctrl := &stubController{}
	w.SetController(ctrl)

	t.Cleanup(w.Quit)

	return w, ctrl
}

func testStyles() []domain.StyleInfo {
	return []domain.StyleInfo{
		{ID: domain.StyleBars, Name: "Spectrum Bars"},
		{ID: domain.StylePlasma, Name: "Plasma"},
	}
}

func TestSetStyleOptionsDoesNotForward(t *testing.T) {
	w, ctrl := newTestWindow(t)

	w.SetStyleOptions(testStyles(), domain.StylePlasma)

	assert.Equal(t, "Plasma", w.styleSelect.Selected)
	assert.Empty(t, ctrl.styles, "programmatic update must not call the controller")
}

func TestStyleSelectionForwards(t *testing.T) {
	w, ctrl := newTestWindow(t)
	w.SetStyleOptions(testStyles(), domain.StyleBars)

	w.styleSelect.SetSelected("Plasma")

	require.Len(t, ctrl.styles, 1)
	assert.Equal(t, domain.StylePlasma, ctrl.styles[0])
}

func TestQualitySelectionForwards(t *testing.T) {
	w, ctrl := newTestWindow(t)

	w.SetQuality(domain.QualityMedium)
	assert.Empty(t, ctrl.qualities)

	w.qualitySelect.SetSelected("High")

	require.Len(t, ctrl.qualities, 1)
	assert.Equal(t, domain.QualityHigh, ctrl.qualities[0])
}

func TestOverlayToggleForwards(t *testing.T) {
	w, ctrl := newTestWindow(t)

	w.SetOverlay(true)
	assert.True(t, w.overlayCheck.Checked)
	assert.Empty(t, ctrl.overlays)

	w.overlayCheck.SetChecked(false)

	require.Len(t, ctrl.overlays, 1)
	assert.False(t, ctrl.overlays[0])
}

func TestSetQualityOutOfRangeFallsBack(t *testing.T) {
	w, _ := newTestWindow(t)

	w.SetQuality(domain.RenderQuality(42))

	assert.Equal(t, "Medium", w.qualitySelect.Selected)
}

func TestVisualizerWidgetGenerates(t *testing.T) {
	var drawn int
	v := NewVisualizerWidget(func(target ports.Surface, spectrum []float64, width, height int) {
		drawn++
		assert.Equal(t, 64, width)
		assert.Equal(t, 32, height)
	})

	img := v.generate(64, 32)
	require.NotNil(t, img)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
	assert.Equal(t, 1, drawn)

	// The surface is reused while the size is stable.
	first := v.target
	v.generate(64, 32)
	assert.Same(t, first, v.target)

	// And replaced on resize.
	v.generate(100, 50)
	assert.NotSame(t, first, v.target)
}
