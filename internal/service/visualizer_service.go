// Package service provides business logic for the Vizor application.
package service

import (
	"log/slog"
	"sync"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/render"
)

// VisualizerService orchestrates the rendering core: it owns the active style
// selection, forwards frames to the current renderer, applies quality and
// overlay changes and persists the user's choices.
//
// Thread-safety: all operations are safe for concurrent use. RenderFrame is
// the hot path and holds the style lock only long enough to read the active
// renderer.
type VisualizerService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	registry   *render.Registry
	repository ports.PreferencesRepository
	bus        ports.EventBus
	styles     []domain.StyleInfo

	mu       sync.RWMutex
	current  render.Renderer
	style    domain.StyleID
	overlay  bool
	shutdown bool
}

// NewVisualizerService creates the visualizer service and restores the
// persisted style, quality and overlay state. A failure to restore the saved
// style falls back through the registry's substitution, so construction only
// fails when even the fallback backend cannot be built.
func NewVisualizerService(
	logger *slog.Logger,
	registry *render.Registry,
	repository ports.PreferencesRepository,
	bus ports.EventBus,
	styles []domain.StyleInfo,
) (*VisualizerService, error) {
	s := &VisualizerService{
		logger:     logger,
		registry:   registry,
		repository: repository,
		bus:        bus,
		styles:     styles,
	}

	quality, err := repository.LoadQuality()
	if err != nil {
		logger.Warn("failed to load quality preference", slog.Any("error", err))
		quality = domain.QualityMedium
	}
	registry.SetGlobalQuality(quality)

	overlay, err := repository.LoadOverlay()
	if err != nil {
		logger.Warn("failed to load overlay preference", slog.Any("error", err))
		overlay = false
	}
	s.overlay = overlay

	style, err := repository.LoadStyle()
	if err != nil {
		logger.Warn("failed to load style preference", slog.Any("error", err))
		style = domain.StyleBars
	}

	ren, err := registry.CreateRenderer(style, overlay)
	if err != nil {
		// Unknown persisted style (e.g. removed in an update): start over
		// with the default.
		logger.Warn("saved style unavailable, using default",
			slog.String("style", string(style)),
			slog.Any("error", err))

		ren, err = registry.CreateRenderer(domain.StyleBars, overlay)
		if err != nil {
			return nil, err
		}
	}

	s.current = ren
	s.style = ren.Style()

	logger.Debug("visualizer service initialized",
		slog.String("style", string(s.style)),
		slog.String("quality", quality.String()),
		slog.Bool("overlay", overlay))

	return s, nil
}

// SelectStyle switches the active rendering style and persists the choice.
// If the requested backend fails, the registry substitutes the fallback and
// the published event carries the substitution flag.
func (s *VisualizerService) SelectStyle(style domain.StyleID) error {
	s.mu.Lock()

	if s.shutdown {
		s.mu.Unlock()
		return domain.ErrRendererDisposed
	}

	previous := s.style

	ren, err := s.registry.CreateRenderer(style, s.overlay)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.current = ren
	s.style = ren.Style()
	active := s.style
	s.mu.Unlock()

	substituted := active != style
	if substituted {
		s.logger.Warn("style substituted by fallback",
			slog.String("requested", string(style)),
			slog.String("active", string(active)))
	}

	// Persist the requested style, not the substitute: the backend may
	// recover on the next run.
	if err := s.repository.SaveStyle(style); err != nil {
		s.logger.Warn("failed to persist style", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewStyleChangedEvent(active, previous, substituted))

	return nil
}

// CurrentStyle returns the active style identifier.
func (s *VisualizerService) CurrentStyle() domain.StyleID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.style
}

// Styles returns the display metadata for all available styles.
func (s *VisualizerService) Styles() []domain.StyleInfo {
	return s.styles
}

// SetQuality applies a new global quality level to every renderer and
// persists it. The QualityChangedEvent is published by the registry.
func (s *VisualizerService) SetQuality(quality domain.RenderQuality) error {
	s.registry.SetGlobalQuality(quality)

	if err := s.repository.SaveQuality(quality); err != nil {
		s.logger.Warn("failed to persist quality", slog.Any("error", err))
	}

	return nil
}

// Quality returns the active global quality level.
func (s *VisualizerService) Quality() domain.RenderQuality {
	return s.registry.GlobalQuality()
}

// SetOverlay toggles overlay mode, reconfigures the active renderer and
// persists the flag.
func (s *VisualizerService) SetOverlay(active bool) error {
	s.mu.Lock()

	if s.shutdown {
		s.mu.Unlock()
		return domain.ErrRendererDisposed
	}

	s.overlay = active
	style := s.style
	s.mu.Unlock()

	// Re-request the renderer so the new overlay flag is configured in.
	ren, err := s.registry.CreateRenderer(style, active)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = ren
	s.style = ren.Style()
	s.mu.Unlock()

	if err := s.repository.SaveOverlay(active); err != nil {
		s.logger.Warn("failed to persist overlay flag", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewOverlayToggledEvent(active))

	return nil
}

// Overlay reports whether overlay mode is active.
func (s *VisualizerService) Overlay() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay
}

// RenderFrame draws the spectrum with the active renderer. Safe to call at
// frame rate; all precondition failures inside the renderer are silent no-ops.
func (s *VisualizerService) RenderFrame(target ports.Surface, spectrum []float64, width, height int) {
	s.mu.RLock()
	ren := s.current
	s.mu.RUnlock()

	if ren == nil {
		return
	}

	ren.Render(target, spectrum, width, height)

	// Per-frame event, gated so the hot path stays allocation-free when
	// nothing listens.
	if s.bus.HasSubscribers(domain.EventFrameRendered) {
		s.bus.Publish(domain.NewFrameRenderedEvent(ren.Style(), width, height))
	}
}

// ResetRenderers disposes all cached renderers and rebuilds the active one,
// used after a graphics context loss.
func (s *VisualizerService) ResetRenderers() error {
	s.registry.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return nil
	}

	ren, err := s.registry.CreateRenderer(s.style, s.overlay)
	if err != nil {
		return err
	}

	s.current = ren
	s.style = ren.Style()

	return nil
}

// Shutdown disposes all renderers and stops accepting style changes.
func (s *VisualizerService) Shutdown() error {
	s.mu.Lock()
	s.shutdown = true
	s.current = nil
	s.mu.Unlock()

	s.registry.Reset()

	s.logger.Debug("visualizer service shut down")

	return nil
}
