package render

import (
	"log/slog"
	"sync"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
	"github.com/soundweaver/vizor/internal/spectrum"
)

// lifecycleState tracks where a renderer is in its state machine.
type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateInitialized
	stateConfigured
	stateDisposed
)

// Smoothing factors: the weight of the incoming frame in the exponential
// moving average. Overlay surfaces are transparent and redraw artifacts show
// through, so overlay mode keeps more of the previous frame.
const (
	smoothingNormal  = 0.55
	smoothingOverlay = 0.3
)

// defaultBarCount is used when a style doesn't request its own bar count.
const defaultBarCount = 64

// DrawFunc is the style-specific drawing routine. It receives the
// display-ready bar values and the concrete fidelity flags; everything else
// (lifecycle, smoothing, precondition checks) is handled by Base.
type DrawFunc func(target ports.Surface, bars []float64, width, height int, settings domain.QualitySettings)

// BaseOptions configure a Base for one concrete style.
type BaseOptions struct {
	// BarCount is the number of display bars the style wants; 0 selects the
	// default of 64.
	BarCount int

	// Draw is the style's drawing routine. Required.
	Draw DrawFunc

	// OnInit runs once during Initialize, for styles that precompute state
	// (palettes, particle fields). Optional.
	OnInit func() error

	// OnDispose runs once during Dispose. Optional.
	OnDispose func()
}

// Base provides the common lifecycle and pipeline plumbing for all rendering
// styles. It is designed to be embedded in concrete backends, which supply
// their drawing routine and optional init/dispose hooks.
type Base struct {
	style    domain.StyleID
	logger   *slog.Logger
	proc     *spectrum.Processor
	barCount int

	draw      DrawFunc
	onInit    func() error
	onDispose func()

	mu       sync.Mutex
	state    lifecycleState
	overlay  bool
	quality  domain.RenderQuality
	settings domain.QualitySettings
	factor   float64
}

// NewBase creates the shared core of a renderer backend.
func NewBase(style domain.StyleID, logger *slog.Logger, opts BaseOptions) *Base {
	barCount := opts.BarCount
	if barCount <= 0 {
		barCount = defaultBarCount
	}

	return &Base{
		style:     style,
		logger:    logger,
		proc:      spectrum.NewProcessor(logger),
		barCount:  barCount,
		draw:      opts.Draw,
		onInit:    opts.OnInit,
		onDispose: opts.OnDispose,
		quality:   domain.QualityMedium,
		settings:  SettingsFor(domain.QualityMedium),
		factor:    smoothingNormal,
	}
}

// Style returns the style identifier this backend renders.
func (b *Base) Style() domain.StyleID {
	return b.style
}

// BarCount returns the number of display bars the style renders.
func (b *Base) BarCount() int {
	return b.barCount
}

// Initialize moves the renderer to the Initialized state. Idempotent: second
// and later calls are no-ops.
func (b *Base) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateDisposed:
		return domain.NewRendererError(b.style, "initialize", domain.ErrRendererDisposed)
	case stateInitialized, stateConfigured:
		return nil
	}

	if b.onInit != nil {
		if err := b.onInit(); err != nil {
			return domain.NewRendererError(b.style, "initialize", err)
		}
	}

	b.state = stateInitialized
	b.logger.Debug("renderer initialized", slog.String("style", string(b.style)))

	return nil
}

// Configure sets the overlay flag and applies the quality policy.
func (b *Base) Configure(overlayActive bool, quality domain.RenderQuality) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateDisposed:
		return domain.NewRendererError(b.style, "configure", domain.ErrRendererDisposed)
	case stateUninitialized:
		return domain.NewRendererError(b.style, "configure", domain.ErrNotInitialized)
	}

	b.overlay = overlayActive
	b.quality = quality
	b.settings = SettingsFor(quality)
	if overlayActive {
		b.factor = smoothingOverlay
	} else {
		b.factor = smoothingNormal
	}
	b.state = stateConfigured

	return nil
}

// Render scales and smooths the spectrum, then hands the result to the
// style's drawing routine. Precondition failures are silent no-ops with a
// diagnostic log; Render never faults.
func (b *Base) Render(target ports.Surface, spectrum []float64, width, height int) {
	b.mu.Lock()
	state := b.state
	factor := b.factor
	settings := b.settings
	b.mu.Unlock()

	// Disposed first: Dispose may race an in-flight caller.
	if state == stateDisposed {
		b.logger.Debug("render skipped: renderer disposed", slog.String("style", string(b.style)))
		return
	}
	if state != stateConfigured {
		b.logger.Debug("render skipped: renderer not configured", slog.String("style", string(b.style)))
		return
	}
	if target == nil || target.Disposed() {
		b.logger.Debug("render skipped: invalid surface", slog.String("style", string(b.style)))
		return
	}
	if width <= 0 || height <= 0 {
		b.logger.Debug("render skipped: empty viewport",
			slog.String("style", string(b.style)),
			slog.Int("width", width),
			slog.Int("height", height))
		return
	}

	bars := b.proc.Prepare(spectrum, b.barCount, factor)

	b.draw(target, bars, width, height, settings)
}

// Quality returns the active quality level.
func (b *Base) Quality() domain.RenderQuality {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quality
}

// SetQuality re-applies the quality policy for the new level without touching
// the overlay flag or the lifecycle state.
func (b *Base) SetQuality(quality domain.RenderQuality) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateDisposed {
		b.logger.Debug("quality change ignored: renderer disposed", slog.String("style", string(b.style)))
		return
	}

	b.quality = quality
	b.settings = SettingsFor(quality)
}

// Overlay reports whether overlay mode is active.
func (b *Base) Overlay() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlay
}

// Dispose releases resources exactly once and moves to the terminal state.
func (b *Base) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateDisposed {
		return
	}
	b.state = stateDisposed

	if b.onDispose != nil {
		b.onDispose()
	}
	b.proc.Reset()

	b.logger.Debug("renderer disposed", slog.String("style", string(b.style)))
}
