package render

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

// Registry caches at most one live renderer per style and manages their
// lifecycle: lazy construction, one-time initialization, per-request
// configuration, global quality propagation and fallback substitution.
//
// The cache is published as an immutable snapshot map, so the common path
// (style already cached) is lock-free; a single mutex serializes writes.
//
// A Registry is an explicitly constructed service, not process-global state:
// tests create their own with their own style tables.
type Registry struct {
	logger *slog.Logger
	bus    ports.EventBus // optional; nil disables event publication

	table    map[domain.StyleID]Constructor
	fallback domain.StyleID

	// cache holds immutable map[domain.StyleID]Renderer snapshots.
	cache atomic.Value

	// quality is the global quality level applied to new renderers.
	quality atomic.Int32

	// mu guards cache writes and the initialized set.
	mu sync.Mutex

	// initialized tracks which styles have run Initialize in the current
	// registry generation. Reset clears it so re-created renderers
	// initialize again.
	initialized map[domain.StyleID]bool
}

// NewRegistry creates a registry over the given style table.
// The fallback style must be present in the table and guaranteed to
// construct, initialize and configure successfully; it is substituted
// whenever another style's backend fails.
func NewRegistry(logger *slog.Logger, bus ports.EventBus, table map[domain.StyleID]Constructor, fallback domain.StyleID) *Registry {
	r := &Registry{
		logger:      logger,
		bus:         bus,
		table:       table,
		fallback:    fallback,
		initialized: make(map[domain.StyleID]bool),
	}
	r.cache.Store(map[domain.StyleID]Renderer{})
	r.quality.Store(int32(domain.QualityMedium))

	return r
}

// CreateRenderer returns a ready-to-draw renderer for the style: cached if
// available, newly built otherwise. Configure runs on every call so the
// overlay flag and quality are always current.
//
// The optional quality argument overrides the registry's global quality for
// this call; it does not change the global level.
//
// Any construction, initialization or configuration failure is absorbed by
// substituting the fallback style; only an unknown style identifier is
// returned as an error.
func (r *Registry) CreateRenderer(style domain.StyleID, overlayActive bool, quality ...domain.RenderQuality) (Renderer, error) {
	q := r.GlobalQuality()
	if len(quality) > 0 {
		q = quality[0]
	}

	// Optimistic fast path: no lock when the style is already cached and
	// reconfigures cleanly.
	if ren, ok := r.snapshot()[style]; ok {
		if err := ren.Configure(overlayActive, q); err == nil {
			return ren, nil
		}
		// Fall through to the slow path, which handles the failure under
		// the lock.
	}

	return r.createSlow(style, overlayActive, q)
}

// createSlow is the locked path: double-checks the cache, builds the backend
// if still absent, and substitutes the fallback on any failure.
func (r *Registry) createSlow(style domain.StyleID, overlayActive bool, quality domain.RenderQuality) (Renderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.table[style]; !known {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStyle, style)
	}

	// Re-check under the lock: another caller may have built the renderer
	// between the fast path and here.
	if ren, ok := r.snapshot()[style]; ok {
		err := ren.Configure(overlayActive, quality)
		if err == nil {
			return ren, nil
		}
		// The instance stays cached so the next request can retry it; this
		// call gets the fallback.
		return r.substituteLocked(style, overlayActive, quality, err)
	}

	ren, err := r.buildLocked(style, overlayActive, quality)
	if err != nil {
		return r.substituteLocked(style, overlayActive, quality, err)
	}

	return ren, nil
}

// buildLocked constructs, initializes, configures and caches a backend.
// Caller must hold mu.
func (r *Registry) buildLocked(style domain.StyleID, overlayActive bool, quality domain.RenderQuality) (Renderer, error) {
	ctor := r.table[style]

	ren, err := ctor(r.logger.With(slog.String("style", string(style))))
	if err != nil {
		return nil, domain.NewRendererError(style, "construct", err)
	}

	// Every fresh instance must pass through Initialized before Configure;
	// Initialize is idempotent per instance. The initialized set records the
	// first initialization per style per registry generation and is cleared
	// by Reset, so re-created renderers never skip setup.
	if err := ren.Initialize(); err != nil {
		return nil, err
	}
	if !r.initialized[style] {
		r.initialized[style] = true
		r.logger.Debug("style initialized this generation", slog.String("style", string(style)))
	}

	if err := ren.Configure(overlayActive, quality); err != nil {
		return nil, err
	}

	r.insertLocked(style, ren)
	r.logger.Debug("renderer created",
		slog.String("style", string(style)),
		slog.String("quality", quality.String()))

	return ren, nil
}

// substituteLocked absorbs a backend failure by handing out the fallback
// style instead. At most one substitution happens per request: if the
// fallback itself is the failing style, the original error surfaces.
// Caller must hold mu.
func (r *Registry) substituteLocked(failed domain.StyleID, overlayActive bool, quality domain.RenderQuality, cause error) (Renderer, error) {
	r.logger.Error("renderer failed, substituting fallback",
		slog.String("style", string(failed)),
		slog.String("fallback", string(r.fallback)),
		slog.Any("error", cause))

	if r.bus != nil {
		r.bus.Publish(domain.NewRendererFailedEvent(failed, cause))
	}

	if failed == r.fallback {
		return nil, cause
	}

	if ren, ok := r.snapshot()[r.fallback]; ok {
		if err := ren.Configure(overlayActive, quality); err != nil {
			return nil, err
		}
		return ren, nil
	}

	return r.buildLocked(r.fallback, overlayActive, quality)
}

// GlobalQuality returns the quality level applied to new renderers.
func (r *Registry) GlobalQuality() domain.RenderQuality {
	return domain.RenderQuality(r.quality.Load())
}

// SetGlobalQuality changes the global quality and reconfigures every cached
// renderer with it before returning, preserving each one's overlay flag.
// Per-entry failures are logged and skipped; the setter itself never fails.
func (r *Registry) SetGlobalQuality(quality domain.RenderQuality) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.quality.Store(int32(quality))

	for style, ren := range r.snapshot() {
		if err := ren.Configure(ren.Overlay(), quality); err != nil {
			// One style's failure must not block the rest.
			r.logger.Warn("quality change failed for cached renderer",
				slog.String("style", string(style)),
				slog.Any("error", err))
		}
	}

	if r.bus != nil {
		r.bus.Publish(domain.NewQualityChangedEvent(quality))
	}
}

// Reset disposes every cached renderer, clears the cache and the
// initialized set, and starts a new registry generation. Used after a
// graphics context loss.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.snapshot()
	for style, ren := range entries {
		ren.Dispose()
		r.logger.Debug("renderer disposed by reset", slog.String("style", string(style)))
	}

	r.cache.Store(map[domain.StyleID]Renderer{})
	r.initialized = make(map[domain.StyleID]bool)

	if r.bus != nil {
		r.bus.Publish(domain.NewRegistryResetEvent(len(entries)))
	}
}

// GetAllRenderers returns the currently cached renderers.
// The result is a copy; mutating it does not affect the registry.
func (r *Registry) GetAllRenderers() []Renderer {
	entries := r.snapshot()

	renderers := make([]Renderer, 0, len(entries))
	for _, ren := range entries {
		renderers = append(renderers, ren)
	}
	return renderers
}

// GetCachedRenderer returns the cached renderer for the style, or nil when
// nothing is cached. It never builds.
func (r *Registry) GetCachedRenderer(style domain.StyleID) Renderer {
	return r.snapshot()[style]
}

// Styles returns the identifiers of all registered styles.
func (r *Registry) Styles() []domain.StyleID {
	styles := make([]domain.StyleID, 0, len(r.table))
	for style := range r.table {
		styles = append(styles, style)
	}
	return styles
}

// snapshot returns the current immutable cache map.
func (r *Registry) snapshot() map[domain.StyleID]Renderer {
	m, _ := r.cache.Load().(map[domain.StyleID]Renderer)
	return m
}

// insertLocked publishes a new cache snapshot containing the renderer.
// Caller must hold mu.
func (r *Registry) insertLocked(style domain.StyleID, ren Renderer) {
	old := r.snapshot()

	next := make(map[domain.StyleID]Renderer, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[style] = ren

	r.cache.Store(next)
}
