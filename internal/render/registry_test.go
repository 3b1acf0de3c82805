package render

import (
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/logger"
	"github.com/soundweaver/vizor/internal/testutil"
)

const (
	styleGood  = domain.StyleID("good")
	styleOther = domain.StyleID("other")
	styleBad   = domain.StyleID("bad")
)

// recordingBus captures published events; all other methods are inert.
type recordingBus struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBus) Publish(event domain.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

func (b *recordingBus) Subscribe(domain.EventType, domain.EventHandler) domain.SubscriptionID {
	return ""
}
func (b *recordingBus) Unsubscribe(domain.SubscriptionID)                   {}
func (b *recordingBus) SubscribeAll(domain.EventHandler) domain.SubscriptionID { return "" }
func (b *recordingBus) HasSubscribers(domain.EventType) bool                {
	return true
}
func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) ofType(t domain.EventType) []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []domain.Event
	for _, e := range b.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// newGoodConstructor returns a constructor whose backends always succeed.
func newGoodConstructor(style domain.StyleID) Constructor {
	return func(l *slog.Logger) (Renderer, error) {
		b := NewBase(style, l, BaseOptions{})
		return b, nil
	}
}

func newTestRegistry(t *testing.T, bus *recordingBus, extra map[domain.StyleID]Constructor) *Registry {
	t.Helper()

	table := map[domain.StyleID]Constructor{
		styleGood:  newGoodConstructor(styleGood),
		styleOther: newGoodConstructor(styleOther),
	}
	for k, v := range extra {
		table[k] = v
	}

	if bus == nil {
		return NewRegistry(logger.NewTestLogger(), nil, table, styleGood)
	}
	return NewRegistry(logger.NewTestLogger(), bus, table, styleGood)
}

func TestCreateRendererCachesSingleton(t *testing.T) {
	reg := newTestRegistry(t, nil, nil)

	first, err := reg.CreateRenderer(styleOther, false)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := reg.CreateRenderer(styleOther, true, domain.QualityHigh)
	require.NoError(t, err)

	assert.Same(t, first, second, "repeated requests must reuse the cached instance")
	assert.True(t, second.Overlay(), "configuration must be refreshed on every request")
	assert.Equal(t, domain.QualityHigh, second.Quality())
}

func TestCreateRendererUnknownStyle(t *testing.T) {
	reg := newTestRegistry(t, nil, nil)

	ren, err := reg.CreateRenderer(domain.StyleID("nope"), false)
	require.ErrorIs(t, err, domain.ErrUnknownStyle)
	assert.Nil(t, ren)
}

func TestCreateRendererPerCallQualityOverride(t *testing.T) {
	reg := newTestRegistry(t, nil, nil)
	reg.SetGlobalQuality(domain.QualityLow)

	ren, err := reg.CreateRenderer(styleGood, false, domain.QualityHigh)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityHigh, ren.Quality())

	// The override is per-call; the global level is untouched.
	assert.Equal(t, domain.QualityLow, reg.GlobalQuality())
}

func TestCreateRendererFallbackOnConstructFailure(t *testing.T) {
	bus := &recordingBus{}
	cause := errors.New("no graphics context")
	reg := newTestRegistry(t, bus, map[domain.StyleID]Constructor{
		styleBad: func(*slog.Logger) (Renderer, error) { return nil, cause },
	})

	ren, err := reg.CreateRenderer(styleBad, true, domain.QualityLow)
	require.NoError(t, err, "fallback substitution must absorb the failure")
	require.NotNil(t, ren)

	assert.Equal(t, styleGood, ren.Style())
	assert.True(t, ren.Overlay(), "substituted renderer must carry the requested configuration")
	assert.Equal(t, domain.QualityLow, ren.Quality())

	failures := bus.ofType(domain.EventRendererFailed)
	require.Len(t, failures, 1)
	failed := failures[0].(domain.RendererFailedEvent)
	assert.Equal(t, styleBad, failed.Style)
	assert.ErrorIs(t, failed.Err, cause)
}

func TestCreateRendererFallbackOnInitializeFailure(t *testing.T) {
	cause := errors.New("shader compile failed")
	reg := newTestRegistry(t, nil, map[domain.StyleID]Constructor{
		styleBad: func(l *slog.Logger) (Renderer, error) {
			return NewBase(styleBad, l, BaseOptions{OnInit: func() error { return cause }}), nil
		},
	})

	ren, err := reg.CreateRenderer(styleBad, false)
	require.NoError(t, err)
	assert.Equal(t, styleGood, ren.Style())

	// The failing style must not be cached.
	assert.Nil(t, reg.GetCachedRenderer(styleBad))
	assert.NotNil(t, reg.GetCachedRenderer(styleGood))
}

func TestCreateRendererFallbackFailureSurfaces(t *testing.T) {
	cause := errors.New("out of memory")
	table := map[domain.StyleID]Constructor{
		styleBad: func(*slog.Logger) (Renderer, error) { return nil, cause },
	}
	reg := NewRegistry(logger.NewTestLogger(), nil, table, styleBad)

	ren, err := reg.CreateRenderer(styleBad, false)
	require.Error(t, err, "a failing fallback must not trigger a second substitution")
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ren)
}

func TestSetGlobalQualityReconfiguresCached(t *testing.T) {
	bus := &recordingBus{}
	reg := newTestRegistry(t, bus, nil)

	a, err := reg.CreateRenderer(styleGood, true)
	require.NoError(t, err)
	b, err := reg.CreateRenderer(styleOther, false)
	require.NoError(t, err)

	reg.SetGlobalQuality(domain.QualityHigh)

	assert.Equal(t, domain.QualityHigh, a.Quality())
	assert.Equal(t, domain.QualityHigh, b.Quality())

	// Overlay flags survive the quality sweep.
	assert.True(t, a.Overlay())
	assert.False(t, b.Overlay())

	changes := bus.ofType(domain.EventQualityChanged)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.QualityHigh, changes[0].(domain.QualityChangedEvent).Quality)

	// New renderers pick up the new global level.
	assert.Equal(t, domain.QualityHigh, reg.GlobalQuality())
}

func TestResetDisposesAndStartsFresh(t *testing.T) {
	bus := &recordingBus{}
	reg := newTestRegistry(t, bus, nil)

	old, err := reg.CreateRenderer(styleGood, false)
	require.NoError(t, err)

	reg.Reset()

	assert.Empty(t, reg.GetAllRenderers())
	assert.Nil(t, reg.GetCachedRenderer(styleGood))

	resets := bus.ofType(domain.EventRegistryReset)
	require.Len(t, resets, 1)
	assert.Equal(t, 1, resets[0].(domain.RegistryResetEvent).Disposed)

	// The disposed instance is dead; a new request builds a fresh one.
	err = old.Configure(false, domain.QualityMedium)
	require.ErrorIs(t, err, domain.ErrRendererDisposed)

	fresh, err := reg.CreateRenderer(styleGood, false)
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	require.NoError(t, fresh.Configure(false, domain.QualityMedium))
}

func TestRegistryAccessors(t *testing.T) {
	reg := newTestRegistry(t, nil, nil)

	styles := reg.Styles()
	assert.ElementsMatch(t, []domain.StyleID{styleGood, styleOther}, styles)

	assert.Empty(t, reg.GetAllRenderers())

	_, err := reg.CreateRenderer(styleGood, false)
	require.NoError(t, err)

	all := reg.GetAllRenderers()
	require.Len(t, all, 1)
	assert.Equal(t, styleGood, all[0].Style())
}

func TestCreateRendererConcurrent(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	reg := newTestRegistry(t, nil, nil)

	const workers = 16

	results := make([]Renderer, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(idx int) {
			defer wg.Done()
			ren, err := reg.CreateRenderer(styleGood, false)
			assert.NoError(t, err)
			results[idx] = ren
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i], "all goroutines must observe the same instance")
	}
}
