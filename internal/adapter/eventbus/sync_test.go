package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/logger"
)

func newBus() *SyncEventBus {
	return NewSyncEventBus(logger.NewTestLogger())
}

// TestNewSyncEventBus tests event bus creation.
func TestNewSyncEventBus(t *testing.T) {
	bus := newBus()

	if bus == nil {
		t.Fatal("NewSyncEventBus returned nil")
	}

	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", bus.SubscriberCount())
	}

	if bus.closed {
		t.Error("New event bus should not be closed")
	}
}

// TestPublishSubscribe tests basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var received domain.Event
	var callCount int

	handler := func(event domain.Event) {
		received = event
		callCount++
	}

	subID := bus.Subscribe(domain.EventStyleChanged, handler)

	if subID == "" {
		t.Fatal("Subscribe returned empty subscription ID")
	}

	event := domain.NewStyleChangedEvent(domain.StylePlasma, domain.StyleBars, false)
	bus.Publish(event)

	if callCount != 1 {
		t.Errorf("Expected handler to be called once, got %d", callCount)
	}

	if received == nil {
		t.Fatal("Handler did not receive event")
	}

	if received.Type() != domain.EventStyleChanged {
		t.Errorf("Expected EventStyleChanged, got %s", received.Type())
	}

	receivedEvent := received.(domain.StyleChangedEvent)
	if receivedEvent.Style != domain.StylePlasma {
		t.Errorf("Expected style %s, got %s", domain.StylePlasma, receivedEvent.Style)
	}
	if receivedEvent.Previous != domain.StyleBars {
		t.Errorf("Expected previous style %s, got %s", domain.StyleBars, receivedEvent.Previous)
	}
}

// TestMultipleSubscribers tests multiple handlers for the same event type.
func TestMultipleSubscribers(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var callCount1, callCount2, callCount3 int32

	bus.Subscribe(domain.EventQualityChanged, func(domain.Event) {
		atomic.AddInt32(&callCount1, 1)
	})
	bus.Subscribe(domain.EventQualityChanged, func(domain.Event) {
		atomic.AddInt32(&callCount2, 1)
	})
	bus.Subscribe(domain.EventQualityChanged, func(domain.Event) {
		atomic.AddInt32(&callCount3, 1)
	})

	bus.Publish(domain.NewQualityChangedEvent(domain.QualityHigh))

	if atomic.LoadInt32(&callCount1) != 1 {
		t.Errorf("Handler 1: expected 1 call, got %d", callCount1)
	}
	if atomic.LoadInt32(&callCount2) != 1 {
		t.Errorf("Handler 2: expected 1 call, got %d", callCount2)
	}
	if atomic.LoadInt32(&callCount3) != 1 {
		t.Errorf("Handler 3: expected 1 call, got %d", callCount3)
	}
}

// TestUnsubscribe tests unsubscribing handlers.
func TestUnsubscribe(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var callCount int32

	subID := bus.Subscribe(domain.EventOverlayToggled, func(domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	bus.Publish(domain.NewOverlayToggledEvent(true))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected 1 call before unsubscribe, got %d", callCount)
	}

	bus.Unsubscribe(subID)

	bus.Publish(domain.NewOverlayToggledEvent(false))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected 1 call after unsubscribe, got %d", callCount)
	}
}

// TestUnsubscribeInvalidID tests unsubscribing with invalid ID (should be no-op).
func TestUnsubscribeInvalidID(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	// Should not panic
	bus.Unsubscribe("invalid-id")
	bus.Unsubscribe("")
}

// TestSubscribeAll tests wildcard subscriptions.
func TestSubscribeAll(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var receivedEvents []domain.Event
	var mu sync.Mutex

	bus.SubscribeAll(func(event domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		receivedEvents = append(receivedEvents, event)
	})

	bus.Publish(domain.NewStyleChangedEvent(domain.StyleTunnel, domain.StyleBars, false))
	bus.Publish(domain.NewQualityChangedEvent(domain.QualityLow))
	bus.Publish(domain.NewOverlayToggledEvent(true))

	mu.Lock()
	defer mu.Unlock()

	if len(receivedEvents) != 3 {
		t.Errorf("Expected 3 events, got %d", len(receivedEvents))
	}
}

// TestHasSubscribers tests the HasSubscribers method.
func TestHasSubscribers(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	if bus.HasSubscribers(domain.EventStyleChanged) {
		t.Error("Expected no subscribers initially")
	}

	bus.Subscribe(domain.EventStyleChanged, func(domain.Event) {})

	if !bus.HasSubscribers(domain.EventStyleChanged) {
		t.Error("Expected subscribers after subscription")
	}

	if bus.HasSubscribers(domain.EventRendererFailed) {
		t.Error("Expected no subscribers for different event type")
	}
}

// TestHasSubscribersWithWildcard tests HasSubscribers with wildcard subscriptions.
func TestHasSubscribersWithWildcard(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	bus.SubscribeAll(func(domain.Event) {})

	if !bus.HasSubscribers(domain.EventStyleChanged) {
		t.Error("Expected subscribers (wildcard) for EventStyleChanged")
	}

	if !bus.HasSubscribers(domain.EventRegistryReset) {
		t.Error("Expected subscribers (wildcard) for EventRegistryReset")
	}
}

// TestHandlerPanic tests that panicking handlers don't crash the bus.
func TestHandlerPanic(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var callCount int32

	bus.Subscribe(domain.EventStyleChanged, func(domain.Event) {
		panic("test panic")
	})
	bus.Subscribe(domain.EventStyleChanged, func(domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	bus.Publish(domain.NewStyleChangedEvent(domain.StyleRadial, domain.StyleBars, false))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected normal handler to be called despite panic, got %d calls", callCount)
	}
}

// TestClose tests closing the event bus.
func TestClose(t *testing.T) {
	bus := newBus()

	handler := func(domain.Event) {}
	bus.Subscribe(domain.EventStyleChanged, handler)
	bus.SubscribeAll(handler)

	if bus.SubscriberCount() == 0 {
		t.Error("Expected subscribers before close")
	}

	err := bus.Close()
	if err != nil {
		t.Errorf("Close returned error: %v", err)
	}

	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after close, got %d", bus.SubscriberCount())
	}

	// Publishing should be a no-op (shouldn't panic)
	bus.Publish(domain.NewOverlayToggledEvent(true))

	err = bus.Close()
	if err == nil {
		t.Error("Expected error when closing already closed bus")
	}
}

// TestConcurrentPublish tests concurrent event publishing (race condition test).
func TestConcurrentPublish(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var eventCount int32

	bus.Subscribe(domain.EventQualityChanged, func(domain.Event) {
		atomic.AddInt32(&eventCount, 1)
	})

	const numGoroutines = 10
	const eventsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				bus.Publish(domain.NewQualityChangedEvent(domain.QualityMedium))
			}
		}()
	}

	wg.Wait()

	expectedCount := int32(numGoroutines * eventsPerGoroutine)
	if atomic.LoadInt32(&eventCount) != expectedCount {
		t.Errorf("Expected %d events, got %d", expectedCount, eventCount)
	}
}

// TestConcurrentSubscribe tests concurrent subscriptions (race condition test).
func TestConcurrentSubscribe(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	const numGoroutines = 10
	const subscriptionsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	handler := func(domain.Event) {}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < subscriptionsPerGoroutine; j++ {
				bus.Subscribe(domain.EventStyleChanged, handler)
			}
		}()
	}

	wg.Wait()

	expectedCount := numGoroutines * subscriptionsPerGoroutine
	if bus.SubscriberCount() != expectedCount {
		t.Errorf("Expected %d subscribers, got %d", expectedCount, bus.SubscriberCount())
	}
}

// TestConcurrentPublishAndSubscribe tests concurrent publishing and subscribing.
func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var eventCount int32

	handler := func(domain.Event) {
		atomic.AddInt32(&eventCount, 1)
	}

	const numPublishers = 5
	const numSubscribers = 5
	const eventsPerPublisher = 50

	var wg sync.WaitGroup
	wg.Add(numPublishers + numSubscribers)

	for i := 0; i < numPublishers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerPublisher; j++ {
				bus.Publish(domain.NewOverlayToggledEvent(true))
				time.Sleep(time.Microsecond) // Small delay to allow interleaving
			}
		}()
	}

	for i := 0; i < numSubscribers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				bus.Subscribe(domain.EventOverlayToggled, handler)
				time.Sleep(time.Microsecond)
			}
		}()
	}

	wg.Wait()

	if atomic.LoadInt32(&eventCount) == 0 {
		t.Error("Expected to receive some events")
	}
}

// TestNilEvent tests publishing nil event (should be no-op).
func TestNilEvent(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var callCount int32

	bus.Subscribe(domain.EventStyleChanged, func(domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	bus.Publish(nil)

	if atomic.LoadInt32(&callCount) != 0 {
		t.Errorf("Handler should not be called for nil event, got %d calls", callCount)
	}
}

// TestNilHandler tests that subscribing with nil handler panics.
func TestNilHandler(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when subscribing with nil handler")
		}
	}()

	bus.Subscribe(domain.EventStyleChanged, nil)
}
