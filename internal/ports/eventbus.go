// Package ports define the EventBus interface for event-driven communication.
// The event bus replaces callbacks and enables loose coupling between components.
package ports

import (
	"github.com/soundweaver/vizor/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// The event bus decouples event producers (the registry and services) from
// event consumers (UI frontends, logging). Multiple subscribers can listen to
// the same event, and subscribers don't know about publishers.
//
// Thread-safety: Implementations must be thread-safe as events may be published
// and subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In service: Publish an event
//	bus.Publish(domain.NewStyleChangedEvent(style, previous, false))
//
//	// In UI frontend: Subscribe to events
//	subID := bus.Subscribe(domain.EventStyleChanged, func(event domain.Event) {
//	    e := event.(domain.StyleChangedEvent)
//	    window.SetTitleForStyle(e.Style)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// Handlers run synchronously in subscription order, so they must be quick
	// or dispatch to a background goroutine themselves.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The same handler can be registered multiple times, resulting in multiple
	// calls. Each subscription gets a unique SubscriptionID.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// This is useful for logging, debugging, or analytics.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the
	// given event type. This can be used to avoid expensive event construction
	// if no one is listening.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	// After calling Close, no more events should be published or subscribed.
	Close() error
}
