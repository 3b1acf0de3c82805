// Package domain defines events for the event-driven architecture.
// Events enable loose coupling between the rendering core, the services and the UIs.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Visualizer events
	EventStyleChanged   EventType = "style.changed"
	EventQualityChanged EventType = "quality.changed"
	EventOverlayToggled EventType = "overlay.toggled"

	// Renderer lifecycle events
	EventRendererFailed EventType = "renderer.failed"
	EventRegistryReset  EventType = "registry.reset"

	// Frame events. Published per rendered frame, so producers should gate on
	// HasSubscribers to keep the hot path allocation-free.
	EventFrameRendered EventType = "frame.rendered"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// StyleChangedEvent is published when the active rendering style changes.
type StyleChangedEvent struct {
	baseEvent
	Style    StyleID
	Previous StyleID
	Fallback bool // True if the style was substituted by the fallback
}

// Type returns the event type.
func (e StyleChangedEvent) Type() EventType {
	return EventStyleChanged
}

// NewStyleChangedEvent creates a new StyleChangedEvent.
func NewStyleChangedEvent(style, previous StyleID, fallback bool) StyleChangedEvent {
	return StyleChangedEvent{
		baseEvent: newBaseEvent(),
		Style:     style,
		Previous:  previous,
		Fallback:  fallback,
	}
}

// QualityChangedEvent is published when the global render quality changes.
type QualityChangedEvent struct {
	baseEvent
	Quality RenderQuality
}

// Type returns the event type.
func (e QualityChangedEvent) Type() EventType {
	return EventQualityChanged
}

// NewQualityChangedEvent creates a new QualityChangedEvent.
func NewQualityChangedEvent(quality RenderQuality) QualityChangedEvent {
	return QualityChangedEvent{
		baseEvent: newBaseEvent(),
		Quality:   quality,
	}
}

// OverlayToggledEvent is published when overlay mode is switched on or off.
type OverlayToggledEvent struct {
	baseEvent
	Active bool
}

// Type returns the event type.
func (e OverlayToggledEvent) Type() EventType {
	return EventOverlayToggled
}

// NewOverlayToggledEvent creates a new OverlayToggledEvent.
func NewOverlayToggledEvent(active bool) OverlayToggledEvent {
	return OverlayToggledEvent{
		baseEvent: newBaseEvent(),
		Active:    active,
	}
}

// RendererFailedEvent is published when a renderer backend fails and the
// registry substitutes the fallback style.
type RendererFailedEvent struct {
	baseEvent
	Style StyleID
	Err   error
}

// Type returns the event type.
func (e RendererFailedEvent) Type() EventType {
	return EventRendererFailed
}

// NewRendererFailedEvent creates a new RendererFailedEvent.
func NewRendererFailedEvent(style StyleID, err error) RendererFailedEvent {
	return RendererFailedEvent{
		baseEvent: newBaseEvent(),
		Style:     style,
		Err:       err,
	}
}

// FrameRenderedEvent is published after a frame was drawn, for frame-rate
// meters and diagnostics overlays.
type FrameRenderedEvent struct {
	baseEvent
	Style  StyleID
	Width  int
	Height int
}

// Type returns the event type.
func (e FrameRenderedEvent) Type() EventType {
	return EventFrameRendered
}

// NewFrameRenderedEvent creates a new FrameRenderedEvent.
func NewFrameRenderedEvent(style StyleID, width, height int) FrameRenderedEvent {
	return FrameRenderedEvent{
		baseEvent: newBaseEvent(),
		Style:     style,
		Width:     width,
		Height:    height,
	}
}

// RegistryResetEvent is published after the renderer registry disposed all
// cached instances, e.g. following a graphics context loss.
type RegistryResetEvent struct {
	baseEvent
	Disposed int // Number of instances that were disposed
}

// Type returns the event type.
func (e RegistryResetEvent) Type() EventType {
	return EventRegistryReset
}

// NewRegistryResetEvent creates a new RegistryResetEvent.
func NewRegistryResetEvent(disposed int) RegistryResetEvent {
	return RegistryResetEvent{
		baseEvent: newBaseEvent(),
		Disposed:  disposed,
	}
}
