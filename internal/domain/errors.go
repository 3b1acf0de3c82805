// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that the rendering core can return.
var (
	// ErrUnknownStyle is returned when a style identifier has no registered constructor.
	// This is the only failure CreateRenderer surfaces to the caller.
	ErrUnknownStyle = errors.New("unknown rendering style")

	// ErrRendererDisposed is returned when an operation is attempted on a disposed renderer.
	ErrRendererDisposed = errors.New("renderer already disposed")

	// ErrNotInitialized is returned when Configure is attempted before Initialize.
	ErrNotInitialized = errors.New("renderer not initialized")

	// ErrNotConfigured is returned when Render is attempted before Configure.
	ErrNotConfigured = errors.New("renderer not configured")

	// ErrNilSurface is returned when a drawing operation receives no surface.
	ErrNilSurface = errors.New("drawing surface is nil")

	// ErrSurfaceDisposed is returned when a drawing operation receives a disposed surface.
	ErrSurfaceDisposed = errors.New("drawing surface already disposed")

	// ErrSourceClosed is returned when a spectrum source has been shut down.
	ErrSourceClosed = errors.New("spectrum source closed")
)

// RendererError wraps a failure from a renderer backend with the style and
// operation that produced it.
type RendererError struct {
	Style StyleID // Style whose backend failed
	Op    string  // Operation that failed (e.g., "construct", "initialize", "configure")
	Err   error   // Underlying error
}

// Error implements the error interface.
func (e *RendererError) Error() string {
	return fmt.Sprintf("renderer %s.%s failed: %v", e.Style, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RendererError) Unwrap() error {
	return e.Err
}

// NewRendererError creates a new RendererError.
func NewRendererError(style StyleID, op string, err error) *RendererError {
	return &RendererError{
		Style: style,
		Op:    op,
		Err:   err,
	}
}
