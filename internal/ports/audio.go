// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"context"
	"time"
)

// SpectrumSource is the interface for upstream spectrum producers.
// This abstracts the audio capture and FFT analysis stage: the core consumes
// magnitude frames and never sees raw audio.
//
// Implementations must be thread-safe as frames may be pulled from a render
// goroutine while the producer refills its buffers.
type SpectrumSource interface {
	// Frame returns the most recent magnitude spectrum.
	// The returned slice has FFTBins() elements with non-negative values and
	// must not be retained past the next call; callers copy if they need to.
	//
	// Returns domain.ErrSourceClosed after Close.
	Frame() ([]float64, error)

	// Stream produces one frame per interval on the returned channel until
	// ctx is cancelled or the source is closed. The channel is closed on exit.
	Stream(ctx context.Context, interval time.Duration) <-chan []float64

	// FFTBins returns the number of magnitude bins per frame.
	FFTBins() int

	// SampleRate returns the sample rate in Hz of the analyzed audio.
	SampleRate() int

	// Close shuts the source down and releases its resources.
	// Close is idempotent.
	Close() error
}
