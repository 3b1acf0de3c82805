// Package mock provides a mock implementation of the SpectrumSource interface.
// This is used for testing services without a running analysis pipeline.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

// Source is a mock implementation of the SpectrumSource interface.
// It serves a fixed frame that tests can swap at any time.
//
// Thread-safety: This implementation is thread-safe.
type Source struct {
	mu     sync.RWMutex
	frame  []float64
	bins   int
	rate   int
	closed bool

	// Behavior configuration (for testing error scenarios)
	failFrame error
}

// NewSource creates a mock source serving the given frame.
// FFTBins is derived from the frame length.
func NewSource(frame []float64) *Source {
	return &Source{
		frame: append([]float64(nil), frame...),
		bins:  len(frame),
		rate:  44100,
	}
}

// SetFrame replaces the frame served by subsequent Frame calls.
func (s *Source) SetFrame(frame []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = append([]float64(nil), frame...)
}

// SetFrameError configures Frame to fail with the given error (for testing).
func (s *Source) SetFrameError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFrame = err
}

// Frame returns the configured magnitude spectrum.
func (s *Source) Frame() ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.ErrSourceClosed
	}
	if s.failFrame != nil {
		return nil, s.failFrame
	}

	return s.frame, nil
}

// Stream produces the configured frame once per interval until ctx is
// cancelled or the source is closed.
func (s *Source) Stream(ctx context.Context, interval time.Duration) <-chan []float64 {
	out := make(chan []float64)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				frame, err := s.Frame()
				if err != nil {
					return
				}
				select {
				case out <- frame:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// FFTBins returns the number of magnitude bins per frame.
func (s *Source) FFTBins() int {
	return s.bins
}

// SampleRate returns the simulated sample rate.
func (s *Source) SampleRate() int {
	return s.rate
}

// Close shuts the source down. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Verify interface implementation
var _ ports.SpectrumSource = (*Source)(nil)
