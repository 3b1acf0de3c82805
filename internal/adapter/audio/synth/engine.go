// Package synth provides a synthetic SpectrumSource that generates its frames
// from a signal generator and a real FFT. It stands in for a live capture
// pipeline: demos and the terminal preview run against it without any audio
// hardware.
package synth

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

const (
	defaultBins = 256
	sampleRate  = 44100
)

// partial is one sine component of the synthesized signal.
type partial struct {
	freq  float64 // Hz
	amp   float64
	drift float64 // Hz of slow frequency wobble
}

// Engine synthesizes a moving multi-tone signal and serves its windowed FFT
// magnitude spectrum. Successive frames evolve smoothly, which makes the
// animation of every rendering style visible without real audio.
//
// Thread-safety: Frame may be called concurrently with Stream consumers.
type Engine struct {
	logger *slog.Logger
	bins   int

	mu       sync.Mutex
	clock    float64
	win      []float64
	partials []partial
	closed   bool
}

// NewEngine creates a synthetic source. The optional bins argument sets the
// number of magnitude bins per frame; it defaults to 256.
func NewEngine(logger *slog.Logger, bins ...int) *Engine {
	n := defaultBins
	if len(bins) > 0 && bins[0] > 0 {
		n = bins[0]
	}

	e := &Engine{
		logger: logger,
		bins:   n,
		win:    window.Hann(2 * n),
		partials: []partial{
			{freq: 55, amp: 1.0, drift: 4},      // bass fundamental
			{freq: 110, amp: 0.7, drift: 9},     // first harmonic
			{freq: 440, amp: 0.5, drift: 80},    // mid tone
			{freq: 1320, amp: 0.35, drift: 200}, // upper mid
			{freq: 5200, amp: 0.2, drift: 900},  // highs
		},
	}

	logger.Debug("synthetic spectrum source created",
		slog.Int("bins", n),
		slog.Int("sample_rate", sampleRate))

	return e
}

// Frame synthesizes one block, windows it and returns the normalized
// magnitude spectrum.
func (e *Engine) Frame() ([]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, domain.ErrSourceClosed
	}

	blockSize := 2 * e.bins
	block := make([]float64, blockSize)

	// Low-frequency envelopes give the frame a beat-like pulse.
	pulse := 0.6 + 0.4*math.Sin(e.clock*2*math.Pi*0.9)

	for i := 0; i < blockSize; i++ {
		t := e.clock + float64(i)/sampleRate

		var sample float64
		for _, p := range e.partials {
			f := p.freq + p.drift*math.Sin(t*2*math.Pi*0.23)
			sample += p.amp * math.Sin(2*math.Pi*f*t)
		}

		block[i] = sample * pulse * e.win[i]
	}

	// Advance by one block so successive frames evolve.
	e.clock += float64(blockSize) / sampleRate

	spectrum := fft.FFTReal(block)

	// Magnitudes of the positive-frequency bins, DC dropped.
	frame := make([]float64, e.bins)
	for i := 0; i < e.bins; i++ {
		frame[i] = cmplxAbs(spectrum[i+1])
	}

	// Normalize to [0,1]; a silent block stays all-zero.
	if peak := floats.Max(frame); peak > 0 {
		floats.Scale(1/peak, frame)
	}

	return frame, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// Stream produces one frame per interval until ctx is cancelled or the
// engine is closed. The channel is closed on exit.
func (e *Engine) Stream(ctx context.Context, interval time.Duration) <-chan []float64 {
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
				frame, err := e.Frame()
				if err != nil {
					e.logger.Debug("spectrum stream stopped", slog.Any("error", err))
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
func (e *Engine) FFTBins() int {
	return e.bins
}

// SampleRate returns the sample rate of the synthesized signal.
func (e *Engine) SampleRate() int {
	return sampleRate
}

// Close shuts the engine down. Idempotent; in-flight Stream goroutines exit
// on their next tick.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Verify interface implementation
var _ ports.SpectrumSource = (*Engine)(nil)
