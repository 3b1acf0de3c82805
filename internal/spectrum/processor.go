// Package spectrum implements the real-time spectrum data pipeline.
// Raw FFT magnitude frames are reduced to a fixed bar count by block
// averaging, then exponentially smoothed against the previous frame so the
// rendered bars move without jitter.
package spectrum

import (
	"log/slog"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

const (
	// parallelThreshold is the bar count at or above which block means are
	// computed concurrently. Each block is independent, so the work splits
	// cleanly; below the threshold dispatch overhead outweighs the win.
	parallelThreshold = 32

	// chunkWidth is the fixed step of the smoothing loop. Every index updates
	// independently, so the chunked loop plus scalar tail produces results
	// bit-identical to a plain scalar loop.
	chunkWidth = 4
)

// Scale reduces a raw spectrum to targetCount bars by block averaging.
//
// The source range [0, sourceLength) is partitioned into targetCount
// contiguous blocks of real-valued width sourceLength/targetCount; bar i is
// the arithmetic mean of its block. Block boundaries are clamped to the
// source, so no out-of-bounds reads occur. An empty block (possible when
// targetCount exceeds sourceLength) replicates the nearest source bin.
//
// A nil or empty spectrum yields a zero-filled slice of the requested length.
// Scale is pure: identical inputs produce identical outputs.
func Scale(spectrum []float64, targetCount, sourceLength int) []float64 {
	if targetCount <= 0 {
		return nil
	}

	out := make([]float64, targetCount)

	if sourceLength > len(spectrum) {
		sourceLength = len(spectrum)
	}
	if sourceLength <= 0 {
		return out
	}

	blockSize := float64(sourceLength) / float64(targetCount)

	if targetCount >= parallelThreshold {
		scaleParallel(out, spectrum, sourceLength, blockSize)
	} else {
		for i := range out {
			out[i] = blockMean(spectrum, i, sourceLength, blockSize)
		}
	}

	return out
}

// scaleParallel computes the per-block means as independent work items.
// Workers write disjoint indices of out, so no synchronization beyond the
// final WaitGroup is needed.
func scaleParallel(out, spectrum []float64, sourceLength int, blockSize float64) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(out) {
		workers = len(out)
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(out); i += workers {
				out[i] = blockMean(spectrum, i, sourceLength, blockSize)
			}
		}(w)
	}

	wg.Wait()
}

// blockMean averages block i of the spectrum. The end index is clamped to the
// source length; an empty block replicates the nearest bin instead of
// averaging nothing.
func blockMean(spectrum []float64, i, sourceLength int, blockSize float64) float64 {
	start := int(float64(i) * blockSize)
	end := int(float64(i+1) * blockSize)
	if end > sourceLength {
		end = sourceLength
	}

	if start >= end {
		idx := start
		if idx >= sourceLength {
			idx = sourceLength - 1
		}
		return spectrum[idx]
	}

	return floats.Sum(spectrum[start:end]) / float64(end-start)
}

// Processor carries the smoothing history for one renderer instance and
// combines scaling and smoothing behind a non-blocking concurrency gate.
//
// Prepare follows a stale-read-allowed, at-most-one-writer policy: when a
// second caller arrives while a recompute is in flight, it receives the last
// committed result instead of blocking. This favors consistent frame pacing
// over freshness.
type Processor struct {
	logger *slog.Logger

	// busy is the single-slot recompute gate. Only its holder may touch the
	// previous-frame buffer.
	busy sync.Mutex

	// mu guards publication of the committed result so readers never observe
	// a partially written slice.
	mu        sync.RWMutex
	committed []float64

	// previous holds the prior frame's smoothed values. Accessed only while
	// holding busy.
	previous []float64
}

// NewProcessor creates a processor with an empty smoothing history.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		logger: logger,
	}
}

// Prepare transforms one raw spectrum into a display-ready bar slice:
// Scale followed by Smooth, gated so that at most one caller recomputes at a
// time. On contention the last committed result is returned unchanged; before
// the first commit that is a zero-filled slice of the requested length.
//
// The returned slice is never mutated afterwards and must be treated as
// read-only by callers.
func (p *Processor) Prepare(spectrum []float64, targetCount int, factor float64) []float64 {
	if targetCount <= 0 {
		return nil
	}

	if !p.busy.TryLock() {
		// Another caller is recomputing for this instance; serve the last
		// committed frame rather than stalling.
		return p.lastCommitted(targetCount)
	}
	defer p.busy.Unlock()

	scaled := Scale(spectrum, targetCount, len(spectrum))
	smoothed := p.smoothLocked(scaled, factor)

	p.mu.Lock()
	p.committed = smoothed
	p.mu.Unlock()

	return smoothed
}

// Smooth exponentially smooths a scaled frame against the previous frame:
//
//	smoothed[i] = previous[i]*(1-factor) + scaled[i]*factor
//
// and commits smoothed as the new previous frame. If the history buffer is
// missing or the wrong length it is reallocated zero-filled, producing a
// one-frame ramp-up from zero rather than an error.
//
// Unlike Prepare, Smooth waits for an in-flight recompute instead of serving
// a stale result.
func (p *Processor) Smooth(scaled []float64, factor float64) []float64 {
	p.busy.Lock()
	defer p.busy.Unlock()
	return p.smoothLocked(scaled, factor)
}

// Last returns the most recently committed frame, or nil if nothing has been
// committed yet.
func (p *Processor) Last() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.committed
}

// Reset discards the smoothing history and the committed frame.
func (p *Processor) Reset() {
	p.busy.Lock()
	defer p.busy.Unlock()

	p.previous = nil

	p.mu.Lock()
	p.committed = nil
	p.mu.Unlock()
}

// smoothLocked applies the exponential moving average. Caller must hold busy.
func (p *Processor) smoothLocked(scaled []float64, factor float64) []float64 {
	n := len(scaled)

	if len(p.previous) != n {
		// History length changed (bar count reconfigured): smoothing restarts
		// from zero for one frame.
		if p.logger != nil && p.previous != nil {
			p.logger.Debug("smoothing history discarded",
				slog.Int("old_len", len(p.previous)),
				slog.Int("new_len", n))
		}
		p.previous = make([]float64, n)
	}

	out := make([]float64, n)
	keep := 1 - factor

	// Fixed-width chunks with a scalar remainder tail. Kept separate from the
	// tail loop so the body stays a straight-line candidate for vectorization.
	i := 0
	for ; i+chunkWidth <= n; i += chunkWidth {
		out[i] = p.previous[i]*keep + scaled[i]*factor
		out[i+1] = p.previous[i+1]*keep + scaled[i+1]*factor
		out[i+2] = p.previous[i+2]*keep + scaled[i+2]*factor
		out[i+3] = p.previous[i+3]*keep + scaled[i+3]*factor
	}
	for ; i < n; i++ {
		out[i] = p.previous[i]*keep + scaled[i]*factor
	}

	copy(p.previous, out)

	return out
}

// lastCommitted serves the published frame to contended callers. A zero
// frame of the right length stands in until the first commit, and after a
// bar-count change until the next recompute lands.
func (p *Processor) lastCommitted(targetCount int) []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.committed) == targetCount {
		return p.committed
	}
	return make([]float64, targetCount)
}
