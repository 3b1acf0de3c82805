package spectrum

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundweaver/vizor/internal/logger"
	"github.com/soundweaver/vizor/internal/testutil"
)

func TestScale_WorkedExample(t *testing.T) {
	spectrum := []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0}

	scaled := Scale(spectrum, 3, len(spectrum))

	require.Len(t, scaled, 3)
	assert.InDelta(t, 0.1, scaled[0], 1e-12)
	assert.InDelta(t, 0.5, scaled[1], 1e-12)
	assert.InDelta(t, 0.9, scaled[2], 1e-12)
}

func TestScale_OutputLengthAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, tc := range []struct {
		sourceLength int
		targetCount  int
	}{
		{1, 1},
		{7, 3},
		{64, 16},
		{1024, 64},
		{1000, 33},
		{4096, 100},
	} {
		spectrum := make([]float64, tc.sourceLength)
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := range spectrum {
			spectrum[i] = rng.Float64()
			lo = math.Min(lo, spectrum[i])
			hi = math.Max(hi, spectrum[i])
		}

		scaled := Scale(spectrum, tc.targetCount, tc.sourceLength)

		require.Len(t, scaled, tc.targetCount)
		for i, v := range scaled {
			assert.GreaterOrEqual(t, v, lo, "bar %d below spectrum minimum", i)
			assert.LessOrEqual(t, v, hi, "bar %d above spectrum maximum", i)
		}
	}
}

func TestScale_Pure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	spectrum := make([]float64, 512)
	for i := range spectrum {
		spectrum[i] = rng.Float64()
	}

	first := Scale(spectrum, 48, len(spectrum))
	for n := 0; n < 10; n++ {
		assert.Equal(t, first, Scale(spectrum, 48, len(spectrum)))
	}
}

func TestScale_ParallelMatchesSequential(t *testing.T) {
	// 48 bars takes the parallel path; recompute the means naively and
	// compare. Both must agree exactly since the blocks are disjoint.
	rng := rand.New(rand.NewSource(99))
	spectrum := make([]float64, 768)
	for i := range spectrum {
		spectrum[i] = rng.Float64()
	}

	const targetCount = 48
	scaled := Scale(spectrum, targetCount, len(spectrum))

	blockSize := float64(len(spectrum)) / float64(targetCount)
	for i := 0; i < targetCount; i++ {
		start := int(float64(i) * blockSize)
		end := int(float64(i+1) * blockSize)
		if end > len(spectrum) {
			end = len(spectrum)
		}
		sum := 0.0
		for _, v := range spectrum[start:end] {
			sum += v
		}
		assert.Equal(t, sum/float64(end-start), scaled[i], "bar %d", i)
	}
}

func TestScale_EmptyInput(t *testing.T) {
	scaled := Scale(nil, 8, 0)
	require.Len(t, scaled, 8)
	for _, v := range scaled {
		assert.Zero(t, v)
	}

	scaled = Scale([]float64{}, 4, 0)
	require.Len(t, scaled, 4)
	for _, v := range scaled {
		assert.Zero(t, v)
	}
}

func TestScale_MoreBarsThanBins(t *testing.T) {
	// Empty blocks replicate the nearest bin instead of averaging nothing.
	spectrum := []float64{1.0, 2.0, 3.0}

	scaled := Scale(spectrum, 9, len(spectrum))

	require.Len(t, scaled, 9)
	for i, v := range scaled {
		assert.Contains(t, spectrum, v, "bar %d must replicate a source bin", i)
	}
	assert.Equal(t, 1.0, scaled[0])
	assert.Equal(t, 3.0, scaled[8])
}

func TestScale_SourceLengthClamped(t *testing.T) {
	spectrum := []float64{1.0, 1.0}

	// A sourceLength beyond the actual slice must not read out of bounds.
	scaled := Scale(spectrum, 2, 100)

	require.Len(t, scaled, 2)
	assert.Equal(t, 1.0, scaled[0])
	assert.Equal(t, 1.0, scaled[1])
}

func TestSmooth_FirstFrameRampUp(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	// First frame smooths against an implicit zero history.
	smoothed := p.Smooth([]float64{0.1, 0.5, 0.9}, 0.3)

	require.Len(t, smoothed, 3)
	assert.InDelta(t, 0.03, smoothed[0], 1e-12)
	assert.InDelta(t, 0.15, smoothed[1], 1e-12)
	assert.InDelta(t, 0.27, smoothed[2], 1e-12)
}

func TestSmooth_Convergence(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	const (
		target = 0.8
		factor = 0.3
		frames = 50
	)

	input := []float64{target, target}
	var out []float64
	for n := 0; n < frames; n++ {
		out = p.Smooth(input, factor)
	}

	// |out_N - v| <= (1-f)^N * |out_0 - v|, with out_0 = 0.
	bound := math.Pow(1-factor, frames) * target
	for i, v := range out {
		assert.LessOrEqual(t, math.Abs(v-target), bound+1e-12, "bar %d", i)
	}
}

func TestSmooth_ChunkedMatchesScalar(t *testing.T) {
	// Lengths around the chunk width exercise the remainder tail.
	for _, n := range []int{1, 3, 4, 5, 7, 8, 13} {
		p := NewProcessor(logger.NewTestLogger())

		scaled := make([]float64, n)
		for i := range scaled {
			scaled[i] = float64(i) * 0.17
		}

		first := p.Smooth(scaled, 0.4)
		second := p.Smooth(scaled, 0.4)

		for i := range scaled {
			assert.Equal(t, scaled[i]*0.4, first[i], "n=%d bar %d", n, i)
			assert.Equal(t, first[i]*0.6+scaled[i]*0.4, second[i], "n=%d bar %d", n, i)
		}
	}
}

func TestSmooth_HistoryDiscardedOnResize(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	p.Smooth([]float64{1, 1, 1, 1}, 0.5)

	// Changing the bar count restarts smoothing from zero.
	out := p.Smooth([]float64{1, 1}, 0.5)

	require.Len(t, out, 2)
	assert.Equal(t, 0.5, out[0])
	assert.Equal(t, 0.5, out[1])
}

func TestPrepare_CommitsAndServesLastResult(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	spectrum := []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0}
	out := p.Prepare(spectrum, 3, 0.3)

	require.Len(t, out, 3)
	assert.InDelta(t, 0.03, out[0], 1e-12)
	assert.Equal(t, out, p.Last())
}

func TestPrepare_ZeroFrameBeforeFirstCommit(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	assert.Nil(t, p.Last())

	// Simulate contention: hold the gate and call Prepare from outside.
	p.busy.Lock()
	out := p.Prepare([]float64{1, 1, 1, 1}, 4, 0.5)
	p.busy.Unlock()

	require.Len(t, out, 4)
	for _, v := range out {
		assert.Zero(t, v)
	}
}

func TestPrepare_ConcurrentCallers(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	p := NewProcessor(logger.NewTestLogger())

	const (
		workers   = 8
		frames    = 200
		barCount  = 40
		fftBins   = 1024
		smoothing = 0.35
	)

	spectrum := make([]float64, fftBins)
	for i := range spectrum {
		spectrum[i] = float64(i%17) / 17.0
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for n := 0; n < frames; n++ {
				out := p.Prepare(spectrum, barCount, smoothing)
				if len(out) != barCount {
					t.Errorf("got %d bars, want %d", len(out), barCount)
					return
				}
				for i, v := range out {
					// All inputs are within [0,1), so every committed value
					// must be too; anything else is a torn or garbage read.
					if v < 0 || v >= 1 || math.IsNaN(v) {
						t.Errorf("bar %d out of range: %v", i, v)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestProcessor_Reset(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	p.Prepare([]float64{1, 1, 1, 1}, 2, 0.5)
	require.NotNil(t, p.Last())

	p.Reset()

	assert.Nil(t, p.Last())

	// After reset, smoothing restarts from zero history.
	out := p.Smooth([]float64{1, 1}, 0.5)
	assert.Equal(t, []float64{0.5, 0.5}, out)
}
