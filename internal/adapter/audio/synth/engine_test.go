package synth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/logger"
	"github.com/soundweaver/vizor/internal/testutil"
)

func TestEngineFrameShape(t *testing.T) {
	e := NewEngine(logger.NewTestLogger(), 128)

	assert.Equal(t, 128, e.FFTBins())
	assert.Equal(t, 44100, e.SampleRate())

	frame, err := e.Frame()
	require.NoError(t, err)
	require.Len(t, frame, 128)

	// Normalized magnitudes: all within [0,1], peak exactly 1.
	peak := 0.0
	for _, v := range frame {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		if v > peak {
			peak = v
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-9)
}

func TestEngineFramesEvolve(t *testing.T) {
	e := NewEngine(logger.NewTestLogger(), 64)

	first, err := e.Frame()
	require.NoError(t, err)
	firstCopy := append([]float64(nil), first...)

	second, err := e.Frame()
	require.NoError(t, err)

	assert.NotEqual(t, firstCopy, second, "successive frames must differ")
}

func TestEngineDefaultBins(t *testing.T) {
	e := NewEngine(logger.NewTestLogger())
	assert.Equal(t, defaultBins, e.FFTBins())

	e = NewEngine(logger.NewTestLogger(), -5)
	assert.Equal(t, defaultBins, e.FFTBins())
}

func TestEngineSpectralTilt(t *testing.T) {
	e := NewEngine(logger.NewTestLogger(), 256)

	frame, err := e.Frame()
	require.NoError(t, err)

	// The signal is bass-heavy: the low quarter must carry more energy than
	// the top quarter.
	low, high := 0.0, 0.0
	q := len(frame) / 4
	for _, v := range frame[:q] {
		low += v
	}
	for _, v := range frame[3*q:] {
		high += v
	}

	assert.Greater(t, low, high)
}

func TestEngineClose(t *testing.T) {
	e := NewEngine(logger.NewTestLogger(), 32)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close()) // idempotent

	_, err := e.Frame()
	assert.ErrorIs(t, err, domain.ErrSourceClosed)
}

func TestEngineStream(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	e := NewEngine(logger.NewTestLogger(), 32)

	ctx, cancel := context.WithCancel(context.Background())
	frames := e.Stream(ctx, time.Millisecond)

	frame, ok := <-frames
	require.True(t, ok)
	assert.Len(t, frame, 32)

	cancel()
	for range frames {
	}
}

func TestEngineStreamStopsOnClose(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	e := NewEngine(logger.NewTestLogger(), 32)

	frames := e.Stream(context.Background(), time.Millisecond)
	<-frames

	require.NoError(t, e.Close())

	for range frames {
	}
}
