package tween

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseEndpoints(t *testing.T) {
	for _, name := range []string{
		"linear", "power1.in", "power1.out", "power1.inOut", "power3.inOut",
		"sine.inOut", "back.out", "back.in(2)", "back.inOut(1)", "power2",
	} {
		e, err := ParseEase(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 0, e.At(0), 1e-12, name)
		assert.InDelta(t, 1, e.At(1), 1e-12, name)
		assert.Equal(t, name, e.String())
	}
}

func TestEaseInOutIsSymmetric(t *testing.T) {
	e := MustParseEase("power1.inOut")
	assert.InDelta(t, 0.5, e.At(0.5), 1e-12)
	assert.InDelta(t, 1-e.At(0.2), e.At(0.8), 1e-12)
	assert.InDelta(t, 0.08, e.At(0.2), 1e-12)
}

func TestBackOvershoots(t *testing.T) {
	out := MustParseEase("back.out(1)")
	peak := 0.0
	for p := 0.0; p <= 1; p += 0.01 {
		peak = max(peak, out.At(p))
	}
	assert.Greater(t, peak, 1.0)

	inOut := MustParseEase("back.inOut(1)")
	assert.Less(t, inOut.At(0.1), 0.0)
}

func TestParseEaseRejects(t *testing.T) {
	for _, bad := range []string{"bounce.out", "power9.in", "power1.sideways", "back.out(x)", "back.out(1", "sine.in(2)"} {
		_, err := ParseEase(bad)
		assert.ErrorIs(t, err, ErrInvalidEase, bad)
	}
}

func TestZeroEasingIsLinear(t *testing.T) {
	var e Easing
	assert.Equal(t, 0.25, e.At(0.25))
	assert.Equal(t, 1.0, e.At(3))
	assert.Equal(t, "linear", e.String())
}

func TestPresetDurations(t *testing.T) {
	p := DefaultPresets()
	assert.Equal(t, time.Second, p.Get(Normal).Duration(1))
	assert.Equal(t, 1300*time.Millisecond, p.Get(Normal).Duration(2))
	assert.Equal(t, 150*time.Millisecond, p.Get(Scramble).Duration(3))
	assert.Equal(t, "back.inOut(1)", p.Get(Normal).Ease.String())

	custom := Presets{Scramble: {Base: time.Millisecond}}
	assert.Equal(t, time.Millisecond, custom.Get(Scramble).Duration(1))
	assert.Equal(t, time.Second, custom.Get(Normal).Duration(1))
}

func TestParseTempo(t *testing.T) {
	tp, err := ParseTempo("Scramble")
	require.NoError(t, err)
	assert.Equal(t, Scramble, tp)
	_, err = ParseTempo("fast")
	assert.Error(t, err)
}

func TestClockReachesEnd(t *testing.T) {
	var values []float64
	err := Clock{FPS: 200}.Run(context.Background(), 30*time.Millisecond, Linear, func(v float64) {
		values = append(values, v)
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(values), 2)
	assert.Equal(t, 0.0, values[0])
	assert.Equal(t, 1.0, values[len(values)-1])
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1])
	}
}

func TestClockCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	last := -1.0
	err := Clock{}.Run(ctx, time.Hour, Linear, func(v float64) { last = v })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, last, 1.0)
}

func TestInstant(t *testing.T) {
	var got []float64
	require.NoError(t, Instant{}.Run(context.Background(), time.Hour, MustParseEase("back.inOut(1)"), func(v float64) {
		got = append(got, v)
	}))
	assert.Equal(t, []float64{1}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Instant{}.Run(ctx, 0, Linear, func(float64) {}), context.Canceled)
}
