package schedule

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphgrid/internal/core"
	"morphgrid/internal/surface"
)

func newScheduler(t *testing.T, fd, td float32, mode Mode) *Scheduler {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FunctionDuration = fd
	cfg.TransitionDuration = td
	cfg.Mode = mode
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestInitialState(t *testing.T) {
	s := newScheduler(t, 1, 1, Cycle)
	st := s.State()
	assert.Equal(t, Steady, st.Phase)
	assert.Equal(t, surface.Wave, st.Current)
	assert.Zero(t, st.Elapsed)
	assert.Zero(t, s.Progress())
}

func TestFlipsAtFunctionDuration(t *testing.T) {
	for _, mode := range []Mode{Cycle, Random} {
		t.Run(mode.String(), func(t *testing.T) {
			s := newScheduler(t, 1, 1, mode)
			assert.False(t, s.Advance(0.25))
			assert.False(t, s.Advance(0.5))
			require.True(t, s.Advance(0.25))

			st := s.State()
			assert.Equal(t, Transitioning, st.Phase)
			assert.Equal(t, surface.Wave, st.Previous)
			assert.NotEqual(t, surface.Wave, st.Current)
			if mode == Cycle {
				assert.Equal(t, surface.Next(surface.Wave), st.Current)
			}
			assert.Zero(t, st.Progress)
		})
	}
}

func TestFullCycleReturnsToSteady(t *testing.T) {
	for _, mode := range []Mode{Cycle, Random} {
		t.Run(mode.String(), func(t *testing.T) {
			s := newScheduler(t, 2, 0.5, mode)
			s.Advance(2)
			s.Advance(0.5)
			st := s.State()
			assert.Equal(t, Steady, st.Phase)
			assert.NotEqual(t, surface.Wave, st.Current)
		})
	}
}

func TestTransitionCarriesRemainder(t *testing.T) {
	s := newScheduler(t, 1, 1, Cycle)
	s.Advance(1)
	require.True(t, s.Advance(1.25))
	st := s.State()
	assert.Equal(t, Steady, st.Phase)
	assert.Equal(t, float32(0.25), st.Elapsed)

	// The carried quarter counts toward the next steady phase.
	assert.False(t, s.Advance(0.5))
	assert.True(t, s.Advance(0.25))
	assert.Equal(t, Transitioning, s.State().Phase)
}

func TestSteadyOverflowIsDropped(t *testing.T) {
	s := newScheduler(t, 1, 1, Cycle)
	require.True(t, s.Advance(1.5))
	st := s.State()
	assert.Equal(t, Transitioning, st.Phase)
	assert.Zero(t, st.Elapsed)
	assert.Zero(t, st.Progress)
}

func TestProgress(t *testing.T) {
	s := newScheduler(t, 1, 2, Cycle)
	s.Advance(1)
	s.Advance(0.5)
	assert.InDelta(t, 0.25, s.Progress(), 1e-6)
	s.Advance(0.5)
	assert.InDelta(t, 0.5, s.Progress(), 1e-6)
}

func TestZeroDurationsFlipOncePerAdvance(t *testing.T) {
	s := newScheduler(t, 0, 0, Cycle)
	want := surface.Wave
	for i := 0; i < 2*surface.Count(); i++ {
		require.True(t, s.Advance(0), "advance %d", i)
		st := s.State()
		if i%2 == 0 {
			want = surface.Next(want)
			assert.Equal(t, Transitioning, st.Phase)
			assert.Equal(t, float32(1), st.Progress)
		} else {
			assert.Equal(t, Steady, st.Phase)
		}
		assert.Equal(t, want, st.Current)
	}
}

func TestAtMostOneFlipForLargeDelta(t *testing.T) {
	s := newScheduler(t, 1, 1, Cycle)
	require.True(t, s.Advance(10))
	assert.Equal(t, Transitioning, s.State().Phase)
	assert.Equal(t, surface.MultiWave, s.State().Current)
}

func TestNegativeDeltaIgnored(t *testing.T) {
	s := newScheduler(t, 1, 1, Cycle)
	s.Advance(0.5)
	s.Advance(-3)
	assert.Equal(t, float32(0.5), s.State().Elapsed)
}

func TestRandomModeIsSeeded(t *testing.T) {
	run := func() []surface.FunctionID {
		s := newScheduler(t, 0, 0, Random)
		var seq []surface.FunctionID
		for i := 0; i < 40; i++ {
			s.Advance(0)
			seq = append(seq, s.State().Current)
		}
		return seq
	}
	a, b := run(), run()
	assert.Equal(t, a, b)
	for i := 2; i < len(a); i += 2 {
		assert.NotEqual(t, a[i-2], a[i], "consecutive picks must differ")
	}
}

func TestResetRestoresStart(t *testing.T) {
	s := newScheduler(t, 1, 1, Cycle)
	s.Advance(1)
	s.Advance(0.5)
	s.Reset()
	st := s.State()
	assert.Equal(t, Steady, st.Phase)
	assert.Equal(t, surface.Wave, st.Current)
	assert.Zero(t, st.Elapsed)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		want error
	}{
		{"negative function duration", func(c *Config) { c.FunctionDuration = -1 }, ErrNegativeDuration},
		{"negative transition duration", func(c *Config) { c.TransitionDuration = -0.1 }, ErrNegativeDuration},
		{"bad mode", func(c *Config) { c.Mode = Mode(9) }, ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			_, err := New(cfg)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	s := newScheduler(t, 1, 1, Cycle)
	bad := DefaultConfig()
	bad.FunctionDuration = -2
	assert.ErrorIs(t, s.SetConfig(bad), ErrNegativeDuration)
	assert.False(t, s.Advance(0.5), "rejected config must not change the durations")
	assert.True(t, s.Advance(0.5))
}

func TestOutOfRangeStartFallsBackToWave(t *testing.T) {
	var logs bytes.Buffer
	core.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	defer core.SetLogger(nil)

	cfg := DefaultConfig()
	cfg.Start = surface.FunctionID(200)
	require.NoError(t, cfg.Validate())
	s, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, surface.Wave, s.State().Current)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "start function out of range")

	cfg.Start = surface.Torus
	require.NoError(t, s.SetConfig(cfg))
	s.Reset()
	assert.Equal(t, surface.Torus, s.State().Current)

	cfg.Start = surface.FunctionID(surface.Count())
	require.NoError(t, s.SetConfig(cfg))
	s.Reset()
	assert.Equal(t, surface.Wave, s.State().Current)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Random")
	require.NoError(t, err)
	assert.Equal(t, Random, m)
	m, err = ParseMode("cycle")
	require.NoError(t, err)
	assert.Equal(t, Cycle, m)
	_, err = ParseMode("shuffle")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
