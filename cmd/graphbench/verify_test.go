package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphgrid/internal/core"
	"morphgrid/internal/gpu"
	"morphgrid/internal/graph"
	"morphgrid/internal/grid"
	"morphgrid/internal/schedule"
	"morphgrid/internal/surface"
)

func verifyConfig(mode schedule.Mode) graph.Config {
	return graph.Config{
		Grid: grid.Config{Resolution: 10},
		Schedule: schedule.Config{
			FunctionDuration:   1,
			TransitionDuration: 1,
			Start:              surface.Wave,
			Mode:               mode,
			Seed:               7,
		},
	}
}

// verifyFrame runs one verifier frame and skips when naga cannot compile the
// kernel.
func verifyFrame(t *testing.T, v *verifier, tm, dt float32) {
	t.Helper()
	err := v.frame(tm, dt)
	if errors.Is(err, gpu.ErrCompile) {
		t.Skipf("Skipping: kernel compilation unavailable: %v", err)
	}
	require.NoError(t, err)
}

func TestVerifierAgreesAcrossStrategies(t *testing.T) {
	for _, mode := range []schedule.Mode{schedule.Cycle, schedule.Random} {
		t.Run(mode.String(), func(t *testing.T) {
			v, err := newVerifier(verifyConfig(mode), 3)
			require.NoError(t, err)
			defer v.close()

			const dt = 0.5
			var tm float32
			var phases []schedule.Phase
			for i := 0; i < 5; i++ {
				tm += dt
				verifyFrame(t, v, tm, dt)
				phases = append(phases, v.seq.State().Phase)
			}
			assert.Equal(t, 5, v.frames)
			assert.Equal(t, []schedule.Phase{
				schedule.Steady,
				schedule.Transitioning,
				schedule.Transitioning,
				schedule.Steady,
				schedule.Steady,
			}, phases)
			assert.Equal(t, v.seq.State(), v.kernel.State())
			assert.NotEqual(t, surface.Wave, v.seq.State().Current)
		})
	}
}

func TestVerifierReportsTamperedOutput(t *testing.T) {
	tamper := map[string]func(v *verifier){
		"tiled": func(v *verifier) {
			v.tiled.Buffer().Positions()[7] = core.Vec3{X: 9}
		},
		"kernel": func(v *verifier) {
			v.emu.Buffer().Positions()[42].Y += 0.001
		},
	}
	for name, mutate := range tamper {
		t.Run(name, func(t *testing.T) {
			v, err := newVerifier(verifyConfig(schedule.Cycle), 2)
			require.NoError(t, err)
			defer v.close()

			verifyFrame(t, v, 1, 1)
			require.NoError(t, v.compare())

			mutate(v)
			err = v.compare()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name+" ")
			assert.Equal(t, 1, v.frames)
		})
	}
}
