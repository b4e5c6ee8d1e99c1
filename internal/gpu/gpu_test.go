package gpu

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphgrid/internal/core"
	"morphgrid/internal/grid"
	"morphgrid/internal/schedule"
	"morphgrid/internal/surface"
)

// skipOnNagaGap skips when naga reports a feature it has not implemented yet.
func skipOnNagaGap(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "unsupported") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}

func TestSourceSelectsFunctions(t *testing.T) {
	src, err := Source(SteadyKey(surface.Ripple))
	require.NoError(t, err)
	assert.Contains(t, src, "@compute @workgroup_size(8, 8, 1)")
	assert.Contains(t, src, "fn fn_ripple(")
	assert.NotContains(t, src, "mix(")
	assert.Equal(t, 1, strings.Count(src, "fn fn_"))

	src, err = Source(KernelKey{From: surface.Wave, To: surface.Torus})
	require.NoError(t, err)
	assert.Contains(t, src, "fn fn_wave(")
	assert.Contains(t, src, "fn fn_torus(")
	assert.Contains(t, src, "let a = fn_wave(uv.x, uv.y, params.time);")
	assert.Contains(t, src, "let b = fn_torus(uv.x, uv.y, params.time);")
	assert.Contains(t, src, "mix(a, b, params.progress)")

	_, err = Source(KernelKey{From: surface.FunctionID(9), To: surface.Wave})
	assert.ErrorIs(t, err, ErrInvalidKernelKey)
}

func TestKeysArePairs(t *testing.T) {
	keys := Keys()
	n := surface.Count()
	require.Len(t, keys, n*n)
	seen := map[KernelKey]bool{}
	steadyCount := 0
	for _, k := range keys {
		require.True(t, k.Valid())
		require.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
		if !k.Morph() {
			steadyCount++
		}
	}
	assert.Equal(t, n, steadyCount)
	assert.Equal(t, "sphere", SteadyKey(surface.Sphere).String())
	assert.Equal(t, "wave->ripple", KernelKey{From: surface.Wave, To: surface.Ripple}.String())
}

func TestCompileProducesSPIRV(t *testing.T) {
	for _, key := range []KernelKey{SteadyKey(surface.Wave), {From: surface.MultiWave, To: surface.Sphere}} {
		k, err := Compile(key)
		skipOnNagaGap(t, err)
		require.NoError(t, err, "kernel %s", key)
		require.NotEmpty(t, k.SPIRV)
		assert.Equal(t, uint32(0x07230203), k.SPIRV[0], "SPIR-V magic for %s", key)
		assert.Equal(t, key, k.Key)
	}
}

func TestCompileRejectsBadSource(t *testing.T) {
	_, err := CompileToSPIRV("fn broken(")
	assert.ErrorIs(t, err, ErrCompile)
}

func TestLibraryCaches(t *testing.T) {
	lib := NewLibrary()
	key := KernelKey{From: surface.Ripple, To: surface.Wave}
	a, err := lib.Kernel(key)
	skipOnNagaGap(t, err)
	require.NoError(t, err)
	b, err := lib.Kernel(key)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, lib.Len())
}

func TestLibraryPrecompile(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles every kernel pair")
	}
	lib := NewLibrary()
	err := lib.Precompile(4)
	skipOnNagaGap(t, err)
	require.NoError(t, err)
	assert.Equal(t, len(Keys()), lib.Len())
}

func TestDispatchSize(t *testing.T) {
	assert.Equal(t, Groups{X: 2, Y: 2, Z: 1}, DispatchSize(10))
	assert.Equal(t, Groups{X: 25, Y: 25, Z: 1}, DispatchSize(200))
	assert.Equal(t, Groups{X: 125, Y: 125, Z: 1}, DispatchSize(grid.MaxResolution))
	assert.NoError(t, DispatchSize(grid.MaxResolution).Validate())

	assert.ErrorIs(t, Groups{X: 0, Y: 1, Z: 1}.Validate(), ErrWorkgroupCountZero)
	assert.ErrorIs(t, Groups{X: 1, Y: 1, Z: 0}.Validate(), ErrWorkgroupCountZero)
	assert.ErrorIs(t, Groups{X: MaxWorkgroupsPerDimension + 1, Y: 1, Z: 1}.Validate(), ErrWorkgroupCountExceedsLimit)
}

func TestBufferSize(t *testing.T) {
	assert.Equal(t, 1000*1000*12, BufferSize(grid.MaxResolution))
	emu := NewEmulator(grid.MaxResolution)
	assert.Equal(t, BufferSize(grid.MaxResolution), emu.size)
	assert.Equal(t, grid.MaxResolution*grid.MaxResolution, emu.Buffer().Len())
}

func TestParams(t *testing.T) {
	cfg := grid.Config{Resolution: 40}
	p := NewParams(cfg, 2.5, 0.25)
	assert.Equal(t, uint32(40), p.Resolution)
	assert.Equal(t, float32(0.05), p.Step)
	assert.Equal(t, float32(2.5), p.Time)
	assert.Equal(t, surface.SmoothStep(0.25), p.Progress)

	b := make([]byte, ParamsSize)
	p.Put(b)
	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, p.Step, math.Float32frombits(binary.LittleEndian.Uint32(b[4:])))
	assert.Equal(t, p.Time, math.Float32frombits(binary.LittleEndian.Uint32(b[8:])))
	assert.Equal(t, p.Progress, math.Float32frombits(binary.LittleEndian.Uint32(b[12:])))
	assert.Equal(t, p, readParams(b))
}

func TestEmulatorMatchesSequential(t *testing.T) {
	states := []schedule.State{
		{Phase: schedule.Steady, Current: surface.MultiWave, Previous: surface.MultiWave},
		{Phase: schedule.Transitioning, Previous: surface.Sphere, Current: surface.Ripple, Progress: 0.6},
	}
	for _, res := range []int{10, 21} {
		cfg := grid.Config{Resolution: res}
		emu := NewEmulator(32)
		want := core.NewPositionBuffer(res)
		for _, st := range states {
			key := SteadyKey(st.Current)
			if st.Transitioning() {
				key = KernelKey{From: st.Previous, To: st.Current}
			}
			// The emulator only needs the key; skip compilation.
			k := &Kernel{Key: key}
			params := NewParams(cfg, 0.9, st.Progress)
			require.NoError(t, emu.Dispatch(k, params, DispatchSize(res)))
			assert.Equal(t, params, readParams(emu.uniform[:]))
			require.NoError(t, grid.Sequential{}.Evaluate(cfg, st, 0.9, want))
			require.Equal(t, res, emu.Buffer().Resolution())
			require.Equal(t, want.Positions(), emu.Buffer().Positions(), "res %d key %s", res, key)
		}
	}
}

func TestEmulatorErrors(t *testing.T) {
	emu := NewEmulator(16)
	cfg := grid.Config{Resolution: 20}
	k := &Kernel{Key: SteadyKey(surface.Wave)}
	assert.ErrorIs(t, emu.Dispatch(nil, NewParams(cfg, 0, 0), DispatchSize(20)), ErrNilKernel)
	assert.ErrorIs(t, emu.Dispatch(k, NewParams(cfg, 0, 0), DispatchSize(20)), ErrBufferTooSmall)
	assert.ErrorIs(t, emu.Dispatch(k, NewParams(cfg, 0, 0), Groups{}), ErrWorkgroupCountZero)

	fits := grid.Config{Resolution: 16}
	require.NoError(t, emu.Dispatch(k, NewParams(fits, 0, 0), DispatchSize(16)))
	assert.Equal(t, 16, emu.Buffer().Resolution())
}
