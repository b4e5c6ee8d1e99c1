package graph

import (
	"errors"
	"fmt"

	"morphgrid/internal/core"
	"morphgrid/internal/gpu"
	"morphgrid/internal/schedule"
)

// ErrNilDispatcher is returned by NewGPU when no dispatcher is supplied.
var ErrNilDispatcher = errors.New("graph: nil dispatcher")

// ProceduralDrawer draws instances whose positions live in the buffer the
// Dispatcher filled, without reading them back.
type ProceduralDrawer interface {
	DrawProcedural(instances int, step, bounds float32) error
}

// GPUGraph evaluates the grid by dispatching a compute kernel selected by the
// active function pair.
type GPUGraph struct {
	cfg    Config
	sched  *schedule.Scheduler
	lib    *gpu.Library
	disp   gpu.Dispatcher
	drawer ProceduralDrawer
	time   float32
	key    gpu.KernelKey
}

// NewGPU validates cfg and returns a GPUGraph. lib may be shared between
// graphs; drawer may be nil.
func NewGPU(cfg Config, lib *gpu.Library, disp gpu.Dispatcher, drawer ProceduralDrawer) (*GPUGraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if disp == nil {
		return nil, ErrNilDispatcher
	}
	if lib == nil {
		lib = gpu.NewLibrary()
	}
	sched, err := schedule.New(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	return &GPUGraph{cfg: cfg, sched: sched, lib: lib, disp: disp, drawer: drawer}, nil
}

// KernelKey returns the kernel that evaluates state st.
func KernelKey(st schedule.State) gpu.KernelKey {
	if st.Transitioning() {
		return gpu.KernelKey{From: st.Previous, To: st.Current}
	}
	return gpu.SteadyKey(st.Current)
}

// Frame advances the scheduler, dispatches the matching kernel, and draws.
func (g *GPUGraph) Frame(t, dt float32) error {
	g.sched.Advance(dt)
	g.time = t
	st := g.sched.State()
	g.key = KernelKey(st)

	k, err := g.lib.Kernel(g.key)
	if err != nil {
		return fmt.Errorf("graph: kernel %s: %w", g.key, err)
	}
	res := g.cfg.Grid.Resolution
	params := gpu.NewParams(g.cfg.Grid, t, st.Progress)
	if err := g.disp.Dispatch(k, params, gpu.DispatchSize(res)); err != nil {
		core.Logger().Warn("dispatch failed", "kernel", g.key.String(), "err", err)
		return fmt.Errorf("graph: dispatch %s: %w", g.key, err)
	}
	if g.drawer == nil {
		return nil
	}
	return g.drawer.DrawProcedural(res*res, g.cfg.Grid.Step(), Bounds(res))
}

// Reconfigure applies cfg between frames. The GPU buffer is sized for the
// maximum resolution, so nothing is reallocated here.
func (g *GPUGraph) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := g.sched.SetConfig(cfg.Schedule); err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

// Reset restarts the schedule from the configured start function.
func (g *GPUGraph) Reset() {
	g.sched.Reset()
}

// Config returns the active configuration.
func (g *GPUGraph) Config() Config { return g.cfg }

// Close implements io.Closer. The kernel library and dispatcher belong to the
// caller.
func (g *GPUGraph) Close() error { return nil }

// LastKernel returns the key dispatched by the most recent frame.
func (g *GPUGraph) LastKernel() gpu.KernelKey { return g.key }

// State returns the scheduler snapshot used by the last frame.
func (g *GPUGraph) State() schedule.State { return g.sched.State() }

// Parameters implements core.ParameterProvider.
func (g *GPUGraph) Parameters() core.ParameterSnapshot {
	return snapshot(g.cfg, g.sched.State(), g.time, "gpu")
}

// BufferDrawer draws the output of a dispatcher whose buffer is CPU visible,
// such as gpu.Emulator, through an ordinary Renderer.
type BufferDrawer struct {
	Buffer   *core.PositionBuffer
	Renderer Renderer
}

// DrawProcedural implements ProceduralDrawer.
func (d BufferDrawer) DrawProcedural(instances int, step, _ float32) error {
	if d.Buffer.Len() != instances {
		return fmt.Errorf("graph: buffer holds %d positions, want %d", d.Buffer.Len(), instances)
	}
	return d.Renderer.Draw(d.Buffer, step)
}
