package app

import (
	"io"
	"math"

	"morphgrid/internal/core"
	"morphgrid/internal/gpu"
	"morphgrid/internal/graph"
	"morphgrid/internal/grid"
)

// Frame is the per-frame driver shared by the CPU and GPU graphs.
type Frame interface {
	core.ParameterProvider
	io.Closer
	Frame(t, dt float32) error
	Reset()
	Config() graph.Config
	Reconfigure(cfg graph.Config) error
}

// Clock returns the frame time source: fixed 1/TPS steps, or wall time when
// TPS is zero.
func (c *Config) Clock() *core.Clock {
	if c.TPS <= 0 {
		return core.NewClock()
	}
	return core.NewFixedClock(c.TPS)
}

// Build constructs the graph selected by Strategy, drawing into r. The "gpu"
// strategy runs the compute kernels through gpu.Emulator.
func (c *Config) Build(r graph.Renderer) (Frame, error) {
	gc, err := c.Graph()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := core.Logger()
	if c.Strategy == "gpu" {
		emu := gpu.NewEmulator(grid.MaxResolution)
		var drawer graph.ProceduralDrawer
		if r != nil {
			drawer = graph.BufferDrawer{Buffer: emu.Buffer(), Renderer: r}
		}
		log.Info("starting graph", "strategy", c.Strategy, "resolution", c.Resolution,
			"function", c.Function, "mode", c.Mode)
		return graph.NewGPU(gc, gpu.NewLibrary(), emu, drawer)
	}
	eval, err := c.Evaluator()
	if err != nil {
		return nil, err
	}
	log.Info("starting graph", "strategy", eval.Name(), "resolution", c.Resolution,
		"function", c.Function, "mode", c.Mode)
	return graph.New(gc, eval, r)
}

// ScaleResolution multiplies the resolution of f by factor, clamped to the
// grid bounds, and applies it between frames.
func ScaleResolution(f Frame, factor float64) error {
	cfg := f.Config()
	res := int(math.Round(float64(cfg.Grid.Resolution) * factor))
	res = min(max(res, grid.MinResolution), grid.MaxResolution)
	if res == cfg.Grid.Resolution {
		return nil
	}
	core.Logger().Info("changing resolution", "from", cfg.Grid.Resolution, "to", res)
	cfg.Grid.Resolution = res
	return f.Reconfigure(cfg)
}
