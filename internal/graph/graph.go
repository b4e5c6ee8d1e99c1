// Package graph drives one frame at a time: it advances the transition
// scheduler, evaluates the grid, and hands the result to a renderer.
package graph

import (
	"fmt"
	"io"

	"morphgrid/internal/core"
	"morphgrid/internal/grid"
	"morphgrid/internal/schedule"
)

// Renderer draws resolution² instances of a fixed shape, each scaled by step
// and offset by one position of buf. buf is only valid until the next frame.
type Renderer interface {
	Draw(buf *core.PositionBuffer, step float32) error
}

// Config combines the grid and scheduler settings of a run.
type Config struct {
	Grid     grid.Config
	Schedule schedule.Config
}

// DefaultConfig returns a 200x200 grid with the default schedule.
func DefaultConfig() Config {
	return Config{
		Grid:     grid.Config{Resolution: 200},
		Schedule: schedule.DefaultConfig(),
	}
}

// Validate checks both halves of the configuration.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	return c.Schedule.Validate()
}

// Bounds returns the edge length of the cube enclosing every point, including
// the half-cell overhang of the outermost instances.
func Bounds(resolution int) float32 {
	return 2 + 2/float32(resolution)
}

// Graph evaluates the grid on the CPU with a pluggable strategy.
type Graph struct {
	cfg      Config
	sched    *schedule.Scheduler
	eval     grid.Evaluator
	buf      *core.PositionBuffer
	renderer Renderer
	time     float32
	frames   int
}

// New validates cfg and allocates the position buffer. renderer may be nil
// for headless runs.
func New(cfg Config, eval grid.Evaluator, renderer Renderer) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if eval == nil {
		eval = grid.Sequential{}
	}
	sched, err := schedule.New(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	return &Graph{
		cfg:      cfg,
		sched:    sched,
		eval:     eval,
		buf:      core.NewPositionBuffer(cfg.Grid.Resolution),
		renderer: renderer,
	}, nil
}

// Frame advances the scheduler by dt, recomputes every position at time t,
// and draws the result.
func (g *Graph) Frame(t, dt float32) error {
	g.sched.Advance(dt)
	g.time = t
	g.frames++
	if err := g.eval.Evaluate(g.cfg.Grid, g.sched.State(), t, g.buf); err != nil {
		return fmt.Errorf("graph: evaluate frame %d: %w", g.frames, err)
	}
	if g.renderer == nil {
		return nil
	}
	if err := g.renderer.Draw(g.buf, g.cfg.Grid.Step()); err != nil {
		return fmt.Errorf("graph: draw frame %d: %w", g.frames, err)
	}
	return nil
}

// Reconfigure applies cfg between frames. A resolution change resizes the
// position buffer; the scheduler keeps its phase.
func (g *Graph) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := g.sched.SetConfig(cfg.Schedule); err != nil {
		return err
	}
	if cfg.Grid.Resolution != g.cfg.Grid.Resolution {
		core.Logger().Debug("resizing position buffer",
			"from", g.cfg.Grid.Resolution, "to", cfg.Grid.Resolution)
		g.buf.Resize(cfg.Grid.Resolution)
	}
	g.cfg = cfg
	return nil
}

// Reset restarts the schedule from the configured start function.
func (g *Graph) Reset() {
	g.sched.Reset()
	g.frames = 0
}

// Config returns the active configuration.
func (g *Graph) Config() Config { return g.cfg }

// State returns the scheduler snapshot used by the last frame.
func (g *Graph) State() schedule.State { return g.sched.State() }

// Buffer returns the positions written by the last frame.
func (g *Graph) Buffer() *core.PositionBuffer { return g.buf }

// Parameters implements core.ParameterProvider.
func (g *Graph) Parameters() core.ParameterSnapshot {
	return snapshot(g.cfg, g.sched.State(), g.time, g.eval.Name())
}

// Close releases the evaluator's workers, if it has any.
func (g *Graph) Close() error {
	if c, ok := g.eval.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
