package grid

import (
	"fmt"

	"morphgrid/internal/core"
	"morphgrid/internal/schedule"
	"morphgrid/internal/surface"
)

// Evaluator fills a position buffer for one frame.
type Evaluator interface {
	Name() string
	// Evaluate overwrites out with the positions for state st at time t.
	// out must already match cfg; it is never resized.
	Evaluate(cfg Config, st schedule.State, t float32, out *core.PositionBuffer) error
}

// sampler returns the per-cell function for a scheduler state.
func sampler(st schedule.State) surface.Func {
	if !st.Transitioning() {
		return surface.Get(st.Current)
	}
	from, to, p := st.Previous, st.Current, st.Progress
	// Resolve both ids up front so an invalid id panics before the pass.
	surface.Get(from)
	surface.Get(to)
	return func(u, v, t float32) core.Vec3 {
		return surface.Morph(from, to, u, v, t, p)
	}
}

func checkBuffer(cfg Config, out *core.PositionBuffer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if out == nil || out.Resolution() != cfg.Resolution || out.Len() != cfg.Cells() {
		got := 0
		if out != nil {
			got = out.Resolution()
		}
		return fmt.Errorf("%w: buffer %d, grid %d", ErrBufferSize, got, cfg.Resolution)
	}
	return nil
}

// Sequential evaluates every cell in index order on the calling goroutine.
type Sequential struct{}

// Name implements Evaluator.
func (Sequential) Name() string { return "sequential" }

// Evaluate implements Evaluator.
func (Sequential) Evaluate(cfg Config, st schedule.State, t float32, out *core.PositionBuffer) error {
	if err := checkBuffer(cfg, out); err != nil {
		return err
	}
	f := sampler(st)
	step := cfg.Step()
	pos := out.Positions()
	for i := range pos {
		x, z := cfg.Cell(i)
		pos[i] = f(cellCenter(x, step), cellCenter(z, step), t)
	}
	return nil
}
