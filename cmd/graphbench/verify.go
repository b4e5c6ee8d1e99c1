package main

import (
	"fmt"

	"morphgrid/internal/gpu"
	"morphgrid/internal/graph"
	"morphgrid/internal/grid"
)

// verifier runs every strategy side by side and reports the first cell where
// their outputs differ.
type verifier struct {
	seq    *graph.Graph
	tiled  *graph.Graph
	kernel *graph.GPUGraph
	emu    *gpu.Emulator
	frames int
}

func newVerifier(cfg graph.Config, workers int) (*verifier, error) {
	seq, err := graph.New(cfg, grid.Sequential{}, nil)
	if err != nil {
		return nil, err
	}
	tiled, err := graph.New(cfg, grid.NewTiled(workers), nil)
	if err != nil {
		return nil, err
	}
	emu := gpu.NewEmulator(cfg.Grid.Resolution)
	kernel, err := graph.NewGPU(cfg, gpu.NewLibrary(), emu, nil)
	if err != nil {
		return nil, err
	}
	return &verifier{seq: seq, tiled: tiled, kernel: kernel, emu: emu}, nil
}

func (v *verifier) close() {
	v.tiled.Close()
}

func (v *verifier) frame(t, dt float32) error {
	if err := v.seq.Frame(t, dt); err != nil {
		return err
	}
	if err := v.tiled.Frame(t, dt); err != nil {
		return err
	}
	if err := v.kernel.Frame(t, dt); err != nil {
		return err
	}
	if err := v.compare(); err != nil {
		return err
	}
	v.frames++
	return nil
}

// compare checks the tiled and kernel outputs against the sequential one.
func (v *verifier) compare() error {
	want := v.seq.Buffer().Positions()
	if got := v.emu.Buffer().Len(); got != len(want) {
		return fmt.Errorf("kernel wrote %d cells, want %d", got, len(want))
	}
	for i, p := range v.tiled.Buffer().Positions() {
		if p != want[i] {
			return fmt.Errorf("tiled differs at cell %d: %v != %v", i, p, want[i])
		}
	}
	for i, p := range v.emu.Buffer().Positions() {
		if p != want[i] {
			return fmt.Errorf("kernel %s differs at cell %d: %v != %v", v.kernel.LastKernel(), i, p, want[i])
		}
	}
	return nil
}
