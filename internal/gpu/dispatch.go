package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"morphgrid/internal/core"
	"morphgrid/internal/grid"
	"morphgrid/internal/surface"
)

// MaxWorkgroupsPerDimension is the WebGPU default limit on workgroups per
// dispatch dimension.
const MaxWorkgroupsPerDimension = 65535

// PositionStride is the size in bytes of one packed position.
const PositionStride = 3 * 4

// BufferSize returns the byte size of a position buffer that can hold any
// grid up to maxResolution, so resolution changes never reallocate it.
func BufferSize(maxResolution int) int {
	return maxResolution * maxResolution * PositionStride
}

// Params is the uniform block read by every kernel.
type Params struct {
	Resolution uint32
	Step       float32
	Time       float32
	// Progress is already eased; kernels blend with it directly.
	Progress float32
}

// ParamsSize is the byte size of the encoded Params block.
const ParamsSize = 16

// NewParams builds the uniform block for a frame. rawProgress is the
// scheduler's linear progress and is eased here.
func NewParams(cfg grid.Config, t, rawProgress float32) Params {
	return Params{
		Resolution: uint32(cfg.Resolution),
		Step:       cfg.Step(),
		Time:       t,
		Progress:   surface.SmoothStep(rawProgress),
	}
}

// Put encodes p into b in the little-endian std140 layout the kernels
// declare. b must hold at least ParamsSize bytes.
func (p Params) Put(b []byte) {
	_ = b[ParamsSize-1]
	binary.LittleEndian.PutUint32(b[0:], p.Resolution)
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.Step))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(p.Time))
	binary.LittleEndian.PutUint32(b[12:], math.Float32bits(p.Progress))
}

func readParams(b []byte) Params {
	_ = b[ParamsSize-1]
	return Params{
		Resolution: binary.LittleEndian.Uint32(b[0:]),
		Step:       math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Time:       math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
		Progress:   math.Float32frombits(binary.LittleEndian.Uint32(b[12:])),
	}
}

// Groups is a workgroup count per dimension.
type Groups struct {
	X, Y, Z uint32
}

// DispatchSize returns the workgroup counts covering a resolution² grid with
// TileSize x TileSize groups.
func DispatchSize(resolution int) Groups {
	n := uint32(grid.TileCount(resolution))
	return Groups{X: n, Y: n, Z: 1}
}

// Validate checks the counts against zero and the per-dimension limit.
func (g Groups) Validate() error {
	if g.X == 0 || g.Y == 0 || g.Z == 0 {
		return fmt.Errorf("%w: (%d, %d, %d)", ErrWorkgroupCountZero, g.X, g.Y, g.Z)
	}
	if g.X > MaxWorkgroupsPerDimension || g.Y > MaxWorkgroupsPerDimension || g.Z > MaxWorkgroupsPerDimension {
		return fmt.Errorf("%w: (%d, %d, %d)", ErrWorkgroupCountExceedsLimit, g.X, g.Y, g.Z)
	}
	return nil
}

// Dispatcher runs a compiled kernel over a position buffer it owns. It is the
// seam to the external GPU: implementations bind the buffer and params,
// dispatch, and make the results visible before returning.
type Dispatcher interface {
	Dispatch(k *Kernel, p Params, groups Groups) error
}

// Emulator executes kernels on the CPU in a single pass over every workgroup
// and local invocation. It follows the same bounds check and indexing as the
// WGSL kernel and serves headless runs and tests. Like the device buffer, its
// buffer is allocated once at BufferSize(maxResolution) and only re-viewed
// per dispatch. Params reach the kernel through the encoded uniform block.
type Emulator struct {
	buf     *core.PositionBuffer
	size    int
	uniform [ParamsSize]byte
}

// NewEmulator returns an Emulator able to hold grids up to maxResolution.
func NewEmulator(maxResolution int) *Emulator {
	size := BufferSize(maxResolution)
	buf := core.NewPositionBuffer(maxResolution)
	core.Logger().Debug("allocated emulator buffer", "bytes", size, "maxResolution", maxResolution)
	return &Emulator{buf: buf, size: size}
}

// Buffer returns the positions written by the last Dispatch.
func (e *Emulator) Buffer() *core.PositionBuffer { return e.buf }

// Dispatch implements Dispatcher.
func (e *Emulator) Dispatch(k *Kernel, p Params, groups Groups) error {
	if k == nil {
		return ErrNilKernel
	}
	if err := groups.Validate(); err != nil {
		return err
	}
	if need := BufferSize(int(p.Resolution)); need > e.size {
		return fmt.Errorf("%w: resolution %d needs %d bytes, have %d", ErrBufferTooSmall, p.Resolution, need, e.size)
	}
	p.Put(e.uniform[:])
	p = readParams(e.uniform[:])
	res := int(p.Resolution)
	if e.buf.Resolution() != res {
		e.buf.Resize(res)
	}
	from, to := surface.Get(k.Key.From), surface.Get(k.Key.To)
	cfg := grid.Config{Resolution: res}
	pos := e.buf.Positions()
	for gy := uint32(0); gy < groups.Y; gy++ {
		for gx := uint32(0); gx < groups.X; gx++ {
			for ly := 0; ly < grid.TileSize; ly++ {
				for lx := 0; lx < grid.TileSize; lx++ {
					x := int(gx)*grid.TileSize + lx
					z := int(gy)*grid.TileSize + ly
					if x >= res || z >= res {
						continue
					}
					u, v := cfg.UV(x, z)
					pt := to(u, v, p.Time)
					if k.Key.Morph() {
						pt = core.Lerp(from(u, v, p.Time), pt, p.Progress)
					}
					pos[x+z*res] = pt
				}
			}
		}
	}
	return nil
}
