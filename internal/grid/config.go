package grid

import (
	"errors"
	"fmt"
)

const (
	// MinResolution is the smallest accepted number of samples per axis.
	MinResolution = 10
	// MaxResolution is the largest accepted number of samples per axis.
	MaxResolution = 1000
	// TileSize is the edge length of a work tile, matching an 8x8 thread group.
	TileSize = 8
)

var (
	// ErrResolutionRange is returned for resolutions outside [MinResolution, MaxResolution].
	ErrResolutionRange = errors.New("grid: resolution out of range")
	// ErrBufferSize is returned when the output buffer does not match the grid.
	ErrBufferSize = errors.New("grid: position buffer does not match resolution")
	// ErrUnknownStrategy is returned when no evaluator is registered under a name.
	ErrUnknownStrategy = errors.New("grid: unknown evaluation strategy")
)

// Config describes the sampling grid covering [-1, 1]².
type Config struct {
	Resolution int
}

// Validate reports ErrResolutionRange for out-of-bounds resolutions.
func (c Config) Validate() error {
	if c.Resolution < MinResolution || c.Resolution > MaxResolution {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrResolutionRange, c.Resolution, MinResolution, MaxResolution)
	}
	return nil
}

// Step returns the cell size, 2/resolution.
func (c Config) Step() float32 { return 2 / float32(c.Resolution) }

// Cells returns the total sample count, resolution².
func (c Config) Cells() int { return c.Resolution * c.Resolution }

// Cell maps a linear index to grid coordinates, row-major.
func (c Config) Cell(i int) (x, z int) {
	return i % c.Resolution, i / c.Resolution
}

// UV returns the normalized coordinates of the center of cell (x, z).
func (c Config) UV(x, z int) (u, v float32) {
	step := c.Step()
	return cellCenter(x, step), cellCenter(z, step)
}

// Tiles returns the number of tiles along one axis, ceil(resolution/TileSize).
func (c Config) Tiles() int { return TileCount(c.Resolution) }

// TileCount returns ceil(resolution/TileSize).
func TileCount(resolution int) int {
	if resolution <= 0 {
		return 0
	}
	return (resolution + TileSize - 1) / TileSize
}

func cellCenter(i int, step float32) float32 {
	return float32((float32(i)+0.5)*step) - 1
}
