package core

// PositionBuffer stores resolution² positions in row-major order, x varying
// fastest.
type PositionBuffer struct {
	res  int
	data []Vec3
}

// NewPositionBuffer allocates a buffer for a square grid of the given
// resolution.
func NewPositionBuffer(resolution int) *PositionBuffer {
	if resolution < 0 {
		resolution = 0
	}
	return &PositionBuffer{res: resolution, data: make([]Vec3, resolution*resolution)}
}

// Resolution returns the number of samples per axis.
func (b *PositionBuffer) Resolution() int { return b.res }

// Len returns the number of positions, resolution².
func (b *PositionBuffer) Len() int { return len(b.data) }

// Positions exposes the backing slice so evaluators can write in place.
func (b *PositionBuffer) Positions() []Vec3 { return b.data }

// Resize changes the resolution, reusing the existing allocation when it is
// large enough. Contents are undefined afterwards.
func (b *PositionBuffer) Resize(resolution int) {
	if resolution < 0 {
		resolution = 0
	}
	n := resolution * resolution
	if cap(b.data) >= n {
		b.data = b.data[:n]
	} else {
		b.data = make([]Vec3, n)
	}
	b.res = resolution
}
