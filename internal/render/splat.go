// Package render turns a position buffer into pixels: each position is
// projected orthographically and splatted as a small square colored by its
// location, the way the point shader tints instances.
package render

import (
	"image/color"

	"github.com/chewxy/math32"

	"morphgrid/internal/core"
)

// Camera is an orthographic view orbiting the graph's origin.
type Camera struct {
	// Yaw rotates around the vertical axis, in radians.
	Yaw float32
	// Pitch tilts the view down, in radians.
	Pitch float32
	// Zoom scales graph units to half the shorter image edge.
	Zoom float32
}

// DefaultCamera looks slightly down on the graph.
func DefaultCamera() Camera {
	return Camera{Yaw: 0.6, Pitch: 0.45, Zoom: 0.8}
}

// Project maps p to pixel coordinates in a w x h image and returns a depth
// where larger is farther away.
func (c Camera) Project(p core.Vec3, w, h int) (sx, sy int, depth float32) {
	sinY, cosY := math32.Sincos(c.Yaw)
	sinP, cosP := math32.Sincos(c.Pitch)
	x := p.X*cosY - p.Z*sinY
	z := p.X*sinY + p.Z*cosY
	y := p.Y*cosP - z*sinP
	depth = p.Y*sinP + z*cosP

	half := float32(min(w, h)) / 2
	scale := half * c.Zoom
	sx = int(math32.Floor(float32(w)/2 + x*scale))
	sy = int(math32.Floor(float32(h)/2 - y*scale))
	return sx, sy, depth
}

// PointColor tints a position like the point shader: saturate(p*0.5 + 0.5).
func PointColor(p core.Vec3) color.RGBA {
	return color.RGBA{R: channel(p.X), G: channel(p.Y), B: channel(p.Z), A: 255}
}

func channel(v float32) uint8 {
	c := v*0.5 + 0.5
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}

// Splatter rasterizes position buffers into an RGBA pixel buffer with a depth
// test. It implements graph.Renderer without touching any GPU API, so the
// same pixels can be uploaded by any front end.
type Splatter struct {
	W, H       int
	Camera     Camera
	Background color.RGBA

	pix   []byte
	depth []float32
}

// NewSplatter allocates buffers for a w x h image.
func NewSplatter(w, h int) *Splatter {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Splatter{
		W:          w,
		H:          h,
		Camera:     DefaultCamera(),
		Background: color.RGBA{R: 16, G: 16, B: 20, A: 255},
		pix:        make([]byte, 4*w*h),
		depth:      make([]float32, w*h),
	}
}

// Pixels exposes the RGBA buffer written by the last Draw.
func (s *Splatter) Pixels() []byte { return s.pix }

// PointSize returns the splat edge in pixels for a grid step.
func (s *Splatter) PointSize(step float32) int {
	half := float32(min(s.W, s.H)) / 2
	size := int(step * half * s.Camera.Zoom)
	if size < 1 {
		return 1
	}
	return size
}

// Draw implements graph.Renderer.
func (s *Splatter) Draw(buf *core.PositionBuffer, step float32) error {
	fillRGBA(s.pix, s.Background)
	for i := range s.depth {
		s.depth[i] = math32.Inf(1)
	}
	size := s.PointSize(step)
	off := size / 2
	for _, p := range buf.Positions() {
		cx, cy, d := s.Camera.Project(p, s.W, s.H)
		col := PointColor(p)
		for y := cy - off; y < cy-off+size; y++ {
			if y < 0 || y >= s.H {
				continue
			}
			for x := cx - off; x < cx-off+size; x++ {
				if x < 0 || x >= s.W {
					continue
				}
				idx := y*s.W + x
				if d >= s.depth[idx] {
					continue
				}
				s.depth[idx] = d
				setRGBA(s.pix, idx, col)
			}
		}
	}
	return nil
}

// fillRGBA sets every pixel of buf to c.
func fillRGBA(buf []byte, c color.RGBA) {
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i+0] = c.R
		buf[i+1] = c.G
		buf[i+2] = c.B
		buf[i+3] = c.A
	}
}

func setRGBA(buf []byte, idx int, c color.RGBA) {
	base := idx * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}
