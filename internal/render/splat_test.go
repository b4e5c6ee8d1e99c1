package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphgrid/internal/core"
)

func TestPointColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, PointColor(core.Vec3{}))
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 255, A: 255}, PointColor(core.Vec3{X: -1, Y: 1, Z: 3}))
}

func TestProjectCenter(t *testing.T) {
	cam := Camera{Zoom: 1}
	x, y, _ := cam.Project(core.Vec3{}, 100, 60)
	assert.Equal(t, 50, x)
	assert.Equal(t, 30, y)

	// Up is towards smaller screen y.
	_, y, _ = cam.Project(core.Vec3{Y: 0.5}, 100, 60)
	assert.Equal(t, 15, y)
}

func TestSplatterDepthTest(t *testing.T) {
	s := NewSplatter(20, 20)
	s.Camera = Camera{Zoom: 1}
	buf := core.NewPositionBuffer(2)
	pos := buf.Positions()
	// Same screen spot; larger z is farther away with no rotation.
	pos[0] = core.Vec3{Z: 0.9}
	pos[1] = core.Vec3{Z: -0.9}
	pos[2] = core.Vec3{X: 5, Y: 5}
	pos[3] = core.Vec3{X: 5, Y: 5}
	require.NoError(t, s.Draw(buf, 0.1))

	idx := (10*20 + 10) * 4
	want := PointColor(pos[1])
	got := color.RGBA{R: s.Pixels()[idx], G: s.Pixels()[idx+1], B: s.Pixels()[idx+2], A: s.Pixels()[idx+3]}
	assert.Equal(t, want, got)

	// Untouched pixels keep the background.
	assert.Equal(t, s.Background.R, s.Pixels()[0])
	assert.Equal(t, s.Background.A, s.Pixels()[3])
}

func TestPointSize(t *testing.T) {
	s := NewSplatter(200, 100)
	s.Camera.Zoom = 1
	assert.Equal(t, 5, s.PointSize(0.1))
	assert.Equal(t, 1, s.PointSize(0.001))
}
