//go:build ebiten

package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"morphgrid/internal/core"
	"morphgrid/internal/render"
	"morphgrid/internal/ui"
)

// Game adapts a graph to the ebiten.Game interface.
type Game struct {
	graph   Frame
	painter *render.PointPainter
	hud     *ui.HUD
	clock   *core.Clock

	scale  int
	size   int
	paused bool
	orbit  bool
	title  string
}

// New constructs a Game. painter must be the renderer the graph draws into.
func New(graph Frame, painter *render.PointPainter, cfg *Config) *Game {
	return &Game{
		graph:   graph,
		painter: painter,
		hud:     ui.NewHUD(graph),
		clock:   cfg.Clock(),
		scale:   cfg.Scale,
		size:    cfg.Size,
		orbit:   true,
	}
}

// Update handles per-frame logic and advances the graph.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.orbit = !g.orbit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.graph.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		if err := ScaleResolution(g.graph, 2); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		if err := ScaleResolution(g.graph, 0.5); err != nil {
			return err
		}
	}
	if g.paused {
		return nil
	}
	t, dt := g.clock.Tick()
	if g.orbit {
		g.painter.Camera.Yaw += dt * 0.2
	}
	if err := g.graph.Frame(t, dt); err != nil {
		return err
	}
	g.hud.Update()
	if title := Title(g.graph.Parameters()); title != g.title {
		g.title = title
		ebiten.SetWindowTitle(title)
	}
	return nil
}

// Draw renders the last frame and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.scale)
	g.hud.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size * g.scale, g.size * g.scale
}
