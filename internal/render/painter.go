//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"morphgrid/internal/core"
)

// PointPainter uploads splatted points into an ebiten image.
type PointPainter struct {
	*Splatter
	img   *ebiten.Image
	dirty bool
}

// NewPointPainter allocates a painter for a w x h view.
func NewPointPainter(w, h int) *PointPainter {
	return &PointPainter{Splatter: NewSplatter(w, h), img: ebiten.NewImage(w, h)}
}

// Draw implements graph.Renderer. The upload happens in Blit.
func (p *PointPainter) Draw(buf *core.PositionBuffer, step float32) error {
	if err := p.Splatter.Draw(buf, step); err != nil {
		return err
	}
	p.dirty = true
	return nil
}

// Blit uploads pending pixels and draws the image at the given scale.
func (p *PointPainter) Blit(dst *ebiten.Image, scale int) {
	if p.dirty {
		p.img.WritePixels(p.Pixels())
		p.dirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
