//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"morphgrid/internal/core"
)

// HUD draws the graph's parameter snapshot in the top-left corner.
type HUD struct {
	provider core.ParameterProvider
	lines    []string
	panel    *ebiten.Image
}

// NewHUD constructs a HUD reading from provider.
func NewHUD(provider core.ParameterProvider) *HUD {
	return &HUD{provider: provider}
}

// Update refreshes the cached lines from the provider.
func (h *HUD) Update() {
	if h == nil || h.provider == nil {
		return
	}
	h.lines = Lines(h.provider.Parameters())
}

// Draw paints the panel and its lines.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || len(h.lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	const lineHeight, pad = 14, 6
	w := 0
	for _, l := range h.lines {
		if n := len(l) * 7; n > w {
			w = n
		}
	}
	height := len(h.lines)*lineHeight + 2*pad
	if h.panel == nil || h.panel.Bounds().Dx() != w+2*pad || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(w+2*pad, height)
	}
	h.panel.Fill(color.RGBA{R: 0, G: 0, B: 0, A: 160})
	for i, l := range h.lines {
		text.Draw(h.panel, l, face, pad, pad+(i+1)*lineHeight-3, color.White)
	}
	screen.DrawImage(h.panel, nil)
}
