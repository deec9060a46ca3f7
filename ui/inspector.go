package ui

import (
	"fmt"
	"math"

	"github.com/pthm-cable/aviary/world"
)

// BirdPanel shows the state and current vision of the selected bird.
type BirdPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewBirdPanel creates a new bird inspector panel.
func NewBirdPanel(x, y, width int32) *BirdPanel {
	return &BirdPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *BirdPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel for bird b with its eye activations.
func (p *BirdPanel) Draw(b world.BirdView, vision []float32) {
	r := p.renderer
	pad := r.Theme.Padding
	lines := int32(5 + len(vision))
	height := lines*(r.Theme.LineHeight+2) + 2*pad

	r.DrawPanel(p.x, p.y, p.width, height)
	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, fmt.Sprintf("Bird #%d", b.ID))

	y = r.DrawLabelValue(x, y, "Eaten", fmt.Sprintf("%d", b.Satiation))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.4f", b.Speed))
	y = r.DrawLabelValue(x, y, "Heading", fmt.Sprintf("%.0f°", float64(b.Heading)*180/math.Pi))
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.3f, %.3f)", b.Position.X, b.Position.Y))

	for i, v := range vision {
		y = r.DrawBar(x, y, fmt.Sprintf("Cell %d", i), v, 1, p.width-2*pad)
	}
}
