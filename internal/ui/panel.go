package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const LineHeight = 16

var panelBorder = color.RGBA{0, 100, 0, 255}

// Panel is a titled box that prints lines of debug text.
type Panel struct {
	Title  string
	X, Y   int
	Width  int
	Height int
}

// MaxLines is how many lines fit under the title.
func (p Panel) MaxLines() int {
	n := (p.Height-8)/LineHeight - 1
	if n < 0 {
		return 0
	}
	return n
}

// Draw prints as many lines as fit; colors, when given, tint the swatch in
// front of the matching line.
func (p Panel) Draw(screen *ebiten.Image, lines []string, colors []color.Color) {
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 1, panelBorder, false)
	ebitenutil.DebugPrintAt(screen, p.Title, p.X+6, p.Y+4)

	if len(lines) > p.MaxLines() {
		lines = lines[:p.MaxLines()]
	}
	for i, line := range lines {
		y := p.Y + 4 + (i+1)*LineHeight
		x := p.X + 6
		if i < len(colors) && colors[i] != nil {
			vector.DrawFilledRect(screen, float32(x), float32(y+4), 8, 8, colors[i], false)
			x += 12
		}
		ebitenutil.DebugPrintAt(screen, line, x, y)
	}
}
