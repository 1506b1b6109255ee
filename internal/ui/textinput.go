// Package ui holds the small ebiten widgets of the airport board.
package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	inputBg       = color.RGBA{40, 40, 48, 255}
	inputBgActive = color.RGBA{70, 70, 84, 255}
)

// TextInput is a one-line command prompt. OnSubmit receives the trimmed
// line when Enter is pressed.
type TextInput struct {
	Text     string
	Prompt   string
	IsActive bool
	X, Y     int
	Width    int
	Height   int
	OnSubmit func(string)
}

func NewTextInput(x, y, width, height int, onSubmit func(string)) *TextInput {
	return &TextInput{
		Prompt:   "> ",
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		OnSubmit: onSubmit,
	}
}

func (ti *TextInput) Update() {
	if !ti.IsActive {
		return
	}

	ti.Text += string(ebiten.AppendInputChars(nil))

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(ti.Text) > 0 {
		ti.Text = ti.Text[:len(ti.Text)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ti.Text = ""
		ti.IsActive = false
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		line := strings.TrimSpace(ti.Text)
		ti.Text = ""
		if line != "" && ti.OnSubmit != nil {
			ti.OnSubmit(line)
		}
	}
}

func (ti *TextInput) Draw(screen *ebiten.Image) {
	bg := inputBg
	if ti.IsActive {
		bg = inputBgActive
	}
	x, y, w, h := float32(ti.X), float32(ti.Y), float32(ti.Width), float32(ti.Height)
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 1, color.White, false)

	txt := ti.Prompt + ti.Text
	if ti.IsActive {
		txt += "_"
	}
	ebitenutil.DebugPrintAt(screen, txt, ti.X+5, ti.Y+(ti.Height-16)/2)
}

func (ti *TextInput) IsClicked(mouseX, mouseY int) bool {
	return mouseX >= ti.X && mouseX <= ti.X+ti.Width &&
		mouseY >= ti.Y && mouseY <= ti.Y+ti.Height
}
