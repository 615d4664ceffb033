package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal drag widget for a float value. Setting Integer
// snaps the value to whole numbers, which is what population controls want.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Integer  bool
	X, Y     float64
	W, H     float64
}

// NewSlider creates a slider at the given position.
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	return &Slider{
		Label: label,
		Value: value,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     w,
		H:     12,
	}
}

// Update checks for mouse interaction.
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if float64(mx) < s.X || float64(mx) > s.X+s.W ||
		float64(my) < s.Y || float64(my) > s.Y+s.H {
		return
	}

	p := (float64(mx) - s.X) / s.W
	s.Value = s.Min + p*(s.Max-s.Min)
	if s.Value < s.Min {
		s.Value = s.Min
	}
	if s.Value > s.Max {
		s.Value = s.Max
	}
	if s.Integer {
		s.Value = float64(int(s.Value + 0.5))
	}
}

// Draw renders the slider track, fill bar and current value.
func (s *Slider) Draw(screen *ebiten.Image) {
	// Track
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Fill bar
	ratio := (s.Value - s.Min) / (s.Max - s.Min)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H),
		color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// Current value, right-aligned next to the track
	var txt string
	if s.Integer {
		txt = fmt.Sprintf("%d", int(s.Value))
	} else {
		txt = fmt.Sprintf("%.3f", s.Value)
	}
	ebitenutil.DebugPrintAt(screen, txt, int(s.X+s.W+6), int(s.Y-2))
}
