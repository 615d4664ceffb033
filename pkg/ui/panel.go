package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is the interface every panel entry implements.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
}

type entry struct {
	widget Widget
	label  string // drawn above the widget; empty for section headers
	header string // non-empty marks a section header row
	height float64
}

// Panel stacks labeled widgets vertically inside a translucent box. Widgets
// are positioned once at add time; the panel is small enough not to scroll.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string

	entries []entry
	cursor  float64 // Next widget Y offset, relative to the panel top

	BGColor     color.RGBA
	BorderColor color.RGBA
}

// NewPanel creates a widget panel at the given position.
func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		cursor:      28, // Leave room for the title row
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection adds a section header row.
func (p *Panel) AddSection(title string) {
	p.entries = append(p.entries, entry{header: title, height: 24})
	p.cursor += 24
}

// AddSlider adds a labeled slider and returns it for value reads.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, p.Y+p.cursor+16, p.Width-70, label, min, max, value)
	p.entries = append(p.entries, entry{widget: s, label: label, height: 34})
	p.cursor += 34
	return s
}

// AddIntSlider adds a whole-number slider (population controls).
func (p *Panel) AddIntSlider(label string, min, max, value int) *Slider {
	s := p.AddSlider(label, float64(min), float64(max), float64(value))
	s.Integer = true
	return s
}

// AddCheckbox adds a labeled checkbox and returns it for value reads.
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, p.Y+p.cursor+2, label, value)
	p.entries = append(p.entries, entry{widget: c, label: label, height: 26})
	p.cursor += 26
	return c
}

// AddButton adds a full-width button row.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, p.Y+p.cursor+4, p.Width-20, 24, label, onClick)
	p.entries = append(p.entries, entry{widget: b, height: 34})
	p.cursor += 34
	return b
}

// Contains reports whether a screen point falls inside the panel, so the
// host can keep clicks on widgets from leaking into the scene (for instance
// goal placement).
func (p *Panel) Contains(mx, my int) bool {
	return float64(mx) >= p.X && float64(mx) <= p.X+p.Width &&
		float64(my) >= p.Y && float64(my) <= p.Y+p.Height
}

// Update handles input for all widgets.
func (p *Panel) Update() {
	for _, e := range p.entries {
		if e.widget != nil {
			e.widget.Update()
		}
	}
}

// Draw renders the panel and all widgets.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+6))

	y := p.Y + 28
	for _, e := range p.entries {
		if e.header != "" {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 18,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, e.header, int(p.X+10), int(y+2))
		} else {
			if e.label != "" {
				if _, isCheckbox := e.widget.(*Checkbox); isCheckbox {
					// Checkbox labels sit beside the box
					ebitenutil.DebugPrintAt(screen, e.label, int(p.X+34), int(y+4))
				} else {
					ebitenutil.DebugPrintAt(screen, e.label, int(p.X+10), int(y))
				}
			}
			e.widget.Draw(screen)
		}
		y += e.height
	}
}
