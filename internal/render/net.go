// Package render draws puzzle state for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubeanim/internal/facecube"
	"github.com/SeamusWaldron/cubeanim/internal/model"
)

// Renderer draws an unfolded cube net with one colored cell per sticker.
type Renderer struct {
	// Plain prints color letters instead of colored cells.
	Plain bool
	// CellWidth is the width of one sticker in columns; 0 means 2.
	CellWidth int

	styles [6]lipgloss.Style
}

// New returns a renderer for colored output.
func New() *Renderer {
	r := &Renderer{}
	for c := model.White; c <= model.Blue; c++ {
		r.styles[c] = lipgloss.NewStyle().
			Background(lipgloss.Color(c.Hex())).
			Foreground(lipgloss.Color("#000000"))
	}
	return r
}

// Net renders a 54-character facelet string.
func (r *Renderer) Net(facelets string) (string, error) {
	c, err := facecube.Parse(facelets)
	if err != nil {
		return "", err
	}
	return r.Cube(c), nil
}

// Cube renders c as
//
//	    U
//	  L F R B
//	    D
func (r *Renderer) Cube(c facecube.Cube) string {
	width := r.CellWidth
	if width <= 0 {
		width = 2
	}
	blank := strings.Repeat(" ", 3*width)

	var sb strings.Builder
	row := func(f model.Face, i int) {
		for col := 0; col < 3; col++ {
			sb.WriteString(r.cell(c.Color(model.CodeAt(int(f)*9+i*3+col)), width))
		}
	}

	for i := 0; i < 3; i++ {
		sb.WriteString(blank)
		row(model.U, i)
		sb.WriteByte('\n')
	}
	for i := 0; i < 3; i++ {
		for _, f := range []model.Face{model.L, model.F, model.R, model.B} {
			row(f, i)
		}
		sb.WriteByte('\n')
	}
	for i := 0; i < 3; i++ {
		sb.WriteString(blank)
		row(model.D, i)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Renderer) cell(color model.Color, width int) string {
	text := color.String() + strings.Repeat(" ", width-1)
	if r.Plain || color < model.White || color > model.Blue {
		return text
	}
	return r.styles[color].Render(text)
}
