package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when a figure has nothing to draw and no sensible
// empty rendering exists.
var ErrNoData = errors.New("no data to chart")

// Default figure size.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// Figure is a named chart ready to be written as PNG.
type Figure struct {
	Name   string
	render func(w io.Writer) error
}

// Render writes the figure as PNG.
func (f Figure) Render(w io.Writer) error {
	if err := f.render(w); err != nil {
		return fmt.Errorf("render %s: %w", f.Name, err)
	}
	return nil
}

// gonumFigure wraps a gonum plot builder as a Figure.
func gonumFigure(name string, width, height vg.Length, build func() (*plot.Plot, error)) Figure {
	return Figure{
		Name: name,
		render: func(w io.Writer) error {
			p, err := build()
			if err != nil {
				return err
			}
			wt, err := p.WriterTo(width, height, "png")
			if err != nil {
				return fmt.Errorf("encode png: %w", err)
			}
			_, err = wt.WriteTo(w)
			return err
		},
	}
}

// hex converts "#RRGGBB" to a color. drawing.Color satisfies color.Color.
func hex(s string) color.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}
