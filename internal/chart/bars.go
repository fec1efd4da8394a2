package chart

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/oregon-fire-report/internal/dashboard"
)

// DashboardBars draws the dashboard render as a bar chart. Zero bars yield
// an empty chart with the title and axis labels.
func DashboardBars(r dashboard.Render) Figure {
	return gonumFigure("dashboard", Width, Height, func() (*plot.Plot, error) {
		p := newPlot(r.Title, r.XLabel, r.YLabel)
		if len(r.Bars) == 0 {
			p.X.Min, p.X.Max = 0, 1
			p.Y.Min, p.Y.Max = 0, 1
			return p, nil
		}

		values := make(plotter.Values, len(r.Bars))
		labels := make([]string, len(r.Bars))
		for i, b := range r.Bars {
			values[i] = b.Value
			labels[i] = b.Label
		}

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, err
		}
		bars.Color = hex(r.Color)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		p.NominalX(labels...)
		if len(labels) > 8 {
			p.X.Tick.Label.Rotation = math.Pi / 3
			p.X.Tick.Label.YAlign = draw.YCenter
			p.X.Tick.Label.XAlign = draw.XRight
		}
		p.Y.Min = 0
		return p, nil
	})
}
