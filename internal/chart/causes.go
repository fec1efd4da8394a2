package chart

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
)

const causeBarColor = "#9ABAE5"

// GeneralCauseHistogram draws fire counts per general cause with a kernel
// density curve over the category positions, scaled to counts.
func GeneralCauseHistogram(counts []analysis.LabelCount) Figure {
	return gonumFigure("general_causes", 14*vg.Inch, 7*vg.Inch, func() (*plot.Plot, error) {
		p := newPlot("General Causes of Oregon Fires", "Cause", "Count")
		if len(counts) == 0 {
			return p, nil
		}

		values := make(plotter.Values, len(counts))
		labels := make([]string, len(counts))
		positions := make([]float64, len(counts))
		var total float64
		for i, c := range counts {
			values[i] = float64(c.Count)
			labels[i] = c.Label
			positions[i] = float64(i)
			total += float64(c.Count)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(28))
		if err != nil {
			return nil, err
		}
		bars.Color = hex(causeBarColor)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		bw := analysis.SilvermanBandwidth(weightedSample(positions, values))
		grid := analysis.Linspace(-0.5, float64(len(counts))-0.5, 200)
		density := analysis.KDE(positions, values, grid, bw)
		curve := make(plotter.XYs, len(grid))
		for i, x := range grid {
			curve[i].X = x
			curve[i].Y = density[i] * total
		}
		line, err := plotter.NewLine(curve)
		if err != nil {
			return nil, err
		}
		line.Color = hex("#4C72B0")
		line.Width = vg.Points(2)
		p.Add(line)

		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.YAlign = draw.YTop
		p.X.Tick.Label.XAlign = draw.XRight
		p.Y.Min = 0
		p.Add(plotter.NewGrid())
		return p, nil
	})
}

// weightedSample expands integer weights into repeated positions so the
// bandwidth reflects the weighted spread.
func weightedSample(xs []float64, weights plotter.Values) []float64 {
	var out []float64
	for i, x := range xs {
		for range int(weights[i]) {
			out = append(out, x)
		}
	}
	return out
}
