package chart

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// Hue colors per cause category, in domain.CauseCategories order.
var (
	ViolinColors = []string{"#8DD3C7", "#FFFFB3", "#BEBADA"}
	BoxColors    = []string{"#C4B1DB", "#9DDAF6", "#FBBCB1"}
)

const violinHalfWidth = 0.4

// ClassViolin draws one violin per cause category for the acres of a single
// size class. records must already be restricted to that class.
func ClassViolin(class domain.SizeClass, records []domain.FireRecord) Figure {
	name := "class_" + strings.ToLower(class.String()) + "_violin"
	return gonumFigure(name, Width, Height, func() (*plot.Plot, error) {
		p := newPlot(fmt.Sprintf("Class %s Fires by Cause", class), "Cause", "Estimated Total Acres")
		groups := analysis.AcresByCause(records)

		var labels []string
		pos := 0
		for i, cause := range domain.CauseCategories {
			xs, ok := groups[cause]
			if !ok {
				continue
			}
			poly, err := violin(float64(pos), xs)
			if err != nil {
				return nil, err
			}
			poly.Color = hex(ViolinColors[i%len(ViolinColors)])
			poly.LineStyle.Width = vg.Points(1)
			p.Add(poly)
			p.Legend.Add(cause.String(), poly)

			median := analysis.Quantile(sortedAcres(xs), 0.5)
			tick, err := plotter.NewScatter(plotter.XYs{{X: float64(pos), Y: median}})
			if err != nil {
				return nil, err
			}
			tick.GlyphStyle.Shape = draw.CircleGlyph{}
			tick.GlyphStyle.Radius = vg.Points(3)
			p.Add(tick)

			labels = append(labels, cause.String())
			pos++
		}
		if len(labels) > 0 {
			p.NominalX(labels...)
		}
		p.Legend.Top = true
		p.Add(plotter.NewGrid())
		return p, nil
	})
}

// violin outlines a mirrored density estimate of xs centered on x.
func violin(x float64, xs []float64) (*plotter.Polygon, error) {
	s := sortedAcres(xs)
	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	grid := analysis.Linspace(lo, hi, 100)
	density := analysis.KDE(s, nil, grid, analysis.SilvermanBandwidth(s))

	peak := slices.Max(density)
	scale := 0.0
	if peak > 0 {
		scale = violinHalfWidth / peak
	}

	outline := make(plotter.XYs, 0, 2*len(grid))
	for i, y := range grid {
		outline = append(outline, plotter.XY{X: x - density[i]*scale, Y: y})
	}
	for i := len(grid) - 1; i >= 0; i-- {
		outline = append(outline, plotter.XY{X: x + density[i]*scale, Y: grid[i]})
	}
	return plotter.NewPolygon(outline)
}

// ClassBox draws one box plot per cause category for the acres of a single
// size class. records must already be restricted to that class.
func ClassBox(class domain.SizeClass, records []domain.FireRecord) Figure {
	name := "class_" + strings.ToLower(class.String()) + "_box"
	return gonumFigure(name, Width, Height, func() (*plot.Plot, error) {
		p := newPlot(fmt.Sprintf("Class %s Fires by Cause", class), "Cause", "Estimated Total Acres")
		groups := analysis.AcresByCause(records)

		var labels []string
		pos := 0
		for i, cause := range domain.CauseCategories {
			xs, ok := groups[cause]
			if !ok {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(40), float64(pos), plotter.Values(xs))
			if err != nil {
				return nil, err
			}
			box.FillColor = hex(BoxColors[i%len(BoxColors)])
			p.Add(box)
			labels = append(labels, cause.String())
			pos++
		}
		if len(labels) > 0 {
			p.NominalX(labels...)
		}
		p.Add(plotter.NewGrid())
		return p, nil
	})
}

func sortedAcres(xs []float64) []float64 {
	s := slices.Clone(xs)
	slices.Sort(s)
	return s
}
