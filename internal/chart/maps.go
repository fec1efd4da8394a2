package chart

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// Oregon bounding box, centered on (44.0, -120.5).
const (
	minLon = -124.7
	maxLon = -116.3
	minLat = 41.9
	maxLat = 46.3

	landColor = "#ECE2D2"
)

func oregonAxes(p *plot.Plot) {
	p.X.Min, p.X.Max = minLon, maxLon
	p.Y.Min, p.Y.Max = minLat, maxLat
	p.BackgroundColor = hex(landColor)
}

// TopFiresBubbleMap places each fire at its coordinates with an area
// proportional to acres burned, colored by fire year. Labels carry the fire
// name and, when geocoded, the place name.
func TopFiresBubbleMap(fires []domain.FireRecord) Figure {
	return gonumFigure("top_fires_map", 12*vg.Inch, 8*vg.Inch, func() (*plot.Plot, error) {
		p := newPlot("Largest Oregon Fires 2000-2022", "Longitude", "Latitude")
		oregonAxes(p)
		if len(fires) == 0 {
			return p, nil
		}

		var years []int
		maxAcres := 0.0
		for _, f := range fires {
			if !slices.Contains(years, f.FireYear) {
				years = append(years, f.FireYear)
			}
			maxAcres = math.Max(maxAcres, f.EstTotalAcres)
		}
		slices.Sort(years)
		colors := palette.Rainbow(len(years), 0, 0.8, 1, 1, 0.7).Colors()

		points := make(plotter.XYs, 0, len(fires))
		labels := make([]string, 0, len(fires))
		for _, year := range years {
			var first *plotter.Scatter
			for _, f := range fires {
				if f.FireYear != year {
					continue
				}
				s, err := plotter.NewScatter(plotter.XYs{{X: f.Longitude, Y: f.Latitude}})
				if err != nil {
					return nil, err
				}
				s.GlyphStyle.Shape = draw.CircleGlyph{}
				s.GlyphStyle.Color = colors[slices.Index(years, year)]
				s.GlyphStyle.Radius = bubbleRadius(f.EstTotalAcres, maxAcres)
				p.Add(s)
				if first == nil {
					first = s
				}

				points = append(points, plotter.XY{X: f.Longitude, Y: f.Latitude})
				labels = append(labels, bubbleLabel(f))
			}
			if first != nil {
				p.Legend.Add(fmt.Sprint(year), first)
			}
		}

		names, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
		if err != nil {
			return nil, err
		}
		for i := range names.TextStyle {
			names.TextStyle[i].Font.Size = vg.Points(7)
		}
		p.Add(names)
		p.Legend.Top = true
		p.Add(plotter.NewGrid())
		return p, nil
	})
}

func bubbleRadius(acres, maxAcres float64) vg.Length {
	if maxAcres <= 0 {
		return vg.Points(3)
	}
	return vg.Points(3 + 27*math.Sqrt(acres/maxAcres))
}

func bubbleLabel(f domain.FireRecord) string {
	if f.PlaceName != "" {
		return fmt.Sprintf("%s (%s)", f.FireName, f.PlaceName)
	}
	return f.FireName
}

// Density grid resolution in degrees.
const cellDeg = 0.1

// kernelCells is how far, in cells, one fire spreads its weight.
const kernelCells = 2

// fireGrid is a regular lon/lat grid of smoothed fire counts. It satisfies
// plotter.GridXYZ.
type fireGrid struct {
	cols, rows int
	z          []float64
}

func newFireGrid() *fireGrid {
	cols := int(math.Round((maxLon - minLon) / cellDeg))
	rows := int(math.Round((maxLat - minLat) / cellDeg))
	return &fireGrid{cols: cols, rows: rows, z: make([]float64, cols*rows)}
}

func (g *fireGrid) Dims() (c, r int) { return g.cols, g.rows }
func (g *fireGrid) X(c int) float64   { return minLon + (float64(c)+0.5)*cellDeg }
func (g *fireGrid) Y(r int) float64   { return minLat + (float64(r)+0.5)*cellDeg }

// Z reports empty cells as NaN so they render transparent.
func (g *fireGrid) Z(c, r int) float64 {
	v := g.z[r*g.cols+c]
	if v == 0 {
		return math.NaN()
	}
	return v
}

// add spreads one fire over nearby cells with Gaussian weights.
func (g *fireGrid) add(lat, lon float64) {
	c0 := int(math.Floor((lon - minLon) / cellDeg))
	r0 := int(math.Floor((lat - minLat) / cellDeg))
	for dr := -kernelCells; dr <= kernelCells; dr++ {
		for dc := -kernelCells; dc <= kernelCells; dc++ {
			c, r := c0+dc, r0+dr
			if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
				continue
			}
			d2 := float64(dc*dc + dr*dr)
			g.z[r*g.cols+c] += math.Exp(-d2 / 2)
		}
	}
}

func (g *fireGrid) max() float64 {
	return slices.Max(g.z)
}

// DensityMap draws a smoothed heat map of fire locations for one year.
func DensityMap(fires []analysis.YearFire, year int) Figure {
	return gonumFigure(fmt.Sprintf("fires_%d_density", year), 12*vg.Inch, 8*vg.Inch, func() (*plot.Plot, error) {
		p := newPlot(fmt.Sprintf("Oregon Fires Throughout %d", year), "Longitude", "Latitude")
		oregonAxes(p)

		g := newFireGrid()
		for _, f := range fires {
			g.add(f.Latitude, f.Longitude)
		}

		h := plotter.NewHeatMap(g, palette.Heat(16, 1))
		h.Min = 0
		h.Max = math.Max(g.max(), 1)
		h.NaN = color.Transparent
		p.Add(h)
		return p, nil
	})
}
