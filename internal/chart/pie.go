package chart

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
)

// AreaColors fill the donut slices in area order of the input table.
var AreaColors = []string{"#F3CBAA", "#AAB3F3", "#F3EDAA"}

// AreaPie draws the share of estimated acres burned per area as a donut.
func AreaPie(areas []analysis.AreaTotal) Figure {
	return Figure{
		Name: "area_acres_pie",
		render: func(w io.Writer) error {
			values := make([]gochart.Value, 0, len(areas))
			for i, a := range areas {
				if a.Acres <= 0 {
					continue
				}
				c := drawing.ColorFromHex(AreaColors[i%len(AreaColors)][1:])
				values = append(values, gochart.Value{
					Label: a.Area.String(),
					Value: a.Acres,
					Style: gochart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
				})
			}
			if len(values) == 0 {
				return ErrNoData
			}
			donut := gochart.DonutChart{
				Title:  "Estimated Total Acres Burned Per Oregon Area",
				Width:  800,
				Height: 800,
				Values: values,
			}
			return donut.Render(gochart.PNG, w)
		},
	}
}
