package dashboard

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// BarColor is the fill of every dashboard bar.
const BarColor = "#E47136"

// Axis titles of the dashboard chart.
const (
	XLabel = "Fire Name"
	YLabel = "Estimated Total Acres"
)

// Selection is the state of the three dashboard controls. The zero values of
// SizeClass and Cause are the placeholder labels and match no row.
type Selection struct {
	SizeClass domain.SizeClass     `json:"size_class"`
	Cause     domain.CauseCategory `json:"cause"`
	Year      int                  `json:"year"`
}

// Bar is one fire in the dashboard chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Render is everything needed to draw the dashboard chart for a selection.
type Render struct {
	Selection Selection `json:"selection"`
	Title     string    `json:"title"`
	XLabel    string    `json:"x_label"`
	YLabel    string    `json:"y_label"`
	Color     string    `json:"color"`
	Bars      []Bar     `json:"bars"`
}

// Title formats the chart title for a selection.
func Title(sel Selection) string {
	return fmt.Sprintf("Oregon Class Size %s Fires in %d (Cause: %s)", sel.SizeClass, sel.Year, sel.Cause)
}

// Recompute filters the grouped summary to rows matching all three selected
// values and returns one bar per fire name, summing acres when a name occurs
// more than once. Bars are ordered by name. No match yields zero bars.
func Recompute(summary []analysis.GroupedFire, sel Selection) Render {
	sums := make(map[string]float64)
	for _, row := range summary {
		if row.SizeClass != sel.SizeClass || row.Cause != sel.Cause || row.FireYear != sel.Year {
			continue
		}
		sums[row.FireName] += row.Acres
	}

	bars := make([]Bar, 0, len(sums))
	for name, acres := range sums {
		bars = append(bars, Bar{Label: name, Value: acres})
	}
	slices.SortFunc(bars, func(a, b Bar) int { return cmp.Compare(a.Label, b.Label) })

	return Render{
		Selection: sel,
		Title:     Title(sel),
		XLabel:    XLabel,
		YLabel:    YLabel,
		Color:     BarColor,
		Bars:      bars,
	}
}

// Options are the values offered by the three controls.
type Options struct {
	SizeClasses []domain.SizeClass     `json:"size_classes"`
	Causes      []domain.CauseCategory `json:"causes"`
	MinYear     int                    `json:"min_year"`
	MaxYear     int                    `json:"max_year"`
	Years       []int                  `json:"years"`
}

// BuildOptions lists size classes in class order, causes in first-seen order,
// and the distinct years ascending.
func BuildOptions(summary []analysis.GroupedFire) Options {
	var opts Options
	classes := make(map[domain.SizeClass]bool)
	causes := make(map[domain.CauseCategory]bool)
	years := make(map[int]bool)

	for _, row := range summary {
		classes[row.SizeClass] = true
		if !causes[row.Cause] {
			causes[row.Cause] = true
			opts.Causes = append(opts.Causes, row.Cause)
		}
		if !years[row.FireYear] {
			years[row.FireYear] = true
			opts.Years = append(opts.Years, row.FireYear)
		}
	}
	for _, c := range domain.SizeClasses {
		if classes[c] {
			opts.SizeClasses = append(opts.SizeClasses, c)
		}
	}
	slices.Sort(opts.Years)
	if len(opts.Years) > 0 {
		opts.MinYear = opts.Years[0]
		opts.MaxYear = opts.Years[len(opts.Years)-1]
	}
	return opts
}

// SnapYear returns the known year closest to y, preferring the lower year on
// a tie. years must be ascending and non-empty.
func SnapYear(years []int, y int) int {
	i, found := slices.BinarySearch(years, y)
	switch {
	case found:
		return years[i]
	case i == 0:
		return years[0]
	case i == len(years):
		return years[len(years)-1]
	}
	lo, hi := years[i-1], years[i]
	if hi-y < y-lo {
		return hi
	}
	return lo
}
