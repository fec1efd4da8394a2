// Package xlsx exports a report as an Excel workbook, one sheet per view.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetAreas         = "Areas"
	SheetCauses        = "Causes"
	SheetGeneralCauses = "General Causes"
	SheetSizeClasses   = "Size Classes"
	SheetClassAStats   = "Class A Stats"
	SheetClassGStats   = "Class G Stats"
	SheetTopFires      = "Top Fires"
	SheetTopDistricts  = "Top Districts"
	SheetYearFires     = "Fires In Year"
	SheetGrouped       = "Grouped Fires"
)

// Writer saves reports to a workbook at a fixed path.
// It implements report.Sink.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a workbook exporter for path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Name() string { return "xlsx" }

// Write builds the workbook and saves it, replacing any existing file.
func (w *Writer) Write(_ context.Context, r *report.Report) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	w.logger.Info("workbook saved", "path", w.path, "sheets", len(f.GetSheetList()))
	return nil
}

// Build lays out the report as an in-memory workbook.
func Build(r *report.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}

	b := &builder{f: f}
	b.summary(r)
	b.areas(r)
	b.causes(r)
	b.sizeClasses(r)
	b.stats(SheetClassAStats, r.ClassAStats)
	b.stats(SheetClassGStats, r.ClassGStats)
	b.topFires(r)
	b.topDistricts(r)
	b.yearFires(r)
	b.grouped(r)
	if b.err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", b.err)
	}
	return f, nil
}

// builder records the first excelize error so the layout code stays linear.
type builder struct {
	f   *excelize.File
	err error
}

func (b *builder) sheet(name string, headers ...string) {
	if b.err != nil {
		return
	}
	if name != SheetSummary {
		if _, err := b.f.NewSheet(name); err != nil {
			b.err = err
			return
		}
	}
	b.row(name, 1, toAny(headers)...)
	if b.err != nil {
		return
	}
	last, _ := excelize.ColumnNumberToName(max(len(headers), 1))
	b.err = b.f.SetColWidth(name, "A", last, 18)
}

func (b *builder) row(sheet string, n int, values ...any) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(sheet, cell, &values)
}

func (b *builder) summary(r *report.Report) {
	b.sheet(SheetSummary, "Field", "Value")
	rows := [][]any{
		{"Run ID", r.RunID},
		{"Generated At", r.GeneratedAt.Format(time.RFC3339)},
		{"Source", r.Source},
		{"Records Loaded", r.Loaded},
		{"Dropped (No Coordinates)", r.Dropped},
		{"Acres Imputed", r.Imputed},
		{"Records Analyzed", len(r.Records)},
		{"Projection Year", r.ProjectionYear},
	}
	for i, pair := range r.Aliases {
		rows = append(rows, []any{
			fmt.Sprintf("Alias %d", i+1),
			fmt.Sprintf("%s / %s: %.1f km apart, reach %.1f km, confirmed=%t",
				pair.Primary.FireName, pair.Secondary.FireName, pair.DistanceKm, pair.ReachKm, pair.Confirmed),
		})
	}
	for i, row := range rows {
		b.row(SheetSummary, i+2, row...)
	}
}

func (b *builder) areas(r *report.Report) {
	b.sheet(SheetAreas, "Area", "Name", "Fires", "Estimated Total Acres")
	for i, a := range r.AreaAcres {
		b.row(SheetAreas, i+2, a.Area.String(), a.Area.Name(), a.Fires, a.Acres)
	}
}

func (b *builder) causes(r *report.Report) {
	b.sheet(SheetCauses, "Cause", "Count")
	for i, c := range r.Causes {
		b.row(SheetCauses, i+2, c.Cause.String(), c.Count)
	}
	b.sheet(SheetGeneralCauses, "General Cause", "Count")
	for i, c := range r.GeneralCauses {
		b.row(SheetGeneralCauses, i+2, c.Label, c.Count)
	}
}

func (b *builder) sizeClasses(r *report.Report) {
	b.sheet(SheetSizeClasses, "Size Class", "Count", "Mean Known Acres")
	for i, c := range r.SizeClasses {
		b.row(SheetSizeClasses, i+2, c.Class.String(), c.Count, r.ClassMeans[c.Class])
	}
}

func (b *builder) stats(sheet string, stats []analysis.CauseSummary) {
	b.sheet(sheet, "Cause", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max")
	for i, s := range stats {
		b.row(sheet, i+2, s.Cause.String(), s.Count, finite(s.Mean), finite(s.Std),
			s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
}

func (b *builder) topFires(r *report.Report) {
	b.sheet(SheetTopFires, "Rank", "Fire Name", "Fire Year", "District", "Cause By",
		"Estimated Total Acres", "Latitude", "Longitude", "Place")
	for i, f := range r.TopFires {
		b.row(SheetTopFires, i+2, i+1, f.FireName, f.FireYear, f.DistrictName, f.CauseBy,
			f.EstTotalAcres, f.Latitude, f.Longitude, f.PlaceName)
	}
}

func (b *builder) topDistricts(r *report.Report) {
	b.sheet(SheetTopDistricts, "Fire Year", "Fire Name", "District", "Mean Estimated Acres")
	for i, d := range r.TopDistricts {
		b.row(SheetTopDistricts, i+2, d.FireYear, d.FireName, d.DistrictName, d.Acres)
	}
}

func (b *builder) yearFires(r *report.Report) {
	b.sheet(SheetYearFires, "Area", "Fire Name", "Estimated Total Acres", "Latitude", "Longitude", "Fire Year", "Size Class")
	for i, f := range r.YearFires {
		b.row(SheetYearFires, i+2, f.Area.String(), f.FireName, f.Acres, f.Latitude, f.Longitude, f.FireYear, f.SizeClass.String())
	}
}

func (b *builder) grouped(r *report.Report) {
	b.sheet(SheetGrouped, "Fire Name", "Fire Year", "Cause", "Size Class", "Estimated Total Acres")
	for i, g := range r.Grouped {
		b.row(SheetGrouped, i+2, g.FireName, g.FireYear, g.Cause.String(), g.SizeClass.String(), g.Acres)
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// finite maps NaN to an empty cell; excelize cannot store NaN.
func finite(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
