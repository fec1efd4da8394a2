// Package report runs the one-directional flow of a report: load, clean,
// compute every view, render charts, then hand the result to export sinks.
package report

import (
	"time"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// Report is the outcome of one run. It is built once and only read afterwards.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Source      string

	Loaded     int
	Dropped    int
	Imputed    int
	ClassMeans map[domain.SizeClass]float64

	// Records is the cleaned record set every view was computed from.
	Records []domain.FireRecord

	AreaCounts    []analysis.AreaTotal
	AreaAcres     []analysis.AreaTotal
	Causes        []analysis.CauseCount
	GeneralCauses []analysis.LabelCount
	SizeClasses   []analysis.ClassCount
	ClassAStats   []analysis.CauseSummary
	ClassGStats   []analysis.CauseSummary

	TopFires     []domain.FireRecord
	Aliases      []analysis.FirePair
	TopDistricts []analysis.DistrictFire

	Grouped        []analysis.GroupedFire
	ProjectionYear int
	YearFires      []analysis.YearFire

	// Charts lists the files written by the run, in render order.
	Charts []string
}

// Options tune the views of a run.
type Options struct {
	OutputDir      string
	TopFires       int
	ProjectionYear int
}

func (o Options) withDefaults() Options {
	if o.TopFires <= 0 {
		o.TopFires = analysis.DefaultTopFires
	}
	if o.ProjectionYear == 0 {
		o.ProjectionYear = analysis.DefaultProjectionYear
	}
	return o
}

// Build computes every view over a cleaned record set. It does not modify
// clean.Records.
func Build(clean domain.CleanResult, loaded int, opts Options) *Report {
	opts = opts.withDefaults()
	records := clean.Records
	top := analysis.TopFires(records, opts.TopFires)

	return &Report{
		Loaded:         loaded,
		Dropped:        clean.DroppedNoCoordinates,
		Imputed:        clean.Imputed,
		ClassMeans:     clean.ClassMeans,
		Records:        records,
		AreaCounts:     analysis.CountByArea(records),
		AreaAcres:      analysis.AcresByArea(records),
		Causes:         analysis.CountByCause(records),
		GeneralCauses:  analysis.CountByGeneralCause(records),
		SizeClasses:    analysis.CountBySizeClass(records),
		ClassAStats:    analysis.DescribeByCause(records, domain.SizeA),
		ClassGStats:    analysis.DescribeByCause(records, domain.SizeG),
		TopFires:       top,
		Aliases:        analysis.PairAliases(top, analysis.KnownAliases),
		TopDistricts:   analysis.PivotByDistrict(top),
		Grouped:        analysis.GroupFires(records),
		ProjectionYear: opts.ProjectionYear,
		YearFires:      analysis.FiresInYear(records, opts.ProjectionYear),
	}
}
