package analysis

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// DefaultProjectionYear is the year of the single-year projection view.
const DefaultProjectionYear = 2022

// GroupedFire is one row of the grouped fire summary.
type GroupedFire struct {
	FireName  string               `json:"fire_name"`
	FireYear  int                  `json:"fire_year"`
	Cause     domain.CauseCategory `json:"cause"`
	SizeClass domain.SizeClass     `json:"size_class"`
	Acres     float64              `json:"acres"`
}

type groupKey struct {
	name  string
	year  int
	cause domain.CauseCategory
	class domain.SizeClass
}

// GroupFires sums acres per (fire name, year, cause, size class), ordered by
// that key tuple. Records without a fire name are skipped.
func GroupFires(records []domain.FireRecord) []GroupedFire {
	sums := make(map[groupKey]float64)
	for _, r := range records {
		if r.FireName == "" {
			continue
		}
		sums[groupKey{r.FireName, r.FireYear, r.Cause, r.SizeClass}] += r.EstTotalAcres
	}
	out := make([]GroupedFire, 0, len(sums))
	for k, acres := range sums {
		out = append(out, GroupedFire{
			FireName:  k.name,
			FireYear:  k.year,
			Cause:     k.cause,
			SizeClass: k.class,
			Acres:     acres,
		})
	}
	slices.SortFunc(out, CompareGrouped)
	return out
}

// CompareGrouped orders grouped rows by name, year, cause, then size class.
func CompareGrouped(a, b GroupedFire) int {
	if c := cmp.Compare(a.FireName, b.FireName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FireYear, b.FireYear); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Cause, b.Cause); c != 0 {
		return c
	}
	return cmp.Compare(a.SizeClass, b.SizeClass)
}

// YearFire is one row of the single-year projection.
type YearFire struct {
	Area      domain.Area      `json:"area"`
	FireName  string           `json:"fire_name"`
	Acres     float64          `json:"acres"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	FireYear  int              `json:"fire_year"`
	SizeClass domain.SizeClass `json:"size_class"`
}

// FiresInYear projects the records of one year, in input order.
func FiresInYear(records []domain.FireRecord, year int) []YearFire {
	var out []YearFire
	for _, r := range records {
		if r.FireYear != year {
			continue
		}
		out = append(out, YearFire{
			Area:      r.Area,
			FireName:  r.FireName,
			Acres:     r.EstTotalAcres,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			FireYear:  r.FireYear,
			SizeClass: r.SizeClass,
		})
	}
	return out
}
