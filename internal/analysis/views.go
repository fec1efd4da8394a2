package analysis

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// AreaTotal is the fire count and summed acres of one area.
type AreaTotal struct {
	Area  domain.Area `json:"area"`
	Fires int         `json:"fires"`
	Acres float64     `json:"acres"`
}

// CauseCount is the number of fires in one cause category.
type CauseCount struct {
	Cause domain.CauseCategory `json:"cause"`
	Count int                  `json:"count"`
}

// LabelCount is the number of fires carrying a free-text label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ClassCount is the number of fires in one size class.
type ClassCount struct {
	Class domain.SizeClass `json:"size_class"`
	Count int              `json:"count"`
}

// CountByArea returns fires per area, ascending by count.
func CountByArea(records []domain.FireRecord) []AreaTotal {
	out := areaTotals(records)
	slices.SortStableFunc(out, func(a, b AreaTotal) int { return cmp.Compare(a.Fires, b.Fires) })
	return out
}

// AcresByArea returns summed acres per area, ascending by acres.
func AcresByArea(records []domain.FireRecord) []AreaTotal {
	out := areaTotals(records)
	slices.SortStableFunc(out, func(a, b AreaTotal) int { return cmp.Compare(a.Acres, b.Acres) })
	return out
}

// areaTotals returns one row per area present in records, in area order.
func areaTotals(records []domain.FireRecord) []AreaTotal {
	byArea := make(map[domain.Area]*AreaTotal)
	for _, r := range records {
		t, ok := byArea[r.Area]
		if !ok {
			t = &AreaTotal{Area: r.Area}
			byArea[r.Area] = t
		}
		t.Fires++
		t.Acres += r.EstTotalAcres
	}
	out := make([]AreaTotal, 0, len(byArea))
	for _, a := range domain.Areas {
		if t, ok := byArea[a]; ok {
			out = append(out, *t)
		}
	}
	return out
}

// CountByCause returns fires per cause category, descending by count.
func CountByCause(records []domain.FireRecord) []CauseCount {
	counts := make(map[domain.CauseCategory]int)
	for _, r := range records {
		counts[r.Cause]++
	}
	out := make([]CauseCount, 0, len(counts))
	for _, c := range domain.CauseCategories {
		if n, ok := counts[c]; ok {
			out = append(out, CauseCount{Cause: c, Count: n})
		}
	}
	slices.SortStableFunc(out, func(a, b CauseCount) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// CountByGeneralCause returns fires per general cause, descending by count
// with ties in label order. Records without a general cause are skipped.
func CountByGeneralCause(records []domain.FireRecord) []LabelCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.GeneralCause == "" {
			continue
		}
		counts[r.GeneralCause]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b LabelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// CountBySizeClass returns fires per size class, descending by count with
// ties in class order.
func CountBySizeClass(records []domain.FireRecord) []ClassCount {
	counts := make(map[domain.SizeClass]int)
	for _, r := range records {
		counts[r.SizeClass]++
	}
	out := make([]ClassCount, 0, len(counts))
	for _, c := range domain.SizeClasses {
		if n, ok := counts[c]; ok {
			out = append(out, ClassCount{Class: c, Count: n})
		}
	}
	slices.SortStableFunc(out, func(a, b ClassCount) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// FilterClass returns the records of one size class, in input order.
func FilterClass(records []domain.FireRecord, class domain.SizeClass) []domain.FireRecord {
	var out []domain.FireRecord
	for _, r := range records {
		if r.SizeClass == class {
			out = append(out, r)
		}
	}
	return out
}

// TotalAcres sums estimated acres over records.
func TotalAcres(records []domain.FireRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += r.EstTotalAcres
	}
	return sum
}
