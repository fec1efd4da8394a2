package analysis

import (
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// CauseSummary is the descriptive statistics of acres for one cause
// category within a size class.
type CauseSummary struct {
	Cause  domain.CauseCategory `json:"cause"`
	Count  int                  `json:"count"`
	Mean   float64              `json:"mean"`
	Std    float64              `json:"std"`
	Min    float64              `json:"min"`
	Q1     float64              `json:"q1"`
	Median float64              `json:"median"`
	Q3     float64              `json:"q3"`
	Max    float64              `json:"max"`
}

// DescribeByCause summarizes the acres of one size class, per cause category.
// Categories with no fires in the class are omitted.
func DescribeByCause(records []domain.FireRecord, class domain.SizeClass) []CauseSummary {
	acres := make(map[domain.CauseCategory][]float64)
	for _, r := range records {
		if r.SizeClass != class {
			continue
		}
		acres[r.Cause] = append(acres[r.Cause], r.EstTotalAcres)
	}

	var out []CauseSummary
	for _, c := range domain.CauseCategories {
		xs, ok := acres[c]
		if !ok {
			continue
		}
		out = append(out, Describe(c, xs))
	}
	return out
}

// Describe computes the summary of one sample.
func Describe(cause domain.CauseCategory, xs []float64) CauseSummary {
	s := sortedCopy(xs)
	return CauseSummary{
		Cause:  cause,
		Count:  len(s),
		Mean:   Mean(s),
		Std:    StdDev(s),
		Min:    Quantile(s, 0),
		Q1:     Quantile(s, 0.25),
		Median: Quantile(s, 0.5),
		Q3:     Quantile(s, 0.75),
		Max:    Quantile(s, 1),
	}
}

// AcresByCause groups the acres of records per cause category, preserving
// input order within each group.
func AcresByCause(records []domain.FireRecord) map[domain.CauseCategory][]float64 {
	out := make(map[domain.CauseCategory][]float64)
	for _, r := range records {
		out[r.Cause] = append(out[r.Cause], r.EstTotalAcres)
	}
	return out
}
