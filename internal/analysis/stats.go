package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of xs, or NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Fewer than two values yield NaN.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks, h = (n-1)p. sorted must be ascending.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// sortedCopy returns an ascending copy of xs.
func sortedCopy(xs []float64) []float64 {
	out := slices.Clone(xs)
	slices.Sort(out)
	return out
}

// SilvermanBandwidth is the rule-of-thumb Gaussian kernel bandwidth.
// It falls back to 1 when the sample has no spread.
func SilvermanBandwidth(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 1
	}
	s := sortedCopy(xs)
	sd := StdDev(s)
	iqr := (Quantile(s, 0.75) - Quantile(s, 0.25)) / 1.34
	spread := sd
	if iqr > 0 && iqr < spread {
		spread = iqr
	}
	if spread <= 0 || math.IsNaN(spread) {
		return 1
	}
	return 0.9 * spread * math.Pow(float64(n), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of xs at each point of at.
// The optional weights scale each sample; nil means equal weights.
func KDE(xs, weights, at []float64, bandwidth float64) []float64 {
	out := make([]float64, len(at))
	if len(xs) == 0 || bandwidth <= 0 {
		return out
	}
	var total float64
	for i := range xs {
		total += weightAt(weights, i)
	}
	if total == 0 {
		return out
	}
	norm := 1 / (total * bandwidth * math.Sqrt(2*math.Pi))
	for j, a := range at {
		var sum float64
		for i, x := range xs {
			u := (a - x) / bandwidth
			sum += weightAt(weights, i) * math.Exp(-0.5*u*u)
		}
		out[j] = sum * norm
	}
	return out
}

func weightAt(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}
	return weights[i]
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
