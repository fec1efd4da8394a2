package analysis

import (
	"math"
	"testing"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name string, area domain.Area, class domain.SizeClass, cause domain.CauseCategory, year int, acres float64) domain.FireRecord {
	return domain.FireRecord{
		ID:            name,
		Area:          area,
		FireName:      name,
		FireYear:      year,
		Latitude:      44,
		Longitude:     -121,
		EstTotalAcres: acres,
		SizeClass:     class,
		Cause:         cause,
		GeneralCause:  cause.String(),
	}
}

func sample() []domain.FireRecord {
	return []domain.FireRecord{
		rec("a", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.1),
		rec("b", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.2),
		rec("c", domain.AreaSouthern, domain.SizeB, domain.CauseLightning, 2021, 5),
		rec("d", domain.AreaEastern, domain.SizeG, domain.CauseLightning, 2020, 50000),
		rec("e", domain.AreaNorthern, domain.SizeC, domain.CauseUnderInvestigation, 2022, 20),
		rec("f", domain.AreaEastern, domain.SizeA, domain.CauseHuman, 2022, 0.05),
	}
}

func TestCountByArea(t *testing.T) {
	got := CountByArea(sample())
	require.Len(t, got, 3)
	assert.Equal(t, domain.AreaNorthern, got[0].Area)
	assert.Equal(t, 1, got[0].Fires)
	assert.Equal(t, domain.AreaEastern, got[1].Area)
	assert.Equal(t, domain.AreaSouthern, got[2].Area)
	assert.Equal(t, 3, got[2].Fires)
}

func TestAcresByArea_PartitionsTotal(t *testing.T) {
	records := sample()
	got := AcresByArea(records)

	var sum float64
	for _, a := range got {
		sum += a.Acres
	}
	assert.InDelta(t, TotalAcres(records), sum, 1e-9)
	assert.Equal(t, domain.AreaEastern, got[len(got)-1].Area)
}

func TestCountByCause(t *testing.T) {
	got := CountByCause(sample())
	require.Len(t, got, 3)
	assert.Equal(t, CauseCount{Cause: domain.CauseHuman, Count: 3}, got[0])
	assert.Equal(t, CauseCount{Cause: domain.CauseLightning, Count: 2}, got[1])
	assert.Equal(t, CauseCount{Cause: domain.CauseUnderInvestigation, Count: 1}, got[2])
}

func TestCountByGeneralCause(t *testing.T) {
	records := sample()
	records = append(records, rec("g", domain.AreaEastern, domain.SizeA, domain.CauseHuman, 2022, 0.01))
	records[len(records)-1].GeneralCause = ""

	got := CountByGeneralCause(records)
	require.Len(t, got, 3)
	assert.Equal(t, "Human", got[0].Label)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, "Lightning", got[1].Label)
	assert.Equal(t, "Under Investigation", got[2].Label)
}

func TestCountBySizeClass(t *testing.T) {
	got := CountBySizeClass(sample())
	require.Len(t, got, 4)
	assert.Equal(t, ClassCount{Class: domain.SizeA, Count: 3}, got[0])
	// Ties keep class order.
	assert.Equal(t, domain.SizeB, got[1].Class)
	assert.Equal(t, domain.SizeC, got[2].Class)
	assert.Equal(t, domain.SizeG, got[3].Class)
}

func TestMeanAndStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(xs), 1e-12)
	// Sample standard deviation: sqrt(32/7).
	assert.InDelta(t, math.Sqrt(32.0/7), StdDev(xs), 1e-12)
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(StdDev([]float64{3})))
}

func TestQuantile_LinearInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(xs, 0))
	assert.Equal(t, 1.75, Quantile(xs, 0.25))
	assert.Equal(t, 2.5, Quantile(xs, 0.5))
	assert.Equal(t, 3.25, Quantile(xs, 0.75))
	assert.Equal(t, 4.0, Quantile(xs, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestDescribeByCause(t *testing.T) {
	records := []domain.FireRecord{
		rec("g1", domain.AreaSouthern, domain.SizeG, domain.CauseLightning, 2002, 5237),
		rec("g2", domain.AreaSouthern, domain.SizeG, domain.CauseLightning, 2002, 10000),
		rec("g3", domain.AreaSouthern, domain.SizeG, domain.CauseLightning, 2020, 20000),
		rec("g4", domain.AreaSouthern, domain.SizeG, domain.CauseLightning, 2020, 499945),
		rec("g5", domain.AreaSouthern, domain.SizeG, domain.CauseHuman, 2020, 16418),
		rec("a1", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.1),
	}

	got := DescribeByCause(records, domain.SizeG)
	require.Len(t, got, 2)

	human := got[0]
	assert.Equal(t, domain.CauseHuman, human.Cause)
	assert.Equal(t, 1, human.Count)
	assert.Equal(t, 16418.0, human.Median)
	assert.True(t, math.IsNaN(human.Std))

	lightning := got[1]
	assert.Equal(t, 4, lightning.Count)
	assert.Equal(t, 5237.0, lightning.Min)
	assert.Equal(t, 15000.0, lightning.Median)
	assert.Equal(t, 499945.0, lightning.Max)
	assert.InDelta(t, 8809.25, lightning.Q1, 1e-9)
	assert.InDelta(t, 139986.25, lightning.Q3, 1e-9)
}

func TestTopFires_SortedAndStable(t *testing.T) {
	records := []domain.FireRecord{
		rec("small", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 1),
		rec("tie-first", domain.AreaSouthern, domain.SizeG, domain.CauseHuman, 2020, 100),
		rec("big", domain.AreaSouthern, domain.SizeG, domain.CauseHuman, 2020, 500),
		rec("tie-second", domain.AreaSouthern, domain.SizeG, domain.CauseHuman, 2020, 100),
	}

	for range 5 {
		got := TopFires(records, 3)
		require.Len(t, got, 3)
		assert.Equal(t, "big", got[0].FireName)
		assert.Equal(t, "tie-first", got[1].FireName)
		assert.Equal(t, "tie-second", got[2].FireName)
	}
	assert.Equal(t, "small", records[0].FireName, "input must not be reordered")
	assert.Len(t, TopFires(records, 10), 4)
}

func TestPairAliases(t *testing.T) {
	odf := rec("ODF / BISCUIT", domain.AreaSouthern, domain.SizeG, domain.CauseLightning, 2002, 499945)
	odf.Latitude, odf.Longitude = 42.31, -123.77
	private := rec("Biscuit Private", domain.AreaSouthern, domain.SizeG, domain.CauseLightning, 2002, 499945)
	private.Latitude, private.Longitude = 42.43, -124.02

	t.Run("overlapping pair confirmed", func(t *testing.T) {
		pairs := PairAliases([]domain.FireRecord{odf, private}, KnownAliases)
		require.Len(t, pairs, 1)
		assert.True(t, pairs[0].Confirmed)
		assert.Equal(t, "ODF / BISCUIT", pairs[0].Primary.FireName)
		assert.Less(t, pairs[0].DistanceKm, pairs[0].ReachKm)
	})

	t.Run("distant pair not confirmed", func(t *testing.T) {
		far := private
		far.Latitude, far.Longitude = 45.9, -117.5
		pairs := PairAliases([]domain.FireRecord{odf, far}, KnownAliases)
		require.Len(t, pairs, 1)
		assert.False(t, pairs[0].Confirmed)
	})

	t.Run("missing name yields no pair", func(t *testing.T) {
		assert.Empty(t, PairAliases([]domain.FireRecord{odf}, KnownAliases))
	})
}

func TestHaversineKm(t *testing.T) {
	// Portland to Eugene is roughly 170 km.
	d := HaversineKm(45.5152, -122.6784, 44.0521, -123.0868)
	assert.InDelta(t, 165, d, 10)
	assert.Zero(t, HaversineKm(44, -121, 44, -121))
}

func TestPivotByDistrict(t *testing.T) {
	a := rec("Slater", domain.AreaSouthern, domain.SizeG, domain.CauseHuman, 2020, 100)
	a.DistrictName = "Southwest Oregon"
	b := rec("Slater", domain.AreaSouthern, domain.SizeG, domain.CauseHuman, 2020, 300)
	b.DistrictName = "Southwest Oregon"
	c := rec("Beachie", domain.AreaNorthern, domain.SizeG, domain.CauseHuman, 2020, 1000)
	c.DistrictName = "North Cascade"

	got := PivotByDistrict([]domain.FireRecord{a, b, c})
	require.Len(t, got, 2)
	assert.Equal(t, "Beachie", got[0].FireName)
	assert.Equal(t, 200.0, got[1].Acres)
}

func TestGroupFires(t *testing.T) {
	records := []domain.FireRecord{
		rec("Zeta", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.1),
		rec("Alpha", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.2),
		rec("Alpha", domain.AreaEastern, domain.SizeA, domain.CauseHuman, 2020, 0.3),
		rec("Alpha", domain.AreaEastern, domain.SizeA, domain.CauseHuman, 2019, 0.05),
	}

	got := GroupFires(records)
	require.Len(t, got, 3)
	assert.Equal(t, GroupedFire{FireName: "Alpha", FireYear: 2019, Cause: domain.CauseHuman, SizeClass: domain.SizeA, Acres: 0.05}, got[0])
	assert.Equal(t, "Alpha", got[1].FireName)
	assert.Equal(t, 2020, got[1].FireYear)
	assert.InDelta(t, 0.5, got[1].Acres, 1e-12)
	assert.Equal(t, "Zeta", got[2].FireName)
}

func TestGroupFires_SkipsUnnamed(t *testing.T) {
	records := []domain.FireRecord{
		rec("", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.4),
		rec("Named", domain.AreaSouthern, domain.SizeA, domain.CauseHuman, 2020, 0.1),
	}

	got := GroupFires(records)
	require.Len(t, got, 1)
	assert.Equal(t, "Named", got[0].FireName)
	assert.InDelta(t, 0.1, got[0].Acres, 1e-12)
}

func TestFiresInYear(t *testing.T) {
	got := FiresInYear(sample(), DefaultProjectionYear)
	require.Len(t, got, 2)
	assert.Equal(t, "e", got[0].FireName)
	assert.Equal(t, domain.AreaNorthern, got[0].Area)
	assert.Equal(t, 2022, got[1].FireYear)
	assert.Empty(t, FiresInYear(sample(), 1999))
}

func TestKDE_IntegratesToOne(t *testing.T) {
	xs := []float64{1, 2, 2, 3, 7}
	bw := SilvermanBandwidth(xs)
	grid := Linspace(-10, 20, 3001)
	density := KDE(xs, nil, grid, bw)

	step := grid[1] - grid[0]
	var area float64
	for _, d := range density {
		area += d * step
	}
	assert.InDelta(t, 1.0, area, 1e-3)
}
