package analysis

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// DefaultTopFires is N=20 plus one slot for the Biscuit fire, which ODF
// records twice under two administrative names.
const DefaultTopFires = 21

// Alias names two records that may describe one physical fire.
type Alias struct {
	Primary   string
	Secondary string
}

// KnownAliases are fires reported by more than one ODF unit. The Biscuit fire
// (2002) burned across the Grants Pass and Gold Beach units and appears as
// "ODF / BISCUIT" and "Biscuit Private".
var KnownAliases = []Alias{
	{Primary: "ODF / BISCUIT", Secondary: "Biscuit Private"},
}

// FirePair is the outcome of checking one alias against the top fires.
type FirePair struct {
	Primary    domain.FireRecord `json:"primary"`
	Secondary  domain.FireRecord `json:"secondary"`
	DistanceKm float64           `json:"distance_km"`
	ReachKm    float64           `json:"reach_km"`
	// Confirmed is true when the two burned-area circles overlap.
	Confirmed bool `json:"confirmed"`
}

// TopFires returns the n records with the largest estimated acres, descending.
// Ties keep input order.
func TopFires(records []domain.FireRecord, n int) []domain.FireRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b domain.FireRecord) int {
		return cmp.Compare(b.EstTotalAcres, a.EstTotalAcres)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PairAliases checks each alias against fires. A pair is reported only when
// both names are present; it is Confirmed only when the burned areas,
// modeled as circles around each record's coordinates, overlap. Records are
// never removed or merged here.
func PairAliases(fires []domain.FireRecord, aliases []Alias) []FirePair {
	var out []FirePair
	for _, a := range aliases {
		p, okP := findByName(fires, a.Primary)
		s, okS := findByName(fires, a.Secondary)
		if !okP || !okS {
			continue
		}
		dist := HaversineKm(p.Latitude, p.Longitude, s.Latitude, s.Longitude)
		reach := BurnRadiusKm(p.EstTotalAcres) + BurnRadiusKm(s.EstTotalAcres)
		out = append(out, FirePair{
			Primary:    p,
			Secondary:  s,
			DistanceKm: dist,
			ReachKm:    reach,
			Confirmed:  p.FireYear == s.FireYear && dist <= reach,
		})
	}
	return out
}

func findByName(fires []domain.FireRecord, name string) (domain.FireRecord, bool) {
	for _, f := range fires {
		if strings.EqualFold(f.FireName, name) {
			return f, true
		}
	}
	return domain.FireRecord{}, false
}

const (
	earthRadiusKm   = 6371.0
	squareKmPerAcre = 0.00404686
)

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// BurnRadiusKm is the radius of a circle with the given burned area.
func BurnRadiusKm(acres float64) float64 {
	if acres <= 0 {
		return 0
	}
	return math.Sqrt(acres * squareKmPerAcre / math.Pi)
}

// DistrictFire is one row of the top-fires pivot: mean acres keyed by
// (year, name, district).
type DistrictFire struct {
	FireYear     int     `json:"fire_year"`
	FireName     string  `json:"fire_name"`
	DistrictName string  `json:"district_name"`
	Acres        float64 `json:"acres"`
}

// PivotByDistrict averages acres per (year, name, district), descending by acres.
func PivotByDistrict(fires []domain.FireRecord) []DistrictFire {
	type key struct {
		year           int
		name, district string
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	var order []key
	for _, f := range fires {
		k := key{f.FireYear, f.FireName, f.DistrictName}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		sums[k] += f.EstTotalAcres
		counts[k]++
	}
	out := make([]DistrictFire, 0, len(order))
	for _, k := range order {
		out = append(out, DistrictFire{
			FireYear:     k.year,
			FireName:     k.name,
			DistrictName: k.district,
			Acres:        sums[k] / float64(counts[k]),
		})
	}
	slices.SortStableFunc(out, func(a, b DistrictFire) int { return cmp.Compare(b.Acres, a.Acres) })
	return out
}
