package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

func fire(id string, class domain.SizeClass, cause domain.CauseCategory, year int, acres, lat float64) domain.FireRecord {
	return domain.FireRecord{
		ID: id, FireName: id, FireYear: year, Area: domain.AreaSouthern, SizeClass: class, Cause: cause,
		EstTotalAcres: acres, Latitude: lat, Longitude: -123,
	}
}

func rawRecords() []domain.FireRecord {
	return []domain.FireRecord{
		fire("a", domain.SizeA, domain.CauseHuman, 2020, 0.1, 42),
		fire("b", domain.SizeA, domain.CauseHuman, 2020, math.NaN(), 42.1),
		fire("c", domain.SizeA, domain.CauseLightning, 2021, 0.3, 42.2),
		fire("d", domain.SizeG, domain.CauseLightning, 2002, 499945, 42.3),
		fire("e", domain.SizeC, domain.CauseUnderInvestigation, 2021, 50, math.NaN()),
	}
}

func TestRunValidation_CleanDataPasses(t *testing.T) {
	raw := rawRecords()
	clean, err := domain.Clean(raw)
	require.NoError(t, err)

	phases := runValidation(raw, clean, nil)
	require.Len(t, phases, 6)
	for _, p := range phases {
		assert.True(t, p.passed(), "%s: %v", p.name, p.errors)
	}

	var out bytes.Buffer
	assert.True(t, printPhases(&out, phases, len(raw), len(clean.Records)))
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Records: 5 loaded, 4 after cleaning")
}

func TestRunValidation_ImputationFailureReported(t *testing.T) {
	raw := append(rawRecords(), fire("f", domain.SizeF, domain.CauseHuman, 2020, math.NaN(), 44))
	clean, err := domain.Clean(raw)
	require.Error(t, err)

	phases := runValidation(raw, clean, err)
	acres := phases[1]
	assert.False(t, acres.passed())
	assert.Contains(t, acres.errors[0], "size class F")

	var out bytes.Buffer
	assert.False(t, printPhases(&out, phases, len(raw), len(clean.Records)))
	assert.Contains(t, out.String(), "Validation FAILED.")
	assert.Contains(t, out.String(), "--- Acres imputed from size-class means ---")
}

func TestValidateCoordinates_DetectsBadDropCount(t *testing.T) {
	raw := rawRecords()
	clean, err := domain.Clean(raw)
	require.NoError(t, err)
	clean.DroppedNoCoordinates = 0

	p := validateCoordinates(raw, clean)
	assert.False(t, p.passed())
}

func TestValidateAcres_DetectsChangedKnownValue(t *testing.T) {
	raw := rawRecords()
	clean, err := domain.Clean(raw)
	require.NoError(t, err)
	clean.Records[0].EstTotalAcres = 9

	p := validateAcres(raw, clean, nil)
	require.False(t, p.passed())
	assert.Contains(t, p.errors[0], "known acres changed")
}

func TestValidateGroupedSummary_IgnoresUnnamedFires(t *testing.T) {
	clean, err := domain.Clean(rawRecords())
	require.NoError(t, err)
	unnamed := fire("z", domain.SizeA, domain.CauseHuman, 2020, 0.2, 42)
	unnamed.FireName = ""
	records := append(clean.Records, unnamed)

	p := validateGroupedSummary(records)
	assert.True(t, p.passed(), "%v", p.errors)
}
