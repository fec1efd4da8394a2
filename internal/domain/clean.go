package domain

import (
	"fmt"
	"math"
	"strings"
)

// DroppedColumns are the ODF export columns not used by any view.
// The CSV reader never maps them into a RawFireRecord.
var DroppedColumns = []string{
	"Serial", "FireCategory", "FullFireNumber", "Twn", "Rng", "Sec",
	"Subdiv", "LandmarkLocation", "RegUseZone", "RegUseRestriction", "Industrial_Restriction",
	"Ign_DateTime", "ReportDateTime", "Discover_DateTime", "Control_DateTime",
	"CreationDate", "ModifiedDate", "DistrictCode", "UnitCode",
	"DistFireNumber",
}

// RenamedColumns maps source coordinate columns to their canonical names.
var RenamedColumns = map[string]string{
	"Lat_DD":  "Latitude",
	"Long_DD": "Longitude",
}

// ImputationError reports size classes whose missing acres could not be filled
// because no record in the class had a known value.
type ImputationError struct {
	Classes []SizeClass
	Records int
}

func (e *ImputationError) Error() string {
	names := make([]string, len(e.Classes))
	for i, c := range e.Classes {
		names[i] = c.String()
	}
	return fmt.Sprintf("cannot impute estimated acres for %d records: no known values in size class %s",
		e.Records, strings.Join(names, ", "))
}

// CleanResult is the output of Clean.
type CleanResult struct {
	Records []FireRecord

	// DroppedNoCoordinates counts records removed for a missing latitude or longitude.
	DroppedNoCoordinates int
	// Imputed counts records whose acres were filled from the size-class mean.
	Imputed int
	// ClassMeans holds the mean known acres per size class used for imputation.
	ClassMeans map[SizeClass]float64
}

// Clean drops records without coordinates and fills missing estimated acres
// with the mean known acres of the record's size class. Means are computed on
// the set remaining after the coordinate drop, before any value is filled.
//
// The input slice is not modified. When a size class has missing acres but no
// known values, those records keep NaN and Clean returns an *ImputationError
// together with the otherwise complete result.
func Clean(records []FireRecord) (CleanResult, error) {
	res := CleanResult{
		Records:    make([]FireRecord, 0, len(records)),
		ClassMeans: make(map[SizeClass]float64),
	}

	for _, r := range records {
		if !r.HasCoordinates() {
			res.DroppedNoCoordinates++
			continue
		}
		res.Records = append(res.Records, r)
	}

	sums := make(map[SizeClass]float64)
	counts := make(map[SizeClass]int)
	for _, r := range res.Records {
		if r.HasAcres() {
			sums[r.SizeClass] += r.EstTotalAcres
			counts[r.SizeClass]++
		}
	}
	for class, n := range counts {
		res.ClassMeans[class] = sums[class] / float64(n)
	}

	unresolved := make(map[SizeClass]bool)
	unresolvedRecords := 0
	for i := range res.Records {
		r := &res.Records[i]
		if r.HasAcres() {
			continue
		}
		mean, ok := res.ClassMeans[r.SizeClass]
		if !ok {
			unresolved[r.SizeClass] = true
			unresolvedRecords++
			continue
		}
		r.EstTotalAcres = mean
		r.AcresImputed = true
		res.Imputed++
	}

	if len(unresolved) > 0 {
		ierr := &ImputationError{Records: unresolvedRecords}
		for _, c := range SizeClasses {
			if unresolved[c] {
				ierr.Classes = append(ierr.Classes, c)
			}
		}
		return res, ierr
	}
	return res, nil
}

// IsClean reports whether every record satisfies the post-clean invariant.
func IsClean(records []FireRecord) bool {
	for _, r := range records {
		if !r.HasCoordinates() || !r.HasAcres() || math.IsInf(r.EstTotalAcres, 0) {
			return false
		}
	}
	return true
}
