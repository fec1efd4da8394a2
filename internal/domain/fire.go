package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawFireRecord holds the retained columns of one CSV row, as text.
// Columns in DroppedColumns are never copied into it.
type RawFireRecord struct {
	Line          int    `json:"-"`
	FireYear      string `json:"FireYear"`
	Area          string `json:"Area"`
	DistrictName  string `json:"DistrictName"`
	UnitName      string `json:"UnitName"`
	FireName      string `json:"FireName"`
	SizeClass     string `json:"Size_class"`
	EstTotalAcres string `json:"EstTotalAcres"`
	Cause         string `json:"HumanOrLightning"`
	CauseBy       string `json:"CauseBy"`
	GeneralCause  string `json:"GeneralCause"`
	SpecificCause string `json:"SpecificCause"`
	Latitude      string `json:"Lat_DD"`
	Longitude     string `json:"Long_DD"`
	County        string `json:"County"`
}

// FireRecord is one historical fire after parsing.
//
// Latitude, Longitude and EstTotalAcres are NaN when the source cell was empty.
// After Clean they are always finite.
type FireRecord struct {
	ID            string        `json:"id"`
	Area          Area          `json:"area"`
	FireName      string        `json:"fire_name"`
	FireYear      int           `json:"fire_year"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	EstTotalAcres float64       `json:"est_total_acres"`
	AcresImputed  bool          `json:"acres_imputed,omitempty"`
	SizeClass     SizeClass     `json:"size_class"`
	Cause         CauseCategory `json:"cause"`
	GeneralCause  string        `json:"general_cause,omitempty"`
	CauseBy       string        `json:"cause_by,omitempty"`
	SpecificCause string        `json:"specific_cause,omitempty"`
	DistrictName  string        `json:"district_name,omitempty"`
	UnitName      string        `json:"unit_name,omitempty"`
	County        string        `json:"county,omitempty"`

	// Geocoding enrichment fields, populated for top fires only.
	PlaceName string `json:"place_name,omitempty"`
	GeoSource string `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at,omitzero"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r FireRecord) HasCoordinates() bool {
	return !math.IsNaN(r.Latitude) && !math.IsNaN(r.Longitude)
}

// HasAcres reports whether the estimated acres value is present.
func (r FireRecord) HasAcres() bool {
	return !math.IsNaN(r.EstTotalAcres)
}

// ParseRawRecord converts a raw CSV row into a FireRecord.
// Enumerations and the fire year must parse; empty numeric cells become NaN.
func ParseRawRecord(raw RawFireRecord) (FireRecord, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw.FireYear))
	if err != nil {
		return FireRecord{}, fmt.Errorf("line %d: fire year %q: %w", raw.Line, raw.FireYear, err)
	}
	area, err := ParseArea(raw.Area)
	if err != nil {
		return FireRecord{}, fmt.Errorf("line %d: %w", raw.Line, err)
	}
	class, err := ParseSizeClass(raw.SizeClass)
	if err != nil || !class.Valid() {
		return FireRecord{}, fmt.Errorf("line %d: size class %q: %w", raw.Line, raw.SizeClass, ErrUnknownValue)
	}
	cause, err := ParseCauseCategory(raw.Cause)
	if err != nil || !cause.Valid() {
		return FireRecord{}, fmt.Errorf("line %d: cause category %q: %w", raw.Line, raw.Cause, ErrUnknownValue)
	}

	lat, err := parseFloatOrNaN(raw.Latitude)
	if err != nil {
		return FireRecord{}, fmt.Errorf("line %d: latitude: %w", raw.Line, err)
	}
	lon, err := parseFloatOrNaN(raw.Longitude)
	if err != nil {
		return FireRecord{}, fmt.Errorf("line %d: longitude: %w", raw.Line, err)
	}
	acres, err := parseFloatOrNaN(raw.EstTotalAcres)
	if err != nil {
		return FireRecord{}, fmt.Errorf("line %d: estimated acres: %w", raw.Line, err)
	}
	if acres < 0 {
		return FireRecord{}, fmt.Errorf("line %d: negative estimated acres %g", raw.Line, acres)
	}

	name := strings.TrimSpace(raw.FireName)
	district := strings.TrimSpace(raw.DistrictName)

	return FireRecord{
		ID:            generateID(year, name, district, lat, lon),
		Area:          area,
		FireName:      name,
		FireYear:      year,
		Latitude:      lat,
		Longitude:     lon,
		EstTotalAcres: acres,
		SizeClass:     class,
		Cause:         cause,
		GeneralCause:  strings.TrimSpace(raw.GeneralCause),
		CauseBy:       strings.TrimSpace(raw.CauseBy),
		SpecificCause: strings.TrimSpace(raw.SpecificCause),
		DistrictName:  district,
		UnitName:      strings.TrimSpace(raw.UnitName),
		County:        strings.TrimSpace(raw.County),
	}, nil
}

// ErrNotFinite is returned when a numeric cell parses to an infinity.
var ErrNotFinite = errors.New("not a finite number")

// parseFloatOrNaN parses a decimal cell. Empty cells and "NaN" yield NaN.
// Thousands separators are tolerated; infinities are rejected.
func parseFloatOrNaN(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrNotFinite)
	}
	return v, nil
}

// generateID produces a deterministic ID from the record's identifying fields.
// Missing coordinates hash as "NaN", so the ID is stable before and after Clean
// for every record that survives it.
func generateID(year int, name, district string, lat, lon float64) string {
	input := fmt.Sprintf("%d|%s|%s|%.5f|%.5f", year, name, district, lat, lon)
	hash := sha256.Sum256([]byte(input))
	return "fire-" + hex.EncodeToString(hash[:8])
}
