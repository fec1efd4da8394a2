package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when an enumerated CSV value is not recognized.
var ErrUnknownValue = errors.New("unknown value")

// Area is the ODF protection area a fire was reported in.
type Area int

const (
	AreaUnset Area = iota
	AreaEastern
	AreaNorthern
	AreaSouthern
)

// Areas lists every real area in display order.
var Areas = []Area{AreaEastern, AreaNorthern, AreaSouthern}

// String returns the ODF area code, e.g. "EOA".
func (a Area) String() string {
	switch a {
	case AreaEastern:
		return "EOA"
	case AreaNorthern:
		return "NOA"
	case AreaSouthern:
		return "SOA"
	default:
		return ""
	}
}

// Name returns the long area name, e.g. "Eastern Oregon Area".
func (a Area) Name() string {
	switch a {
	case AreaEastern:
		return "Eastern Oregon Area"
	case AreaNorthern:
		return "Northern Oregon Area"
	case AreaSouthern:
		return "Southern Oregon Area"
	default:
		return ""
	}
}

// ParseArea accepts an area code ("EOA") or long name, case-insensitively.
func ParseArea(s string) (Area, error) {
	s = strings.TrimSpace(s)
	for _, a := range Areas {
		if strings.EqualFold(s, a.String()) || strings.EqualFold(s, a.Name()) {
			return a, nil
		}
	}
	return AreaUnset, fmt.Errorf("area %q: %w", s, ErrUnknownValue)
}

func (a Area) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Area) UnmarshalText(b []byte) error {
	v, err := ParseArea(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// SizeClass is the fire-size bucket, A (smallest) through G (largest).
// The zero value is the "Class Size" placeholder and matches no record.
type SizeClass int

const (
	SizeClassUnset SizeClass = iota
	SizeA
	SizeB
	SizeC
	SizeD
	SizeE
	SizeF
	SizeG
)

// SizeClasses lists every real size class in ascending order.
var SizeClasses = []SizeClass{SizeA, SizeB, SizeC, SizeD, SizeE, SizeF, SizeG}

// SizeClassPlaceholder is the label shown before a size class is selected.
const SizeClassPlaceholder = "Class Size"

func (c SizeClass) String() string {
	if c < SizeA || c > SizeG {
		return SizeClassPlaceholder
	}
	return string(rune('A' + int(c-SizeA)))
}

// Valid reports whether c is a real size class rather than the placeholder.
func (c SizeClass) Valid() bool { return c >= SizeA && c <= SizeG }

// ParseSizeClass accepts a single letter A–G, case-insensitively.
// The placeholder label parses to SizeClassUnset.
func ParseSizeClass(s string) (SizeClass, error) {
	s = strings.TrimSpace(s)
	if s == SizeClassPlaceholder {
		return SizeClassUnset, nil
	}
	if len(s) == 1 {
		r := s[0] &^ 0x20 // upper-case ASCII
		if r >= 'A' && r <= 'G' {
			return SizeA + SizeClass(r-'A'), nil
		}
	}
	return SizeClassUnset, fmt.Errorf("size class %q: %w", s, ErrUnknownValue)
}

func (c SizeClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *SizeClass) UnmarshalText(b []byte) error {
	v, err := ParseSizeClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CauseCategory is the top-level cause grouping of a fire.
// The zero value is the "Causes" placeholder and matches no record.
type CauseCategory int

const (
	CauseUnset CauseCategory = iota
	CauseHuman
	CauseLightning
	CauseUnderInvestigation
)

// CauseCategories lists every real cause category.
var CauseCategories = []CauseCategory{CauseHuman, CauseLightning, CauseUnderInvestigation}

// CausePlaceholder is the label shown before a cause is selected.
const CausePlaceholder = "Causes"

func (c CauseCategory) String() string {
	switch c {
	case CauseHuman:
		return "Human"
	case CauseLightning:
		return "Lightning"
	case CauseUnderInvestigation:
		return "Under Investigation"
	default:
		return CausePlaceholder
	}
}

// Valid reports whether c is a real cause category rather than the placeholder.
func (c CauseCategory) Valid() bool { return c >= CauseHuman && c <= CauseUnderInvestigation }

// ParseCauseCategory maps the HumanOrLightning column to a category.
// ODF abbreviates the third category as "Under Invest"; dashes, underscores
// and case are ignored.
func ParseCauseCategory(s string) (CauseCategory, error) {
	s = strings.TrimSpace(s)
	if s == CausePlaceholder {
		return CauseUnset, nil
	}
	norm := strings.ToLower(strings.NewReplacer("-", " ", "_", " ", ".", "").Replace(s))
	norm = strings.Join(strings.Fields(norm), " ")
	switch norm {
	case "human":
		return CauseHuman, nil
	case "lightning":
		return CauseLightning, nil
	case "under investigation", "under invest", "underinvestigation", "under inv":
		return CauseUnderInvestigation, nil
	}
	return CauseUnset, fmt.Errorf("cause category %q: %w", s, ErrUnknownValue)
}

func (c CauseCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CauseCategory) UnmarshalText(b []byte) error {
	v, err := ParseCauseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
