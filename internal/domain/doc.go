// Package domain models Oregon Department of Forestry (ODF) fire occurrence data.
//
// # Data Source
//
// Records come from the "ODF Fire Occurrence Data 2000-2022" export published on
// the Oregon open data portal (https://data.oregon.gov, dataset fbwv-q84y). The
// export is a single CSV with 38 columns and roughly 23,500 rows, one row per
// reported fire.
//
// # ODF Data Conventions
//
// Area codes:
//
//	EOA  Eastern Oregon Area
//	NOA  Northern Oregon Area
//	SOA  Southern Oregon Area
//
// Size classes (National Wildfire Coordinating Group buckets by acres burned):
//
//	A  <= 0.25     B  0.26-9.9     C  10-99.9     D  100-299
//	E  300-999     F  1,000-4,999  G  >= 5,000
//
// Cause category ("HumanOrLightning" column):
//
//	"Human", "Lightning", or "Under Invest" (still under investigation).
//	GeneralCause refines the category, e.g. "Recreation", "Smoking", "Railroad".
//
// Coordinates:
//
//	Lat_DD / Long_DD are decimal degrees (WGS-84) and are renamed to
//	Latitude / Longitude. A handful of rows have no coordinates.
//
// Missing numbers:
//
//	Empty Lat_DD, Long_DD and EstTotalAcres cells are held as NaN until [Clean]
//	runs. Clean drops rows without coordinates and fills missing acres with the
//	mean acres of the record's size class.
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of year|name|district|lat|lon, so
// publishing the same export twice yields the same message keys. See [generateID].
package domain
