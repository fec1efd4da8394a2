// Command genmock writes a deterministic synthetic fire occurrence CSV with
// the 38 ODF export columns, for demos and for exercising the report and
// dashboard without the real data set.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/oregon_fires.csv -rows 2000 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// Columns is the ODF Fire Occurrence export header.
var Columns = []string{
	"Serial", "FireCategory", "FireYear", "Area", "DistrictName", "UnitName",
	"FullFireNumber", "FireName", "Size_class", "EstTotalAcres", "Protected_Acres",
	"HumanOrLightning", "CauseBy", "GeneralCause", "SpecificCause", "Cause_Comments",
	"Lat_DD", "Long_DD", "LatLongDD", "FO_LandOwnType", "Twn", "Rng", "Sec", "Subdiv",
	"LandmarkLocation", "County", "RegUseZone", "RegUseRestriction", "Industrial_Restriction",
	"Ign_DateTime", "ReportDateTime", "Discover_DateTime", "Control_DateTime",
	"CreationDate", "ModifiedDate", "DistrictCode", "UnitCode", "DistFireNumber",
}

type district struct {
	area, name, unit, county string
	lat, lon                 float64 // centre
}

var districts = []district{
	{"EOA", "Central Oregon", "Prineville", "Crook", 44.3, -120.8},
	{"EOA", "Northeast Oregon", "La Grande", "Union", 45.3, -118.1},
	{"EOA", "Klamath-Lake", "Klamath Falls", "Klamath", 42.4, -121.5},
	{"NOA", "North Cascade", "Molalla", "Clackamas", 45.0, -122.4},
	{"NOA", "West Oregon", "Philomath", "Benton", 44.5, -123.5},
	{"NOA", "Astoria", "Astoria", "Clatsop", 46.0, -123.7},
	{"SOA", "Southwest Oregon", "Grants Pass", "Josephine", 42.4, -123.4},
	{"SOA", "Douglas", "Roseburg", "Douglas", 43.2, -123.3},
	{"SOA", "Coos", "Coos Bay", "Coos", 43.3, -124.1},
}

var generalCauses = map[string][]string{
	"Human":        {"Debris Burning", "Equipment Use", "Recreation", "Arson", "Smoking", "Juveniles", "Railroad", "Miscellaneous"},
	"Lightning":    {"Lightning"},
	"Under Invest": {"Under Investigation"},
}

var namePrefixes = []string{"Cedar", "Ridge", "Bear", "Elk", "Rock", "Pine", "Juniper", "Sheep", "Camp", "Dry", "Willow", "Sugarloaf"}
var nameSuffixes = []string{"Creek", "Butte", "Canyon", "Flat", "Gulch", "Road", "Mountain", "Spring"}

type generator struct {
	rng *rand.Rand
	now time.Time
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 2000, "number of fire rows")
	seed := flag.Uint64("seed", 7, "random seed")
	flag.Parse()

	if *out == "" || *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -rows > 0")
	}

	// Fixed clock so CreationDate/ModifiedDate are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2023, time.March, 1, 8, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	if err := write(f, *rows, *seed); err != nil {
		return err
	}
	log.Printf("wrote %d rows to %s", *rows, *out)
	return nil
}

// write emits the header, the two Biscuit records, and n-2 random fires.
func write(w io.Writer, n int, seed uint64) error {
	g := &generator{rng: rand.New(rand.NewPCG(seed, seed^0x5eed)), now: domain.Now()}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range n {
		var row map[string]string
		switch i {
		case 0:
			row = g.biscuit(i, "ODF / BISCUIT", "Grants Pass", 42.31, -123.77)
		case 1:
			row = g.biscuit(i, "Biscuit Private", "Gold Beach", 42.43, -124.02)
		default:
			row = g.fire(i)
		}
		if err := cw.Write(ordered(row)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *generator) fire(i int) map[string]string {
	d := districts[g.rng.IntN(len(districts))]
	year := 2000 + g.rng.IntN(23)

	cause := "Human"
	switch r := g.rng.Float64(); {
	case r < 0.25:
		cause = "Lightning"
	case r < 0.28:
		cause = "Under Invest"
	}
	general := generalCauses[cause][g.rng.IntN(len(generalCauses[cause]))]

	// Most fires are tiny; a long tail burns thousands of acres.
	acres := g.rng.ExpFloat64() * 0.3
	if g.rng.Float64() < 0.05 {
		acres = 100 + g.rng.ExpFloat64()*4000
	}
	acres = float64(int(acres*100)) / 100

	lat := d.lat + g.rng.NormFloat64()*0.25
	lon := d.lon + g.rng.NormFloat64()*0.35

	row := g.common(i, d, year)
	row["FireName"] = namePrefixes[g.rng.IntN(len(namePrefixes))] + " " + nameSuffixes[g.rng.IntN(len(nameSuffixes))]
	row["Size_class"] = sizeClass(acres)
	row["EstTotalAcres"] = strconv.FormatFloat(acres, 'f', 2, 64)
	row["HumanOrLightning"] = cause
	row["GeneralCause"] = general
	row["CauseBy"] = cause
	row["SpecificCause"] = general
	row["Lat_DD"] = strconv.FormatFloat(lat, 'f', 5, 64)
	row["Long_DD"] = strconv.FormatFloat(lon, 'f', 5, 64)
	row["LatLongDD"] = row["Lat_DD"] + ", " + row["Long_DD"]

	// A few rows miss values the cleaner has to handle. Acres go missing
	// only on small fires, whose classes always have known values to impute from.
	switch r := g.rng.Float64(); {
	case r < 0.02:
		row["Lat_DD"], row["Long_DD"], row["LatLongDD"] = "", "", ""
	case r < 0.05 && acres < 10:
		row["EstTotalAcres"] = ""
	}
	return row
}

func (g *generator) biscuit(i int, name, unit string, lat, lon float64) map[string]string {
	d := district{"SOA", "Southwest Oregon", unit, "Josephine", lat, lon}
	row := g.common(i, d, 2002)
	row["FireName"] = name
	row["Size_class"] = "G"
	row["EstTotalAcres"] = "499945.00"
	row["HumanOrLightning"] = "Lightning"
	row["CauseBy"] = "Lightning"
	row["GeneralCause"] = "Lightning"
	row["SpecificCause"] = "Lightning"
	row["Lat_DD"] = strconv.FormatFloat(lat, 'f', 5, 64)
	row["Long_DD"] = strconv.FormatFloat(lon, 'f', 5, 64)
	row["LatLongDD"] = row["Lat_DD"] + ", " + row["Long_DD"]
	return row
}

// common fills the columns the report never reads.
func (g *generator) common(i int, d district, year int) map[string]string {
	ign := time.Date(year, time.Month(5+g.rng.IntN(5)), 1+g.rng.IntN(28), g.rng.IntN(24), 0, 0, 0, time.UTC)
	stamp := func(t time.Time) string { return t.Format("01/02/2006 15:04") }
	number := fmt.Sprintf("%d-%03d", year, i%1000)

	return map[string]string{
		"Serial":                 strconv.Itoa(100000 + i),
		"FireCategory":           "STAT",
		"FireYear":               strconv.Itoa(year),
		"Area":                   d.area,
		"DistrictName":           d.name,
		"UnitName":               d.unit,
		"FullFireNumber":         number,
		"Protected_Acres":        "",
		"Cause_Comments":         "",
		"FO_LandOwnType":         "Private",
		"Twn":                    fmt.Sprintf("%02dS", 1+g.rng.IntN(40)),
		"Rng":                    fmt.Sprintf("%02dW", 1+g.rng.IntN(14)),
		"Sec":                    strconv.Itoa(1 + g.rng.IntN(36)),
		"County":                 d.county,
		"RegUseZone":             "NE",
		"RegUseRestriction":      "",
		"Industrial_Restriction": "",
		"Ign_DateTime":           stamp(ign),
		"ReportDateTime":         stamp(ign.Add(30 * time.Minute)),
		"Discover_DateTime":      stamp(ign.Add(15 * time.Minute)),
		"Control_DateTime":       stamp(ign.Add(6 * time.Hour)),
		"CreationDate":           stamp(g.now),
		"ModifiedDate":           stamp(g.now),
		"DistrictCode":           strconv.Itoa(50 + i%10),
		"UnitCode":               strconv.Itoa(500 + i%30),
		"DistFireNumber":         strconv.Itoa(i % 1000),
	}
}

// sizeClass applies the NWCG size class thresholds.
func sizeClass(acres float64) string {
	switch {
	case acres <= 0.25:
		return "A"
	case acres < 10:
		return "B"
	case acres < 100:
		return "C"
	case acres < 300:
		return "D"
	case acres < 1000:
		return "E"
	case acres < 5000:
		return "F"
	default:
		return "G"
	}
}

func ordered(row map[string]string) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = row[c]
	}
	return out
}
