package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/dashboard"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

// tolerance for comparing acre sums computed in different orders.
const tolerance = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the integrity of the cleaned data and derived views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, clean, err := report.LoadClean(a.loader(), a.logger, a.metrics)
			if err != nil {
				var ierr *domain.ImputationError
				if !errors.As(err, &ierr) {
					return err
				}
			}
			phases := runValidation(raw, clean, err)
			if !printPhases(cmd.OutOrStdout(), phases, len(raw), len(clean.Records)) {
				return errors.New("validation failed")
			}
			return nil
		},
	}
}

// runValidation checks every cleaning and aggregation invariant. cleanErr
// is the error Clean returned, if any.
func runValidation(raw []domain.FireRecord, clean domain.CleanResult, cleanErr error) []*phase {
	return []*phase{
		validateCoordinates(raw, clean),
		validateAcres(raw, clean, cleanErr),
		validatePartitions(clean.Records),
		validateTopFires(clean.Records),
		validateIdempotence(clean),
		validateGroupedSummary(clean.Records),
	}
}

func validateCoordinates(raw []domain.FireRecord, clean domain.CleanResult) *phase {
	p := &phase{name: "Coordinates present after cleaning"}

	missing := 0
	for _, r := range raw {
		if !r.HasCoordinates() {
			missing++
		}
	}
	if missing != clean.DroppedNoCoordinates {
		p.errorf("dropped %d records, %d source records lack coordinates", clean.DroppedNoCoordinates, missing)
	}
	if len(raw)-missing != len(clean.Records) {
		p.errorf("kept %d records, expected %d", len(clean.Records), len(raw)-missing)
	}
	for _, r := range clean.Records {
		if !r.HasCoordinates() {
			p.errorf("%s (%s %d): coordinates missing", r.ID, r.FireName, r.FireYear)
		}
	}
	return p
}

func validateAcres(raw []domain.FireRecord, clean domain.CleanResult, cleanErr error) *phase {
	p := &phase{name: "Acres imputed from size-class means"}

	if cleanErr != nil {
		p.errorf("%v", cleanErr)
	}

	imputed := 0
	for _, r := range clean.Records {
		switch {
		case math.IsNaN(r.EstTotalAcres):
			if cleanErr == nil {
				p.errorf("%s (%s %d): acres missing", r.ID, r.FireName, r.FireYear)
			}
		case r.EstTotalAcres < 0:
			p.errorf("%s (%s %d): negative acres %g", r.ID, r.FireName, r.FireYear, r.EstTotalAcres)
		}
		if !r.AcresImputed {
			continue
		}
		imputed++
		mean, ok := clean.ClassMeans[r.SizeClass]
		if !ok || math.Abs(mean-r.EstTotalAcres) > tolerance {
			p.errorf("%s: imputed %g, class %s mean is %g", r.ID, r.EstTotalAcres, r.SizeClass, mean)
		}
	}
	if imputed != clean.Imputed {
		p.errorf("imputed count %d, %d records flagged", clean.Imputed, imputed)
	}

	// Clean keeps the surviving records in source order.
	kept := make([]domain.FireRecord, 0, len(raw))
	for _, r := range raw {
		if r.HasCoordinates() {
			kept = append(kept, r)
		}
	}
	for i := range min(len(kept), len(clean.Records)) {
		src, got := kept[i], clean.Records[i]
		if src.HasAcres() && src.EstTotalAcres != got.EstTotalAcres {
			p.errorf("%s: known acres changed from %g to %g", got.ID, src.EstTotalAcres, got.EstTotalAcres)
		}
	}
	return p
}

func validatePartitions(records []domain.FireRecord) *phase {
	p := &phase{name: "Aggregations partition the record set"}
	total := analysis.TotalAcres(records)

	var areaAcres float64
	areaFires := 0
	for _, a := range analysis.AcresByArea(records) {
		areaAcres += a.Acres
		areaFires += a.Fires
	}
	if math.Abs(areaAcres-total) > tolerance*max(1, total) {
		p.errorf("area acres sum to %g, total is %g", areaAcres, total)
	}
	if areaFires != len(records) {
		p.errorf("area counts sum to %d, %d records", areaFires, len(records))
	}

	causes := 0
	for _, c := range analysis.CountByCause(records) {
		causes += c.Count
	}
	if causes != len(records) {
		p.errorf("cause counts sum to %d, %d records", causes, len(records))
	}

	classes := 0
	for _, c := range analysis.CountBySizeClass(records) {
		classes += c.Count
	}
	if classes != len(records) {
		p.errorf("size class counts sum to %d, %d records", classes, len(records))
	}
	return p
}

func validateTopFires(records []domain.FireRecord) *phase {
	p := &phase{name: "Top fires ordered by acres"}
	top := analysis.TopFires(records, analysis.DefaultTopFires)

	if want := min(analysis.DefaultTopFires, len(records)); len(top) != want {
		p.errorf("top fires has %d rows, want %d", len(top), want)
	}
	for i := 1; i < len(top); i++ {
		if top[i].EstTotalAcres > top[i-1].EstTotalAcres {
			p.errorf("rank %d (%g acres) above rank %d (%g acres)", i+1, top[i].EstTotalAcres, i, top[i-1].EstTotalAcres)
		}
	}
	if len(top) > 0 && len(records) > len(top) {
		floor := top[len(top)-1].EstTotalAcres
		for _, r := range records {
			if r.EstTotalAcres > floor && !slices.ContainsFunc(top, func(t domain.FireRecord) bool { return t.ID == r.ID }) {
				p.errorf("%s (%g acres) missing from top fires", r.ID, r.EstTotalAcres)
			}
		}
	}
	return p
}

func validateIdempotence(clean domain.CleanResult) *phase {
	p := &phase{name: "Cleaning is idempotent"}

	again, err := domain.Clean(clean.Records)
	if err != nil {
		p.errorf("second clean failed: %v", err)
		return p
	}
	if again.DroppedNoCoordinates != 0 || again.Imputed != 0 {
		p.errorf("second clean dropped %d and imputed %d", again.DroppedNoCoordinates, again.Imputed)
	}
	if len(again.Records) != len(clean.Records) {
		p.errorf("second clean kept %d of %d records", len(again.Records), len(clean.Records))
		return p
	}
	for i := range again.Records {
		if again.Records[i].ID != clean.Records[i].ID || again.Records[i].EstTotalAcres != clean.Records[i].EstTotalAcres {
			p.errorf("record %d changed on second clean", i)
		}
	}
	return p
}

func validateGroupedSummary(records []domain.FireRecord) *phase {
	p := &phase{name: "Grouped summary backs the dashboard"}
	summary := analysis.GroupFires(records)

	if !slices.IsSortedFunc(summary, analysis.CompareGrouped) {
		p.errorf("grouped summary is not sorted by name, year, cause, size class")
	}

	// Unnamed fires are left out of the summary.
	named := slices.DeleteFunc(slices.Clone(records), func(r domain.FireRecord) bool { return r.FireName == "" })
	total := analysis.TotalAcres(named)
	opts := dashboard.BuildOptions(summary)
	var bars float64
	for _, year := range opts.Years {
		for _, class := range opts.SizeClasses {
			for _, cause := range opts.Causes {
				r := dashboard.Recompute(summary, dashboard.Selection{SizeClass: class, Cause: cause, Year: year})
				for _, b := range r.Bars {
					bars += b.Value
				}
			}
		}
	}
	if math.Abs(bars-total) > tolerance*max(1, total) {
		p.errorf("dashboard bars over every selection sum to %g, total is %g", bars, total)
	}
	return p
}

// printPhases writes the PASS/FAIL table and the detailed errors. It
// reports whether every phase passed.
func printPhases(w io.Writer, phases []*phase, loaded, cleaned int) bool {
	fmt.Fprintln(w, "=== Oregon Fire Data Integrity Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d loaded, %d after cleaning\n", loaded, cleaned)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}
