package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"sort"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/mapsvg"
	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"github.com/spf13/cobra"
)

// phase tracks pass/fail for a validation phase. Warnings do not fail it.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the reference CSVs and base maps for integrity problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := opts.tables()
			if err != nil {
				return err
			}
			phases := validate(os.DirFS(opts.dataDir), os.DirFS(opts.mapsDir), tables)
			if !report(cmd.OutOrStdout(), phases) {
				return errValidationFailed
			}
			return nil
		},
	}
}

// validate runs every phase. Later phases are skipped when the datasets do
// not load.
func validate(data, maps fs.FS, tables *reference.Tables) []*phase {
	load := &phase{name: "Phase 1: Load (required files and columns)"}
	index, err := reference.Load(data)
	if err != nil {
		load.errorf("%v", err)
		return []*phase{load}
	}
	return []*phase{
		load,
		validateRainfall(index),
		validateGroundwater(index),
		validateAquifer(index),
		validateMaps(index, tables, maps),
	}
}

// validateRainfall checks every NORMAL value parses to a positive number.
func validateRainfall(ix *domain.Index) *phase {
	p := &phase{name: "Phase 2: Rainfall (NORMAL values)"}
	table, _ := ix.Table(domain.DatasetRainfall)
	seen := map[string]int{}
	table.Each(func(i int, row domain.Row) bool {
		name := row.Get(domain.ColRainfallName)
		raw := row.Get(domain.ColRainfallNormal)
		mm := domain.ParseRainfall(raw)
		switch {
		case math.IsNaN(mm):
			p.errorf("line %d (%s): NORMAL %q is not a number", i+2, name, raw)
		case mm <= 0:
			p.errorf("line %d (%s): NORMAL %v is not positive", i+2, name, mm)
		}
		key := domain.Normalize(name)
		if prev, dup := seen[key]; dup {
			p.warnf("line %d (%s): duplicate of line %d, lookups use the first", i+2, name, prev)
		} else {
			seen[key] = i + 2
		}
		return true
	})
	return p
}

// validateGroundwater checks depth strings are missing or parseable.
func validateGroundwater(ix *domain.Index) *phase {
	p := &phase{name: "Phase 3: Groundwater (depth ranges)"}
	table, _ := ix.Table(domain.DatasetGroundwater)
	table.Each(func(i int, row domain.Row) bool {
		district := row.Get(domain.ColGroundwaterDistrict)
		for _, col := range []string{domain.ColGroundwaterPre, domain.ColGroundwaterPost} {
			raw := row.Get(col)
			if domain.IsMissingDepth(raw) {
				p.warnf("row %d (%s): %s is missing", i+1, district, col)
				continue
			}
			if _, err := domain.ParseDepthRange(raw); err != nil {
				p.errorf("row %d (%s): %s %q does not parse", i+1, district, col, raw)
			}
		}
		return true
	})
	return p
}

// validateAquifer checks every composition scores to a known value.
func validateAquifer(ix *domain.Index) *phase {
	p := &phase{name: "Phase 4: Aquifer (lithology scores)"}
	table, _ := ix.Table(domain.DatasetAquifer)
	table.Each(func(i int, row domain.Row) bool {
		raw := row.Get(domain.ColAquiferType)
		if !domain.ScoreAquifer(raw).Known() {
			p.errorf("line %d (%s): %q has no scorable lithology", i+2, row.Get(domain.ColAquiferState), raw)
		}
		return true
	})
	return p
}

// validateMaps checks the national map and one map per aquifer state exist
// and parse.
func validateMaps(ix *domain.Index, tables *reference.Tables, maps fs.FS) *phase {
	p := &phase{name: "Phase 5: Maps (base SVG coverage)"}
	codes := map[string]string{mapsvg.NationalMap: "India"}
	table, _ := ix.Table(domain.DatasetAquifer)
	table.Each(func(_ int, row domain.Row) bool {
		state := row.Get(domain.ColAquiferState)
		code, listed := tables.StateCode(state)
		if !listed {
			p.warnf("%s: no state code, the aquifer map skips it", state)
			return true
		}
		codes[code] = state
		return true
	})

	names := make([]string, 0, len(codes))
	for code := range codes {
		names = append(names, code)
	}
	sort.Strings(names)
	for _, code := range names {
		data, err := fs.ReadFile(maps, code+".svg")
		if err != nil {
			p.errorf("%s (%s): %v", code, codes[code], err)
			continue
		}
		if _, err := mapsvg.Parse(data); err != nil {
			p.errorf("%s (%s): %v", code, codes[code], err)
		}
	}
	return p
}

// report prints the phase summary and details. It returns true when every
// phase passed.
func report(w io.Writer, phases []*phase) bool {
	fmt.Fprintln(w, "=== Reference Data Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		if len(p.warnings) > 0 {
			status += fmt.Sprintf(" %d warnings", len(p.warnings))
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() && len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, warn := range p.warnings {
			fmt.Fprintf(w, "  warn: %s\n", warn)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}
