// Command validate checks a GeoJSON document produced by the ETL against the
// register it was built from. It verifies the document schema, the property
// values, and that every well-formed input row reached the output in order.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -input data/accidents.tsv \
//	  -output output/out.geojson
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/accident-light-etl/internal/adapter/geojson"
	"github.com/couchcryptid/accident-light-etl/internal/adapter/tsv"
	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"
)

var propertyKeys = []string{
	"accident_reason", "age", "datetime", "gender", "light",
	"utm_x", "utm_y", "vehicle_deceased", "vehicle_killer",
}

var (
	validGenders  = map[string]bool{string(domain.GenderMan): true, string(domain.GenderWoman): true}
	validLights   = map[string]bool{string(domain.LightDay): true, string(domain.LightTwilight): true, string(domain.LightNight): true}
	validVehicles = map[string]bool{
		string(domain.VehicleCar):        true,
		string(domain.VehicleBike):       true,
		string(domain.VehicleMotorcycle): true,
		string(domain.VehiclePedestrian): true,
		string(domain.VehicleHeavy):      true,
	}
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path to the accident register TSV")
	output := flag.String("output", "", "path to the generated GeoJSON document")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input, *output); code != 0 {
		os.Exit(code)
	}
}

func run(inputPath, outputPath string) int {
	fmt.Println("=== Accident GeoJSON Validation ===")
	fmt.Println()

	fc, err := loadCollection(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load GeoJSON: %v\n", err)
		return 1
	}

	rows, skipped, err := loadRows(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load register: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(fc),
		validateValues(fc),
		validateCrossRef(fc, rows),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d register rows (%d skipped), %d features\n", len(rows)+skipped, skipped, len(fc.Features))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadCollection(path string) (*orbjson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return orbjson.UnmarshalFeatureCollection(data)
}

// loadRows returns the well-formed register rows and the number of rows the
// reader dropped for a wrong field count.
func loadRows(path string) ([]domain.RawRecord, int, error) {
	r := tsv.NewReader(path, slog.New(slog.DiscardHandler))
	var rows []domain.RawRecord
	for rec, err := range r.Records(context.Background()) {
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, rec)
	}
	return rows, r.Skipped(), nil
}

// ── Phase 1: Schema ──
// Every feature is a Point carrying exactly the expected property keys.

func validateSchema(fc *orbjson.FeatureCollection) *phase {
	p := &phase{name: "Phase 1: Schema (geometry and keys)"}

	if fc.Type != "FeatureCollection" {
		p.errorf("document type %q, want FeatureCollection", fc.Type)
	}

	for i, f := range fc.Features {
		if _, ok := f.Geometry.(orb.Point); !ok {
			p.errorf("feature %d: geometry %T, want Point", i, f.Geometry)
		}
		keys := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		if !slices.Equal(keys, propertyKeys) {
			p.errorf("feature %d: properties %v, want %v", i, keys, propertyKeys)
		}
	}
	return p
}

// ── Phase 2: Values ──
// Categorical properties use the simplified vocabularies and coordinates are
// ordered [lon, lat].

func validateValues(fc *orbjson.FeatureCollection) *phase {
	p := &phase{name: "Phase 2: Values (categories and ranges)"}

	for i, f := range fc.Features {
		if pt, ok := f.Geometry.(orb.Point); ok {
			if math.Abs(pt.Lon()) > 180 || math.Abs(pt.Lat()) > 90 {
				p.errorf("feature %d: coordinates %v out of range", i, pt)
			}
		}

		checkCategory(p, i, f.Properties, "gender", validGenders, false)
		checkCategory(p, i, f.Properties, "vehicle_deceased", validVehicles, false)
		checkCategory(p, i, f.Properties, "vehicle_killer", validVehicles, false)
		checkCategory(p, i, f.Properties, "light", validLights, true)

		datetime, hasTime := f.Properties["datetime"].(string)
		if hasTime {
			if _, err := time.Parse(geojson.DateTimeLayout, datetime); err != nil {
				p.errorf("feature %d: datetime %q: %v", i, datetime, err)
			}
		}
		if hasTime != (f.Properties["light"] != nil) {
			p.errorf("feature %d: light must be null exactly when datetime is null", i)
		}

		if age, ok := f.Properties["age"].(float64); ok && age != math.Trunc(age) {
			p.errorf("feature %d: age %v is not an integer", i, age)
		}
	}
	return p
}

func checkCategory(p *phase, i int, props orbjson.Properties, key string, valid map[string]bool, nullable bool) {
	v, ok := props[key]
	if v == nil && nullable {
		return
	}
	s, isString := v.(string)
	if !ok || !isString || !valid[s] {
		p.errorf("feature %d: %s %v is not a valid value", i, key, v)
	}
}

// ── Phase 3: Cross-reference ──
// Features appear in register order with the truncated grid coordinates of
// their row.

func validateCrossRef(fc *orbjson.FeatureCollection, rows []domain.RawRecord) *phase {
	p := &phase{name: "Phase 3: Cross-reference (GeoJSON vs TSV)"}

	if len(fc.Features) != len(rows) {
		p.errorf("feature count: expected %d, got %d", len(rows), len(fc.Features))
		return p
	}

	for i, row := range rows {
		props := fc.Features[i].Properties
		checkGrid(p, row, props, "utm_x", row.Field(domain.FieldEasting))
		checkGrid(p, row, props, "utm_y", row.Field(domain.FieldNorthing))
	}
	return p
}

func checkGrid(p *phase, row domain.RawRecord, props orbjson.Properties, key, raw string) {
	want, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.errorf("line %d: %s source %q is not numeric", row.Line, key, raw)
		return
	}
	got, ok := props[key].(float64)
	if !ok || got != math.Trunc(want) {
		p.errorf("line %d: %s expected %v, got %v", row.Line, key, math.Trunc(want), props[key])
	}
}
