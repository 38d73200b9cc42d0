package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/HousingDataLab/HCV-Atlas/internal/census"
)

// Intersection is one row of the tract/neighborhood bridge table: how much
// of a tract's area falls inside a neighborhood. The fractions drive the
// area-weighted reapportionment of tract counts onto neighborhoods.
type Intersection struct {
	Tract        string
	Neighborhood string
	// Area of the tract/neighborhood overlap and of the whole tract, in
	// the same (arbitrary) units.
	Area      float64
	TractArea float64
	// Fraction = Area / TractArea.
	Fraction float64
}

// fractionTolerance absorbs GIS floating-point noise when checking stored
// fractions against recomputed ones and per-tract fraction sums against 1.
const fractionTolerance = 1e-6

// ReadIntersections loads the bridge table. Expected columns: tract,
// neighborhood, intersection_area, tract_area, fraction. The stored
// fraction is checked against area/tract_area, and a tract whose fractions
// sum past 1 would double-count area, so both are fatal.
func ReadIntersections(path string) ([]Intersection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &MalformedInputError{File: path, Reason: err.Error()}
	}
	if len(records) < 2 {
		return nil, &MalformedInputError{File: path, Reason: "no data rows"}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range []string{"tract", "neighborhood", "intersection_area", "tract_area", "fraction"} {
		if _, ok := col[name]; !ok {
			return nil, &MalformedInputError{File: path, Column: name, Reason: "missing required column"}
		}
	}

	var out []Intersection
	perTract := map[string]float64{}

	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		tract := census.PadKey(get("tract"), 11)
		if !census.ValidTractFIPS(tract) {
			return nil, &MalformedInputError{File: path, Column: "tract", Row: rowIdx + 1,
				Reason: fmt.Sprintf("invalid tract FIPS %q", get("tract"))}
		}
		hood := get("neighborhood")
		if hood == "" {
			return nil, &MalformedInputError{File: path, Column: "neighborhood", Row: rowIdx + 1, Reason: "empty neighborhood"}
		}

		nums := map[string]float64{}
		for _, name := range []string{"intersection_area", "tract_area", "fraction"} {
			v, err := parseNumeric(get(name))
			if err != nil || !v.Valid {
				return nil, &MalformedInputError{File: path, Column: name, Row: rowIdx + 1,
					Reason: fmt.Sprintf("cannot parse numeric value %q", get(name))}
			}
			nums[name] = v.Float64
		}

		ix := Intersection{
			Tract:        tract,
			Neighborhood: hood,
			Area:         nums["intersection_area"],
			TractArea:    nums["tract_area"],
			Fraction:     nums["fraction"],
		}
		if ix.TractArea <= 0 {
			return nil, &MalformedInputError{File: path, Column: "tract_area", Row: rowIdx + 1, Reason: "tract_area must be positive"}
		}
		if math.Abs(ix.Fraction-ix.Area/ix.TractArea) > fractionTolerance {
			return nil, &MalformedInputError{File: path, Column: "fraction", Row: rowIdx + 1,
				Reason: fmt.Sprintf("stored fraction %v disagrees with intersection_area/tract_area %v",
					ix.Fraction, ix.Area/ix.TractArea)}
		}

		perTract[tract] += ix.Fraction
		if perTract[tract] > 1+fractionTolerance {
			return nil, &MalformedInputError{File: path, Column: "fraction", Row: rowIdx + 1,
				Reason: fmt.Sprintf("fractions for tract %s sum to %v (> 1): area double-counted", tract, perTract[tract])}
		}

		out = append(out, ix)
	}
	return out, nil
}
