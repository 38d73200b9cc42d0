// Package report writes the pipeline's final tables to disk in the two
// formats the Presenter consumes: CSV for sortable data tables and GeoJSON
// for map layers, plus a manifest describing the build. Null values are
// written as empty cells / omitted properties — never as zero.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/HousingDataLab/HCV-Atlas/internal/pipeline"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// tableSpec fixes the column order of one output table. KeyHeader names
// the identifier column; DisplayFields get a formatted "<field>_display"
// twin with grouped thousands for the Presenter's tables.
type tableSpec struct {
	Name          string
	KeyHeader     string
	NumFields     []string
	LabelFields   []string
	DisplayFields []string
}

func specs() []tableSpec {
	zctaNums := []string{}
	for _, br := range pipeline.Bedrooms {
		zctaNums = append(zctaNums, pipeline.SAFMRField(br))
	}
	for _, br := range pipeline.Bedrooms {
		zctaNums = append(zctaNums, pipeline.GapField(br))
	}
	zctaNums = append(zctaNums, pipeline.FieldMedianRent, pipeline.FieldRentMOEFlag, pipeline.FieldSAFMRVsRent)

	counts := []string{pipeline.FieldHCVSubUnits, pipeline.FieldHouseholds, pipeline.FieldTotalPop,
		pipeline.FieldPoCPop, pipeline.FieldPovertyPop}
	rates := []string{pipeline.FieldHCVRate, pipeline.FieldPctPoC, pipeline.FieldPctPoverty}

	return []tableSpec{
		{
			Name:          "tracts",
			KeyHeader:     "tract",
			NumFields:     append(append([]string{}, counts...), rates...),
			LabelFields:   []string{pipeline.LabelCounty, pipeline.LabelRECAP},
			DisplayFields: []string{pipeline.FieldHCVSubUnits, pipeline.FieldHouseholds, pipeline.FieldTotalPop},
		},
		{
			Name:          "counties",
			KeyHeader:     "county",
			NumFields:     append(append([]string{}, counts...), rates...),
			DisplayFields: []string{pipeline.FieldHCVSubUnits, pipeline.FieldHouseholds, pipeline.FieldTotalPop},
		},
		{
			Name:      "zctas",
			KeyHeader: "zcta",
			NumFields: zctaNums,
		},
		{
			Name:          "neighborhoods",
			KeyHeader:     "neighborhood",
			NumFields:     []string{pipeline.FieldHCVSubUnits, pipeline.FieldHouseholds, pipeline.FieldHCVRate},
			DisplayFields: []string{pipeline.FieldHCVSubUnits, pipeline.FieldHouseholds},
		},
	}
}

func resultTable(res *pipeline.Result, name string) *table.Table {
	switch name {
	case "tracts":
		return res.Tracts
	case "counties":
		return res.Counties
	case "zctas":
		return res.Zctas
	case "neighborhoods":
		return res.Neighborhoods
	}
	return nil
}

// Write renders every output table under dir and finishes with the
// manifest. The manifest is written last, so its presence marks a
// complete build.
func Write(res *pipeline.Result, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	manifest := newManifest(res)
	for _, spec := range specs() {
		t := resultTable(res, spec.Name)
		csvPath := filepath.Join(dir, spec.Name+".csv")
		geoPath := filepath.Join(dir, spec.Name+".geojson")

		if err := writeCSV(t, spec, csvPath); err != nil {
			return fmt.Errorf("write %s: %w", csvPath, err)
		}
		if err := writeGeoJSON(t, spec, geoPath); err != nil {
			return fmt.Errorf("write %s: %w", geoPath, err)
		}
		manifest.Tables[spec.Name] = manifestTable{
			Rows:    t.Len(),
			CSV:     spec.Name + ".csv",
			GeoJSON: spec.Name + ".geojson",
		}
	}
	return writeManifest(manifest, filepath.Join(dir, "manifest.json"))
}

// displayPrinter renders counts with grouped thousands ("12,345") for the
// Presenter's tables.
var displayPrinter = message.NewPrinter(language.AmericanEnglish)

func formatValue(v table.Value) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func formatDisplay(v table.Value) string {
	if !v.Valid {
		return ""
	}
	return displayPrinter.Sprintf("%d", int64(math.Round(v.Float64)))
}
