// Package pipeline implements the report build: load every source, join
// attributes onto geometry, aggregate to county / ZCTA / neighborhood,
// classify tracts, and hand back immutable tables for the Presenter.
package pipeline

import "fmt"

// Field names on the output tables. These are the column contract with the
// Presenter; renaming one is a breaking change to the published report.
const (
	// Count fields. Absent source rows fill as zero: no voucher record
	// means no program participation.
	FieldHCVSubUnits = "hcv_sub_units"
	FieldHouseholds  = "households"
	FieldTotalPop    = "total_pop"
	FieldPoCPop      = "poc_pop"
	FieldPovertyPop  = "poverty_pop"

	// Rate fields. Absent inputs stay null so small-sample suppression
	// holds; the Presenter must render null as missing, never as 0.
	FieldHCVRate    = "hcv_rate"
	FieldPctPoC     = "pct_poc"
	FieldPctPoverty = "tract_pct_pov"

	// ZCTA rent fields, dollars.
	FieldMedianRent  = "median_gross_rent"
	FieldRentMOEFlag = "rent_moe_flag"
	FieldSAFMRVsRent = "safmr_vs_rent"

	// Labels.
	LabelCounty = "county"
	LabelRECAP  = "recap"
)

// Bedrooms enumerates the small-area FMR bedroom counts. Per-bedroom field
// names are derived: safmr_2br, gap_2br, and so on.
var Bedrooms = []int{0, 1, 2, 3, 4}

// SAFMRField returns the small-area FMR field name for a bedroom count.
func SAFMRField(br int) string { return fmt.Sprintf("safmr_%dbr", br) }

// GapField returns the SAFMR-minus-metro-FMR field name for a bedroom count.
func GapField(br int) string { return fmt.Sprintf("gap_%dbr", br) }
