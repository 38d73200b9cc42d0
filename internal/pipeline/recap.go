package pipeline

import "github.com/HousingDataLab/HCV-Atlas/internal/table"

// RECAP classification values. The empty string is never used; an
// undefined classification is reported by ok=false.
const (
	RECAP    = "RECAP"
	NotRECAP = "NOT RECAP"
)

// ClassifyRECAP applies the HUD Racially/Ethnically Concentrated Area of
// Poverty rule: a tract is RECAP when its people-of-color share meets
// pocPct AND its poverty rate meets povertyPct. Both inputs are percent
// values. If either input is null the classification is undefined and ok
// is false. The thresholds come from configuration because they track an
// external policy definition.
func ClassifyRECAP(pctPoC, povertyRate table.Value, pocPct, povertyPct float64) (string, bool) {
	if !pctPoC.Valid || !povertyRate.Valid {
		return "", false
	}
	if pctPoC.Float64 >= pocPct && povertyRate.Float64 >= povertyPct {
		return RECAP, true
	}
	return NotRECAP, true
}
