package pipeline

import (
	"math"
	"sort"
	"testing"

	"github.com/HousingDataLab/HCV-Atlas/internal/loader"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

func TestRate_Suppression(t *testing.T) {
	cases := []struct {
		name string
		num  table.Value
		den  table.Value
		want table.Value
	}{
		{"normal", table.Num(50), table.Num(500), table.Num(10)},
		{"den below threshold", table.Num(1), table.Num(5), table.Null()},
		{"den just below threshold", table.Num(9), table.Num(9), table.Null()},
		{"den at threshold", table.Num(1), table.Num(10), table.Num(10)},
		{"den zero", table.Num(100), table.Num(0), table.Null()},
		{"den null", table.Num(100), table.Null(), table.Null()},
		{"num null", table.Null(), table.Num(500), table.Null()},
		{"huge num tiny den", table.Num(1e9), table.Num(3), table.Null()},
	}
	for _, c := range cases {
		got := Rate(c.num, c.den, 10)
		if got.Valid != c.want.Valid || (got.Valid && math.Abs(got.Float64-c.want.Float64) > 1e-9) {
			t.Errorf("%s: Rate = %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestSub_NullPropagation(t *testing.T) {
	if got := Sub(table.Num(1490), table.Num(1156)); !got.Valid || got.Float64 != 334 {
		t.Errorf("Sub = %+v, want 334", got)
	}
	if Sub(table.Null(), table.Num(1)).Valid || Sub(table.Num(1), table.Null()).Valid {
		t.Error("Sub did not propagate null")
	}
}

// TestReapportionByArea_Conservation: a tract whose fractions sum to 1
// contributes exactly its unweighted totals across neighborhoods.
func TestReapportionByArea_Conservation(t *testing.T) {
	tract := table.NewRow("09001030100")
	tract.Nums[FieldHCVSubUnits] = table.Num(90)
	tract.Nums[FieldHouseholds] = table.Num(300)
	tracts := table.New()
	tracts.Append(tract)

	intersections := []loader.Intersection{
		{Tract: "09001030100", Neighborhood: "Downtown", Area: 60, TractArea: 100, Fraction: 0.6},
		{Tract: "09001030100", Neighborhood: "Westville", Area: 40, TractArea: 100, Fraction: 0.4},
	}

	out, skipped := ReapportionByArea(tracts, intersections, []string{FieldHCVSubUnits, FieldHouseholds})
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}

	var unitSum, hhSum float64
	for _, r := range out.Rows() {
		unitSum += r.Num(FieldHCVSubUnits).Float64
		hhSum += r.Num(FieldHouseholds).Float64
	}
	if math.Abs(unitSum-90) > 1e-9 {
		t.Errorf("weighted unit total = %v, want 90", unitSum)
	}
	if math.Abs(hhSum-300) > 1e-9 {
		t.Errorf("weighted household total = %v, want 300", hhSum)
	}

	downtown, _ := out.Get("Downtown")
	if got := downtown.Num(FieldHCVSubUnits).Float64; math.Abs(got-54) > 1e-9 {
		t.Errorf("Downtown units = %v, want 54", got)
	}
}

func TestReapportionByArea_UnknownTractSkipped(t *testing.T) {
	tracts := table.New()
	intersections := []loader.Intersection{
		{Tract: "09001999999", Neighborhood: "Nowhere", Fraction: 1},
	}
	out, skipped := ReapportionByArea(tracts, intersections, []string{FieldHCVSubUnits})
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if out.Len() != 0 {
		t.Errorf("output rows = %d, want 0", out.Len())
	}
}

func TestQuantileBins_Monotonic(t *testing.T) {
	values := []float64{8, 1, 5, 3, 9, 2, 7, 4, 6, 0}
	breaks := QuantileBins(values, 5)
	if len(breaks) != 6 {
		t.Fatalf("len(breaks) = %d, want 6", len(breaks))
	}
	if !sort.Float64sAreSorted(breaks) {
		t.Errorf("breaks not non-decreasing: %v", breaks)
	}
	if breaks[0] != 0 || breaks[5] != 9 {
		t.Errorf("breaks = %v, want min 0 and max 9", breaks)
	}
}

func TestQuantileBins_Interpolation(t *testing.T) {
	breaks := QuantileBins([]float64{0, 10}, 2)
	want := []float64{0, 5, 10}
	for i := range want {
		if math.Abs(breaks[i]-want[i]) > 1e-9 {
			t.Fatalf("breaks = %v, want %v", breaks, want)
		}
	}
}

func TestQuantileBins_DegenerateInputs(t *testing.T) {
	if got := QuantileBins(nil, 5); got != nil {
		t.Errorf("QuantileBins(nil) = %v, want nil", got)
	}
	breaks := QuantileBins([]float64{7}, 5)
	for _, b := range breaks {
		if b != 7 {
			t.Fatalf("single-value breaks = %v, want all 7", breaks)
		}
	}
}
