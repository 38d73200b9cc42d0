package pipeline

import (
	"math"
	"sort"

	"github.com/HousingDataLab/HCV-Atlas/internal/loader"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// Rate computes 100 * num / den, suppressed to null whenever the
// denominator is null, zero, or below minDen. A dozen vouchers over three
// households is noise, not a 400% rate; suppression is how the report says
// "not enough sample".
func Rate(num, den table.Value, minDen float64) table.Value {
	if !num.Valid || !den.Valid {
		return table.Null()
	}
	if den.Float64 == 0 || den.Float64 < minDen {
		return table.Null()
	}
	return table.Num(100 * num.Float64 / den.Float64)
}

// Sub subtracts b from a, propagating null from either side. Used for the
// rent-gap fields.
func Sub(a, b table.Value) table.Value {
	if !a.Valid || !b.Valid {
		return table.Null()
	}
	return table.Num(a.Float64 - b.Float64)
}

// ReapportionByArea converts tract-level counts to neighborhood-level
// estimates: each intersection row contributes fraction * count for every
// named field, summed per neighborhood. A tract straddling two
// neighborhoods contributes to each in proportion to the area falling
// inside it, assuming uniform density within the tract — a documented
// approximation, not an error source. Null counts contribute nothing.
// Intersections referencing tracts absent from the table are skipped and
// counted for the build diagnostics.
func ReapportionByArea(tracts *table.Table, intersections []loader.Intersection, fields []string) (*table.Table, int) {
	out := table.New()
	skipped := 0

	for _, ix := range intersections {
		src, ok := tracts.Get(ix.Tract)
		if !ok {
			skipped++
			continue
		}
		row, ok := out.Get(ix.Neighborhood)
		if !ok {
			row = table.NewRow(ix.Neighborhood)
			row.Name = ix.Neighborhood
			for _, f := range fields {
				row.Nums[f] = table.Num(0)
			}
			out.Append(row)
		}
		for _, f := range fields {
			if v := src.Nums[f]; v.Valid {
				row.Nums[f] = table.Num(row.Nums[f].Float64 + v.Float64*ix.Fraction)
			}
		}
	}
	return out, skipped
}

// QuantileBins computes n+1 breakpoints at evenly spaced quantiles (for
// n=5: the 0th, 20th, 40th, 60th, 80th and 100th percentiles) over the
// given values, for the Presenter's choropleth legends. Breakpoints are
// non-decreasing by construction. Returns nil for an empty input.
func QuantileBins(values []float64, n int) []float64 {
	if len(values) == 0 || n < 1 {
		return nil
	}
	vs := append([]float64(nil), values...)
	sort.Float64s(vs)

	breaks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		breaks = append(breaks, quantile(vs, float64(i)/float64(n)))
	}
	return breaks
}

// quantile interpolates linearly between order statistics, matching the
// convention of most statistical software. vs must be sorted.
func quantile(vs []float64, p float64) float64 {
	if len(vs) == 1 {
		return vs[0]
	}
	h := p * float64(len(vs)-1)
	lo := int(math.Floor(h))
	if lo >= len(vs)-1 {
		return vs[len(vs)-1]
	}
	frac := h - float64(lo)
	return vs[lo] + frac*(vs[lo+1]-vs[lo])
}
