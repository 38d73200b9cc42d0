package pipeline

import (
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/HousingDataLab/HCV-Atlas/internal/census"
	"github.com/HousingDataLab/HCV-Atlas/internal/config"
	"github.com/HousingDataLab/HCV-Atlas/internal/loader"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// sentinelTractKeys are the placeholder identifiers HUD uses for
// "statewide total, no tract" rows. They are filtered before joining.
var sentinelTractKeys = []string{"XXXXXXXXXXX", "Sum of All Tracts"}

// Result is the pipeline's output: one immutable table per geography plus
// the legend breakpoints and build accounting. Everything the Presenter
// renders comes from here.
type Result struct {
	RunID uuid.UUID

	Tracts        *table.Table
	Counties      *table.Table
	Zctas         *table.Table
	Neighborhoods *table.Table

	// TractNeighborhoods lists, per tract, the neighborhoods it overlaps.
	TractNeighborhoods map[string][]string

	// Bins holds choropleth legend breakpoints keyed "<geography>.<field>".
	Bins map[string][]float64

	Diagnostics Diagnostics
}

// Diagnostics records the soft data-quality conditions of one build:
// unmatched-key counts per join and intersections referencing unknown
// tracts. These are expected in real administrative data and never abort
// the build, but every build reports them.
type Diagnostics struct {
	Joins                map[string]table.JoinStats
	SkippedIntersections int
}

func (d *Diagnostics) record(name string, stats table.JoinStats) {
	if d.Joins == nil {
		d.Joins = map[string]table.JoinStats{}
	}
	d.Joins[name] = stats
}

// Run executes one report build: load, join, aggregate, classify. Hard
// structural problems (missing files, malformed schemas) abort with the
// offending file and column attached; everything else lands in the tables
// as zero or null per field policy.
func Run(cfg config.Config) (*Result, error) {
	res := &Result{
		RunID: uuid.New(),
		Bins:  map[string][]float64{},
	}
	th := cfg.Thresholds

	tractGeom, err := loader.ReadShapefile(loader.ShapeSpec{
		Path: cfg.Inputs.TractGeometry, KeyField: "GEOID", KeyWidth: 11,
	})
	if err != nil {
		return nil, fmt.Errorf("load tract geometry: %w", err)
	}
	countyGeom, err := loader.ReadShapefile(loader.ShapeSpec{
		Path: cfg.Inputs.CountyGeometry, KeyField: "GEOID", NameField: "NAME", KeyWidth: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("load county geometry: %w", err)
	}
	zctaGeom, err := loader.ReadShapefile(loader.ShapeSpec{
		Path: cfg.Inputs.ZctaGeometry, KeyField: "GEOID", KeyWidth: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("load ZCTA geometry: %w", err)
	}
	hoodGeom, err := loader.ReadShapefile(loader.ShapeSpec{
		Path: cfg.Inputs.NeighborhoodGeometry, KeyField: "NAME",
	})
	if err != nil {
		return nil, fmt.Errorf("load neighborhood geometry: %w", err)
	}

	vouchers, err := loader.ReadCSV(loader.CSVSpec{
		Path:      cfg.Inputs.Vouchers,
		KeyColumn: "tract",
		KeyWidth:  11,
		Columns: []loader.ColumnSpec{
			{Source: "subsidized_units", Field: FieldHCVSubUnits},
		},
		DropKeys: sentinelTractKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("load vouchers: %w", err)
	}
	demographics, err := loader.ReadCSV(loader.CSVSpec{
		Path:      cfg.Inputs.Demographics,
		KeyColumn: "tract",
		KeyWidth:  11,
		Columns: []loader.ColumnSpec{
			{Source: "households", Field: FieldHouseholds},
			{Source: "total_pop", Field: FieldTotalPop},
			{Source: "poc_pop", Field: FieldPoCPop},
			{Source: "poverty_pop", Field: FieldPovertyPop},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load demographics: %w", err)
	}
	safmrCols := make([]loader.ColumnSpec, 0, len(Bedrooms))
	for _, br := range Bedrooms {
		safmrCols = append(safmrCols, loader.ColumnSpec{Source: SAFMRField(br), Field: SAFMRField(br)})
	}
	safmr, err := loader.ReadCSV(loader.CSVSpec{
		Path:      cfg.Inputs.SAFMR,
		KeyColumn: "zcta",
		KeyWidth:  5,
		Columns:   safmrCols,
	})
	if err != nil {
		return nil, fmt.Errorf("load SAFMR: %w", err)
	}
	rents, err := loader.ReadCSV(loader.CSVSpec{
		Path:      cfg.Inputs.Rents,
		KeyColumn: "zcta",
		KeyWidth:  5,
		Columns: []loader.ColumnSpec{
			{Source: "median_gross_rent", Field: FieldMedianRent},
			{Source: "rent_moe_flag", Field: FieldRentMOEFlag},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load rents: %w", err)
	}
	intersections, err := loader.ReadIntersections(cfg.Inputs.TractNeighborhood)
	if err != nil {
		return nil, fmt.Errorf("load tract/neighborhood intersections: %w", err)
	}

	res.Tracts = buildTracts(tractGeom, vouchers, demographics, th, &res.Diagnostics)
	res.Counties = buildCounties(res.Tracts, countyGeom, th, &res.Diagnostics)
	res.Zctas = buildZctas(zctaGeom, safmr, rents, th, &res.Diagnostics)
	res.Neighborhoods = buildNeighborhoods(res.Tracts, hoodGeom, intersections, th, &res.Diagnostics)
	res.TractNeighborhoods = tractNeighborhoods(intersections)

	res.Bins["tracts."+FieldHCVRate] = QuantileBins(res.Tracts.Values(FieldHCVRate), th.QuantileBins)
	res.Bins["tracts."+FieldPctPoC] = QuantileBins(res.Tracts.Values(FieldPctPoC), th.QuantileBins)
	res.Bins["tracts."+FieldPctPoverty] = QuantileBins(res.Tracts.Values(FieldPctPoverty), th.QuantileBins)
	res.Bins["counties."+FieldHCVRate] = QuantileBins(res.Counties.Values(FieldHCVRate), th.QuantileBins)
	res.Bins["zctas."+FieldSAFMRVsRent] = QuantileBins(res.Zctas.Values(FieldSAFMRVsRent), th.QuantileBins)
	res.Bins["neighborhoods."+FieldHCVRate] = QuantileBins(res.Neighborhoods.Values(FieldHCVRate), th.QuantileBins)

	logDiagnostics(res)
	return res, nil
}

// buildTracts joins voucher and demographic attributes onto tract
// geometry and computes the tract-level derived fields. Voucher counts
// fill as zero; demographic inputs stay null so rate suppression holds.
func buildTracts(geom, vouchers, demographics *table.Table, th config.Thresholds, diags *Diagnostics) *table.Table {
	t, stats := table.LeftJoin(geom, vouchers, []string{FieldHCVSubUnits}, table.FillZero)
	diags.record("tracts<-vouchers", stats)

	t, stats = table.LeftJoin(t, demographics,
		[]string{FieldHouseholds, FieldTotalPop, FieldPoCPop, FieldPovertyPop}, table.FillNull)
	diags.record("tracts<-demographics", stats)

	return t.Map(func(r *table.Row) {
		// County derivation happens here, before any county join.
		if county, err := census.CountyFromTract(r.Key); err == nil {
			r.Labels[LabelCounty] = county
		}
		r.Nums[FieldHCVRate] = Rate(r.Num(FieldHCVSubUnits), r.Num(FieldHouseholds), th.MinSample)
		r.Nums[FieldPctPoC] = Rate(r.Num(FieldPoCPop), r.Num(FieldTotalPop), th.MinSample)
		r.Nums[FieldPctPoverty] = Rate(r.Num(FieldPovertyPop), r.Num(FieldTotalPop), th.MinSample)
		if label, ok := ClassifyRECAP(r.Num(FieldPctPoC), r.Num(FieldPctPoverty), th.RECAPPoCPct, th.RECAPPovertyPct); ok {
			r.Labels[LabelRECAP] = label
		}
	})
}

// buildCounties groups tract counts by the derived county prefix, anchors
// the sums on county geometry, and computes county rates from the summed
// counts (never by averaging tract rates).
func buildCounties(tracts, geom *table.Table, th config.Thresholds, diags *Diagnostics) *table.Table {
	sums := table.GroupBy(tracts, func(r *table.Row) string { return r.Labels[LabelCounty] },
		[]string{FieldHCVSubUnits, FieldHouseholds, FieldTotalPop, FieldPoCPop, FieldPovertyPop}, nil)

	t, stats := table.LeftJoin(geom, sums,
		[]string{FieldHCVSubUnits, FieldHouseholds, FieldTotalPop, FieldPoCPop, FieldPovertyPop}, table.FillZero)
	diags.record("counties<-tract sums", stats)

	return t.Map(func(r *table.Row) {
		r.Nums[FieldHCVRate] = Rate(r.Num(FieldHCVSubUnits), r.Num(FieldHouseholds), th.MinSample)
		r.Nums[FieldPctPoC] = Rate(r.Num(FieldPoCPop), r.Num(FieldTotalPop), th.MinSample)
		r.Nums[FieldPctPoverty] = Rate(r.Num(FieldPovertyPop), r.Num(FieldTotalPop), th.MinSample)
	})
}

// buildZctas joins the small-area FMR schedule and median rents onto ZCTA
// geometry and computes the rent-gap fields. The metro-wide FMR is
// configuration — it changes every year. A median rent whose margin of
// error is flagged is treated as missing.
func buildZctas(geom, safmr, rents *table.Table, th config.Thresholds, diags *Diagnostics) *table.Table {
	safmrFields := make([]string, 0, len(Bedrooms))
	for _, br := range Bedrooms {
		safmrFields = append(safmrFields, SAFMRField(br))
	}

	t, stats := table.LeftJoin(geom, safmr, safmrFields, table.FillNull)
	diags.record("zctas<-safmr", stats)

	t, stats = table.LeftJoin(t, rents, []string{FieldMedianRent, FieldRentMOEFlag}, table.FillNull)
	diags.record("zctas<-rents", stats)

	metro := table.Num(th.MetroFMR)
	return t.Map(func(r *table.Row) {
		for _, br := range Bedrooms {
			r.Nums[GapField(br)] = Sub(r.Num(SAFMRField(br)), metro)
		}
		rent := r.Num(FieldMedianRent)
		if flag := r.Num(FieldRentMOEFlag); flag.Valid && flag.Float64 >= 1 {
			rent = table.Null()
		}
		r.Nums[FieldSAFMRVsRent] = Sub(r.Num(SAFMRField(2)), rent)
	})
}

// buildNeighborhoods reapportions tract counts onto neighborhoods by area
// fraction, anchors them on neighborhood geometry, and computes the
// neighborhood voucher rate from the weighted counts.
func buildNeighborhoods(tracts, geom *table.Table, intersections []loader.Intersection, th config.Thresholds, diags *Diagnostics) *table.Table {
	weighted, skipped := ReapportionByArea(tracts, intersections, []string{FieldHCVSubUnits, FieldHouseholds})
	diags.SkippedIntersections = skipped

	t, stats := table.LeftJoin(geom, weighted, []string{FieldHCVSubUnits, FieldHouseholds}, table.FillZero)
	diags.record("neighborhoods<-weighted sums", stats)

	return t.Map(func(r *table.Row) {
		r.Nums[FieldHCVRate] = Rate(r.Num(FieldHCVSubUnits), r.Num(FieldHouseholds), th.MinSample)
	})
}

func tractNeighborhoods(intersections []loader.Intersection) map[string][]string {
	out := map[string][]string{}
	for _, ix := range intersections {
		out[ix.Tract] = append(out[ix.Tract], ix.Neighborhood)
	}
	for _, hoods := range out {
		sort.Strings(hoods)
	}
	return out
}

func logDiagnostics(res *Result) {
	names := make([]string, 0, len(res.Diagnostics.Joins))
	for name := range res.Diagnostics.Joins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := res.Diagnostics.Joins[name]
		log.Printf("build %s: join %s: %d matched, %d filled, %d unmatched rows ignored",
			res.RunID, name, s.Matched, s.Filled, s.Ignored)
	}
	if res.Diagnostics.SkippedIntersections > 0 {
		log.Printf("build %s: %d tract/neighborhood intersections referenced unknown tracts",
			res.RunID, res.Diagnostics.SkippedIntersections)
	}
}
