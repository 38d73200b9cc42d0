package table_test

import (
	"testing"

	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// newTable builds a table from key/field/value triples, failing the test on
// duplicate keys.
func newTable(t *testing.T, rows ...*table.Row) *table.Table {
	t.Helper()
	out := table.New()
	for _, r := range rows {
		if err := out.Append(r); err != nil {
			t.Fatalf("Append(%q) failed: %v", r.Key, err)
		}
	}
	return out
}

func rowWith(key string, field string, v table.Value) *table.Row {
	r := table.NewRow(key)
	r.Nums[field] = v
	return r
}

func TestAppend_DuplicateKey(t *testing.T) {
	tbl := table.New()
	if err := tbl.Append(table.NewRow("42001030100")); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}
	if err := tbl.Append(table.NewRow("42001030100")); err == nil {
		t.Error("expected error appending duplicate key, got nil")
	}
}

// TestLeftJoin_FillPolicyDistinction covers the scenario from the report's
// data policy: a tract present in geometry but absent from the voucher
// source gets a zero count, while a rate input absent from the demographic
// source stays undefined.
func TestLeftJoin_FillPolicyDistinction(t *testing.T) {
	geom := newTable(t, table.NewRow("42001030100"))
	vouchers := newTable(t) // tract missing entirely
	demographics := newTable(t)

	joined, _ := table.LeftJoin(geom, vouchers, []string{"hcv_sub_units"}, table.FillZero)
	joined, _ = table.LeftJoin(joined, demographics, []string{"tract_pct_pov"}, table.FillNull)

	r, ok := joined.Get("42001030100")
	if !ok {
		t.Fatal("base row missing after join")
	}
	units := r.Num("hcv_sub_units")
	if !units.Valid || units.Float64 != 0 {
		t.Errorf("hcv_sub_units = %+v, want defined 0", units)
	}
	if r.Num("tract_pct_pov").Valid {
		t.Errorf("tract_pct_pov = %+v, want undefined", r.Num("tract_pct_pov"))
	}
}

func TestLeftJoin_Stats(t *testing.T) {
	base := newTable(t, table.NewRow("a"), table.NewRow("b"))
	add := newTable(t,
		rowWith("a", "x", table.Num(1)),
		rowWith("z", "x", table.Num(9)), // no base match: ignored
	)

	joined, stats := table.LeftJoin(base, add, []string{"x"}, table.FillNull)

	if stats.Matched != 1 || stats.Filled != 1 || stats.Ignored != 1 {
		t.Errorf("stats = %+v, want 1 matched, 1 filled, 1 ignored", stats)
	}
	if _, ok := joined.Get("z"); ok {
		t.Error("unmatched addition row leaked into the joined table")
	}
}

func TestLeftJoin_DoesNotMutateBase(t *testing.T) {
	base := newTable(t, table.NewRow("a"))
	add := newTable(t, rowWith("a", "x", table.Num(5)))

	table.LeftJoin(base, add, []string{"x"}, table.FillZero)

	r, _ := base.Get("a")
	if _, present := r.Nums["x"]; present {
		t.Error("LeftJoin mutated the base table")
	}
}

func TestGroupBy_SumsAndMeans(t *testing.T) {
	rows := []*table.Row{
		table.NewRow("t1"), table.NewRow("t2"), table.NewRow("t3"),
	}
	rows[0].Labels["county"] = "42001"
	rows[0].Nums["units"] = table.Num(10)
	rows[0].Nums["rate"] = table.Num(4)
	rows[1].Labels["county"] = "42001"
	rows[1].Nums["units"] = table.Num(5)
	rows[1].Nums["rate"] = table.Null() // skipped by the mean
	rows[2].Labels["county"] = "42003"
	rows[2].Nums["units"] = table.Null() // summed as zero
	rows[2].Nums["rate"] = table.Null()

	grouped := table.GroupBy(newTable(t, rows...),
		func(r *table.Row) string { return r.Labels["county"] },
		[]string{"units"}, []string{"rate"})

	g1, ok := grouped.Get("42001")
	if !ok {
		t.Fatal("missing group 42001")
	}
	if got := g1.Num("units"); !got.Valid || got.Float64 != 15 {
		t.Errorf("42001 units = %+v, want 15", got)
	}
	// Mean over only defined values: 4/1, not 4/2.
	if got := g1.Num("rate"); !got.Valid || got.Float64 != 4 {
		t.Errorf("42001 rate = %+v, want 4", got)
	}

	g2, ok := grouped.Get("42003")
	if !ok {
		t.Fatal("missing group 42003")
	}
	if got := g2.Num("units"); !got.Valid || got.Float64 != 0 {
		t.Errorf("42003 units = %+v, want 0", got)
	}
	if g2.Num("rate").Valid {
		t.Errorf("42003 rate = %+v, want undefined (no defined inputs)", g2.Num("rate"))
	}
}

func TestMap_PreservesReceiver(t *testing.T) {
	base := newTable(t, rowWith("a", "x", table.Num(1)))

	mapped := base.Map(func(r *table.Row) {
		r.Nums["x"] = table.Num(99)
	})

	orig, _ := base.Get("a")
	if orig.Num("x").Float64 != 1 {
		t.Error("Map mutated the receiver")
	}
	got, _ := mapped.Get("a")
	if got.Num("x").Float64 != 99 {
		t.Error("Map did not apply the transform")
	}
}

func TestValues_SkipsNulls(t *testing.T) {
	tbl := newTable(t,
		rowWith("a", "x", table.Num(3)),
		rowWith("b", "x", table.Null()),
		rowWith("c", "x", table.Num(1)),
	)
	got := tbl.Values("x")
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("Values = %v, want [3 1]", got)
	}
}
