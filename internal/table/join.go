package table

// FillPolicy decides what a base row gets for a joined field when the
// addition table has no matching key. The distinction matters: voucher and
// unit counts treat "no record" as zero participation, while rate inputs
// must stay null so downstream small-sample suppression works instead of
// manufacturing a spurious 0% rate.
type FillPolicy int

const (
	// FillNull leaves unmatched fields undefined.
	FillNull FillPolicy = iota
	// FillZero defaults unmatched fields to 0.
	FillZero
)

// JoinStats counts what a left join did, for audit logging. The original
// analysis dropped unmatched rows silently; here every build reports them.
type JoinStats struct {
	// Matched base rows that found an addition row.
	Matched int
	// Filled base rows that had no addition row and received defaults.
	Filled int
	// Ignored addition rows whose key appears nowhere in the base table.
	Ignored int
}

// LeftJoin joins the named fields of add onto base by exact key equality,
// anchored on base: every base row survives, unmatched add rows are
// ignored. Any key derivation (county from tract) must happen before the
// join, never inside it. Returns the joined table and the join accounting.
func LeftJoin(base, add *Table, fields []string, policy FillPolicy) (*Table, JoinStats) {
	out := New()
	var stats JoinStats

	for _, r := range base.Rows() {
		joined := r.clone()
		src, ok := add.Get(r.Key)
		if ok {
			stats.Matched++
		} else {
			stats.Filled++
		}
		for _, f := range fields {
			switch {
			case ok:
				joined.Nums[f] = src.Nums[f]
			case policy == FillZero:
				joined.Nums[f] = Num(0)
			default:
				joined.Nums[f] = Null()
			}
		}
		if ok && joined.Name == "" {
			joined.Name = src.Name
		}
		out.Append(joined)
	}

	for _, r := range add.Rows() {
		if _, ok := base.Get(r.Key); !ok {
			stats.Ignored++
		}
	}
	return out, stats
}

// GroupBy buckets rows by key(r) and emits one row per distinct group, in
// first-seen order. Fields in sum are summed with null treated as zero;
// fields in mean are averaged over only the rows where they are defined —
// a group with no defined values gets null, not zero.
func GroupBy(t *Table, key func(*Row) string, sum, mean []string) *Table {
	type acc struct {
		row       *Row
		meanSum   map[string]float64
		meanCount map[string]int
	}
	out := New()
	accs := map[string]*acc{}

	for _, r := range t.Rows() {
		k := key(r)
		a, ok := accs[k]
		if !ok {
			a = &acc{
				row:       NewRow(k),
				meanSum:   map[string]float64{},
				meanCount: map[string]int{},
			}
			for _, f := range sum {
				a.row.Nums[f] = Num(0)
			}
			accs[k] = a
			out.Append(a.row)
		}
		for _, f := range sum {
			if v := r.Nums[f]; v.Valid {
				a.row.Nums[f] = Num(a.row.Nums[f].Float64 + v.Float64)
			}
		}
		for _, f := range mean {
			if v := r.Nums[f]; v.Valid {
				a.meanSum[f] += v.Float64
				a.meanCount[f]++
			}
		}
	}

	for _, a := range accs {
		for _, f := range mean {
			if n := a.meanCount[f]; n > 0 {
				a.row.Nums[f] = Num(a.meanSum[f] / float64(n))
			} else {
				a.row.Nums[f] = Null()
			}
		}
	}
	return out
}
