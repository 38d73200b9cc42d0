// Package table provides the small set of transform primitives the report
// pipeline is built from: nullable numeric values, keyed rows, left joins
// with explicit fill policies, and grouped aggregation. Every operation
// returns a new Table; nothing mutates its inputs.
package table

import (
	"fmt"

	"github.com/HousingDataLab/HCV-Atlas/internal/census"
)

// Value is a nullable float64. Null is how the pipeline represents "no
// data" and "suppressed" — it must never collapse to zero implicitly.
type Value struct {
	Float64 float64
	Valid   bool
}

func Num(f float64) Value { return Value{Float64: f, Valid: true} }
func Null() Value         { return Value{} }

// Row is one geographic unit: a key (FIPS code, ZCTA, or neighborhood
// name), an optional display name, numeric fields, categorical labels, and
// an optional boundary polygon.
type Row struct {
	Key    string
	Name   string
	Nums   map[string]Value
	Labels map[string]string
	Geom   *census.Geometry
}

// NewRow returns a Row with allocated field maps.
func NewRow(key string) *Row {
	return &Row{
		Key:    key,
		Nums:   map[string]Value{},
		Labels: map[string]string{},
	}
}

// Num returns the named numeric field, Null if absent.
func (r *Row) Num(field string) Value {
	return r.Nums[field]
}

// clone copies the row with fresh field maps so joins never alias state
// between tables. Geometry is shared; it is immutable after load.
func (r *Row) clone() *Row {
	c := &Row{
		Key:    r.Key,
		Name:   r.Name,
		Nums:   make(map[string]Value, len(r.Nums)),
		Labels: make(map[string]string, len(r.Labels)),
		Geom:   r.Geom,
	}
	for k, v := range r.Nums {
		c.Nums[k] = v
	}
	for k, v := range r.Labels {
		c.Labels[k] = v
	}
	return c
}

// Table is an ordered sequence of rows with unique keys.
type Table struct {
	rows  []*Row
	index map[string]*Row
}

func New() *Table {
	return &Table{index: map[string]*Row{}}
}

// Append adds a row, rejecting duplicate keys.
func (t *Table) Append(r *Row) error {
	if _, dup := t.index[r.Key]; dup {
		return fmt.Errorf("duplicate key %q", r.Key)
	}
	t.rows = append(t.rows, r)
	t.index[r.Key] = r
	return nil
}

// Get returns the row for key, if present.
func (t *Table) Get(key string) (*Row, bool) {
	r, ok := t.index[key]
	return r, ok
}

// Rows returns the rows in insertion order. Callers must not mutate them.
func (t *Table) Rows() []*Row { return t.rows }

func (t *Table) Len() int { return len(t.rows) }

// Keys returns every key in insertion order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.rows))
	for _, r := range t.rows {
		keys = append(keys, r.Key)
	}
	return keys
}

// Filter returns a new table holding the rows for which pred is true,
// preserving order.
func (t *Table) Filter(pred func(*Row) bool) *Table {
	out := New()
	for _, r := range t.rows {
		if pred(r) {
			out.Append(r.clone())
		}
	}
	return out
}

// Map returns a new table with fn applied to a copy of every row. fn may
// mutate its argument freely; the receiver is untouched.
func (t *Table) Map(fn func(*Row)) *Table {
	out := New()
	for _, r := range t.rows {
		c := r.clone()
		fn(c)
		out.Append(c)
	}
	return out
}

// Values collects the defined values of one numeric field, in row order.
func (t *Table) Values(field string) []float64 {
	var out []float64
	for _, r := range t.rows {
		if v := r.Nums[field]; v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}
