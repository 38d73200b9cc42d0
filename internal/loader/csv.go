// Package loader turns the source files — delimited text, shapefiles, and
// the tract/neighborhood bridge table — into normalized in-memory tables
// keyed by the right geographic identifier. Loading is purely functional:
// a path in, a table out, and a *MalformedInputError when the file cannot
// be trusted.
package loader

import (
	"bufio"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/HousingDataLab/HCV-Atlas/internal/census"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// ColumnSpec maps one source column onto a named numeric field. Values are
// coerced to float64 after stripping currency formatting; declaring the
// mapping by name (never by position) is what keeps a reordered export from
// silently corrupting a build.
type ColumnSpec struct {
	// Source is the header name in the file.
	Source string
	// Field is the output field name on the row.
	Field string
}

// CSVSpec declares how to read one delimited source file.
type CSVSpec struct {
	Path string
	// KeyColumn is the header name of the join key.
	KeyColumn string
	// KeyWidth, when non-zero, re-pads all-digit keys to this width.
	// Census identifiers lose leading zeros in spreadsheet round trips.
	KeyWidth int
	// Columns are the numeric columns to keep, by name.
	Columns []ColumnSpec
	// DropKeys are sentinel identifiers (statewide-total placeholder rows)
	// filtered out before joining.
	DropKeys []string
	// Comma overrides the delimiter; zero means ','.
	Comma rune
}

// naTokens are the values treated as "no data" rather than parse failures.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "na": {}, "n/a": {}, "null": {}, "NULL": {}, "-": {},
}

// ReadCSV loads one delimited file into a table keyed by spec.KeyColumn.
// Missing declared columns, unparseable numbers, malformed keys, and
// duplicate keys are all fatal.
func ReadCSV(spec CSVSpec) (*table.Table, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if spec.Comma != 0 {
		r.Comma = spec.Comma
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, &MalformedInputError{File: spec.Path, Reason: err.Error()}
	}
	if len(records) < 2 {
		return nil, &MalformedInputError{File: spec.Path, Reason: "no data rows"}
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	if _, ok := col[spec.KeyColumn]; !ok {
		return nil, &MalformedInputError{File: spec.Path, Column: spec.KeyColumn, Reason: "missing required key column"}
	}
	for _, c := range spec.Columns {
		if _, ok := col[c.Source]; !ok {
			return nil, &MalformedInputError{File: spec.Path, Column: c.Source, Reason: "missing required column"}
		}
	}

	drop := map[string]struct{}{}
	for _, k := range spec.DropKeys {
		drop[k] = struct{}{}
	}

	out := table.New()
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		key := get(spec.KeyColumn)
		if _, skip := drop[key]; skip {
			continue
		}
		if key == "" {
			return nil, &MalformedInputError{File: spec.Path, Column: spec.KeyColumn, Row: rowIdx + 1, Reason: "empty key"}
		}
		padded := census.PadKey(key, spec.KeyWidth)
		if spec.KeyWidth > 0 && len(padded) != spec.KeyWidth {
			return nil, &MalformedInputError{
				File: spec.Path, Column: spec.KeyColumn, Row: rowIdx + 1,
				Reason: "key " + strconv.Quote(key) + " is not a " + strconv.Itoa(spec.KeyWidth) + "-digit identifier",
			}
		}

		row := table.NewRow(padded)
		for _, c := range spec.Columns {
			v, err := parseNumeric(get(c.Source))
			if err != nil {
				return nil, &MalformedInputError{
					File: spec.Path, Column: c.Source, Row: rowIdx + 1,
					Reason: err.Error(),
				}
			}
			row.Nums[c.Field] = v
		}
		if err := out.Append(row); err != nil {
			return nil, &MalformedInputError{File: spec.Path, Column: spec.KeyColumn, Row: rowIdx + 1, Reason: err.Error()}
		}
	}
	return out, nil
}

// parseNumeric coerces a cell to a nullable float64, stripping currency
// formatting ('$', thousands separators) first. NA-style tokens become
// null; anything else that fails to parse is an error.
func parseNumeric(s string) (table.Value, error) {
	if _, na := naTokens[s]; na {
		return table.Null(), nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return table.Null(), &parseError{raw: s}
	}
	return table.Num(f), nil
}

type parseError struct{ raw string }

func (e *parseError) Error() string {
	return "cannot parse numeric value " + strconv.Quote(e.raw)
}
