package loader

import "fmt"

// MalformedInputError is the fatal load failure: a declared column is
// missing, a value fails numeric coercion after formatting strip, or a key
// is in an unexpected format. It carries enough context (file, column, row)
// for an analyst to fix the source data without reading this code. Row is
// 1-based counting the header, matching what a spreadsheet shows; 0 means
// the error is not tied to one row.
type MalformedInputError struct {
	File   string
	Column string
	Row    int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: column %q, row %d: %s", e.File, e.Column, e.Row, e.Reason)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s: column %q: %s", e.File, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}
