package census

import (
	"fmt"
	"strings"
)

const (
	tractFIPSLen  = 11
	countyFIPSLen = 5
)

// ValidTractFIPS reports whether s is an 11-digit Census tract FIPS code.
func ValidTractFIPS(s string) bool {
	if len(s) != tractFIPSLen {
		return false
	}
	return allDigits(s)
}

// ValidCountyFIPS reports whether s is a 5-digit county FIPS code.
func ValidCountyFIPS(s string) bool {
	if len(s) != countyFIPSLen {
		return false
	}
	return allDigits(s)
}

// CountyFromTract derives the 5-digit county FIPS from an 11-digit tract
// FIPS by truncation. The county is never carried as independent ground
// truth; this derivation is the only source.
func CountyFromTract(tract string) (string, error) {
	if !ValidTractFIPS(tract) {
		return "", fmt.Errorf("invalid tract FIPS %q: want 11 digits", tract)
	}
	return tract[:countyFIPSLen], nil
}

// maxPadDigits caps how many zeros PadKey restores. Real identifiers lose
// at most two: state codes 01-09 cost a tract or county one digit, Puerto
// Rico ZCTAs (006xx, 007xx, 009xx) cost two. A key shorter than that was
// never a stripped identifier.
const maxPadDigits = 2

// PadKey left-pads an all-digit key to width with zeros. Spreadsheet round
// trips strip leading zeros from Census identifiers; this restores them.
// Keys missing more than maxPadDigits digits, too long, or non-numeric are
// returned unchanged for the caller to reject.
func PadKey(key string, width int) string {
	if width <= 0 || len(key) >= width || width-len(key) > maxPadDigits || !allDigits(key) {
		return key
	}
	return strings.Repeat("0", width-len(key)) + key
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
