package loader

import (
	"errors"
	"testing"
)

const intersectionHeader = "tract,neighborhood,intersection_area,tract_area,fraction\n"

func TestReadIntersections(t *testing.T) {
	path := writeFile(t, intersectionHeader+
		"09001030100,Downtown,60,100,0.6\n"+
		"09001030100,Westville,40,100,0.4\n")

	got, err := ReadIntersections(path)
	if err != nil {
		t.Fatalf("ReadIntersections failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Neighborhood != "Downtown" || got[0].Fraction != 0.6 {
		t.Errorf("first row = %+v", got[0])
	}
}

func TestReadIntersections_FractionMismatch(t *testing.T) {
	path := writeFile(t, intersectionHeader+"09001030100,Downtown,60,100,0.5\n")

	_, err := ReadIntersections(path)
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedInputError", err)
	}
	if malformed.Column != "fraction" {
		t.Errorf("error column = %q, want fraction", malformed.Column)
	}
}

func TestReadIntersections_DoubleCountedArea(t *testing.T) {
	path := writeFile(t, intersectionHeader+
		"09001030100,Downtown,70,100,0.7\n"+
		"09001030100,Westville,40,100,0.4\n")

	if _, err := ReadIntersections(path); err == nil {
		t.Error("fractions summing past 1 accepted, want error")
	}
}

func TestReadIntersections_ZeroTractArea(t *testing.T) {
	path := writeFile(t, intersectionHeader+"09001030100,Downtown,0,0,0\n")

	if _, err := ReadIntersections(path); err == nil {
		t.Error("zero tract_area accepted, want error")
	}
}

func TestReadIntersections_InvalidTract(t *testing.T) {
	path := writeFile(t, intersectionHeader+"0900103,Downtown,60,100,0.6\n")

	if _, err := ReadIntersections(path); err == nil {
		t.Error("7-digit tract accepted, want error")
	}
}
