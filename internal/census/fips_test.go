package census

import "testing"

func TestCountyFromTract(t *testing.T) {
	county, err := CountyFromTract("42001030100")
	if err != nil {
		t.Fatalf("CountyFromTract failed: %v", err)
	}
	if county != "42001" {
		t.Errorf("county = %q, want %q", county, "42001")
	}
}

func TestCountyFromTract_Invalid(t *testing.T) {
	for _, bad := range []string{"", "42001", "4200103010", "420010301000", "4200103010A"} {
		if _, err := CountyFromTract(bad); err == nil {
			t.Errorf("CountyFromTract(%q) succeeded, want error", bad)
		}
	}
}

func TestPadKey(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		// Stripped leading zeros: a Connecticut tract loses one digit, a
		// Puerto Rico ZCTA loses two.
		{"9001030100", 11, "09001030100"},
		{"601", 5, "00601"},
		{"42001030100", 11, "42001030100"},
		// Non-numeric and unpadded keys pass through untouched.
		{"Sum of All Tracts", 11, "Sum of All Tracts"},
		{"42001030100", 0, "42001030100"},
		// Missing more than two digits is truncation, not zero loss.
		// Padding it would hide an invalid identifier behind zeros.
		{"0900103", 11, "0900103"},
		{"90010", 11, "90010"},
	}
	for _, c := range cases {
		if got := PadKey(c.in, c.width); got != c.want {
			t.Errorf("PadKey(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestValidFIPS(t *testing.T) {
	if !ValidTractFIPS("09001030100") {
		t.Error("ValidTractFIPS rejected a valid tract")
	}
	if ValidTractFIPS("0900103010") {
		t.Error("ValidTractFIPS accepted a 10-digit code")
	}
	if !ValidCountyFIPS("09001") {
		t.Error("ValidCountyFIPS rejected a valid county")
	}
	if ValidCountyFIPS("9001") {
		t.Error("ValidCountyFIPS accepted a 4-digit code")
	}
}
