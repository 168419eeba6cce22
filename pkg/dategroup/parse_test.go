package dategroup_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autofill/pkg/dategroup"
)

func TestParseISORoundTrip(t *testing.T) {
	for _, iso := range []string{
		"1990-07-04",
		"2024-02-29",
		"1950-01-01",
		"2049-12-31",
	} {
		parsed, ok := dategroup.Parse(iso)
		if !ok {
			t.Errorf("Parse(%q) failed", iso)
			continue
		}
		if got := parsed.ISO(); got != iso {
			t.Errorf("round trip %q -> %q", iso, got)
		}
	}
}

func TestParseUSOrder(t *testing.T) {
	// Ambiguous day/month resolves through the MM/DD/YYYY branch.
	parsed, ok := dategroup.Parse("03/04/2024")
	if !ok {
		t.Fatal("Parse failed")
	}
	want := dategroup.ParsedDate{Year: "2024", Month: "March", MonthNumber: "03", Day: "04"}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Fatalf("parsed mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTwoDigitYearPivot(t *testing.T) {
	cases := []struct {
		in   string
		year string
	}{
		{"03/04/24", "2024"},
		{"03/04/99", "1999"},
		{"12/31/49", "2049"},
		{"01/01/50", "1950"},
	}
	for _, tc := range cases {
		parsed, ok := dategroup.Parse(tc.in)
		if !ok {
			t.Errorf("Parse(%q) failed", tc.in)
			continue
		}
		if parsed.Year != tc.year {
			t.Errorf("Parse(%q).Year = %s, want %s", tc.in, parsed.Year, tc.year)
		}
	}
}

func TestParseAlternateShapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1990/07/04", "1990-07-04"},
		{"3/4/2024", "2024-03-04"},
		{"July 4, 1990", "1990-07-04"},
		{"Jan 2, 2006", "2006-01-02"},
		{"4 July 1990", "1990-07-04"},
		{"2006-1-2", "2006-01-02"},
		{" 1990-07-04 ", "1990-07-04"},
	}
	for _, tc := range cases {
		parsed, ok := dategroup.Parse(tc.in)
		if !ok {
			t.Errorf("Parse(%q) failed", tc.in)
			continue
		}
		if got := parsed.ISO(); got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"not a date",
		"02/30/2024",
		"13/01/2024",
		"2024-02-30",
		"2024-13-01",
		"00/00/0000",
	} {
		if parsed, ok := dategroup.Parse(in); ok {
			t.Errorf("Parse(%q) accepted invalid input: %+v", in, parsed)
		}
	}
}

func TestParsedDateValue(t *testing.T) {
	parsed, _ := dategroup.Parse("1990-07-04")
	if got := parsed.Value(dategroup.RoleYear); got != "1990" {
		t.Errorf("year value = %s", got)
	}
	if got := parsed.Value(dategroup.RoleMonth); got != "07" {
		t.Errorf("month value = %s", got)
	}
	if got := parsed.Value(dategroup.RoleDay); got != "04" {
		t.Errorf("day value = %s", got)
	}
	if got := parsed.Value(dategroup.Role("century")); got != "" {
		t.Errorf("unknown role value = %s", got)
	}
}
