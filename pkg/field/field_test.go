package field_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autofill/pkg/field"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"First Name", "firstname"},
		{"first_name", "firstname"},
		{"firstName", "firstname"},
		{"E-Mail Address:", "emailaddress"},
		{"user[email]", "useremail"},
		{"  Phone #2 ", "phone2"},
		{"", ""},
		{"___", ""},
	}
	for _, tc := range cases {
		if got := field.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWords(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"organizationName", []string{"organization", "name"}},
		{"first_name", []string{"first", "name"}},
		{"Date of Birth", []string{"date", "of", "birth"}},
		{"zip", []string{"zip"}},
		{"address2", []string{"address", "2"}},
		{"", nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, field.Words(tc.in)); diff != "" {
			t.Errorf("Words(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestCompound(t *testing.T) {
	if field.Compound("name") {
		t.Error("Compound(\"name\") = true, want false")
	}
	if !field.Compound("organizationName") {
		t.Error("Compound(\"organizationName\") = false, want true")
	}
}

func TestIdentifiersOrderAndSkip(t *testing.T) {
	d := field.Descriptor{
		Name:        "email",
		Label:       "Email Address",
		AriaLabel:   "Your email",
		Placeholder: "",
	}
	want := []string{"email", "Email Address", "Your email"}
	if diff := cmp.Diff(want, d.Identifiers()); diff != "" {
		t.Errorf("Identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectLike(t *testing.T) {
	for _, typ := range []string{"select", "select-one", "listbox"} {
		d := field.Descriptor{Type: typ}
		if !d.SelectLike() {
			t.Errorf("SelectLike() = false for type %q", typ)
		}
	}
	if (field.Descriptor{Type: "text"}).SelectLike() {
		t.Error("SelectLike() = true for type \"text\"")
	}
}

func TestCategoryKnown(t *testing.T) {
	if field.CategoryUnknown.Known() {
		t.Error("unknown category reported as known")
	}
	if field.Category("").Known() {
		t.Error("empty category reported as known")
	}
	if !field.CategoryEmail.Known() {
		t.Error("email category reported as unknown")
	}
}
