package dategroup_test

import (
	"testing"

	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/field"
)

func rect(top, left float64) *field.Rect {
	return &field.Rect{Top: top, Left: left, Width: 80, Height: 24}
}

func TestDetectSelectTrio(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "dob_year", Label: "Date of Birth", Type: "select", Bounds: rect(10, 0)},
		{Name: "dob_month", Type: "select", Bounds: rect(10, 120)},
		{Name: "dob_day", Type: "select", Bounds: rect(10, 240)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1: %+v", len(groups), groups)
	}
	g := groups[0]
	if g.FullDate != nil {
		t.Errorf("select anchor should not hold a combined value")
	}
	if g.Year != &fields[0] || g.Month != &fields[1] || g.Day != &fields[2] {
		t.Errorf("slots misassigned: year=%v month=%v day=%v", g.Year, g.Month, g.Day)
	}
}

func TestDetectSingleCombinedField(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "birthDate", Type: "text", Bounds: rect(10, 0)},
		{Name: "email", Type: "text", Bounds: rect(10, 200)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.FullDate != &fields[0] {
		t.Errorf("FullDate = %v, want the birthDate field", g.FullDate)
	}
	if g.Year != nil || g.Month != nil || g.Day != nil {
		t.Errorf("unexpected components: %+v", g)
	}
}

func TestDetectNativeDateInput(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "appointment", Type: "date", Bounds: rect(10, 0)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 || groups[0].FullDate != &fields[0] {
		t.Fatalf("native date input not anchored: %+v", groups)
	}
}

func TestDetectProximityBounds(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "birthDate", Type: "text", Bounds: rect(10, 0)},
		{Name: "year_far_right", Type: "select", Bounds: rect(10, 600)},
		{Name: "year_next_row", Type: "select", Bounds: rect(160, 100)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Year != nil {
		t.Errorf("out-of-range select was claimed: %+v", groups[0])
	}
}

func TestDetectNeighborCap(t *testing.T) {
	// Five closer fields of any type exhaust the neighbor cap before the
	// year select at the far end is ever considered.
	fields := []field.Descriptor{
		{Name: "birthDate", Type: "text", Bounds: rect(10, 0)},
		{Name: "fa", Type: "text", Bounds: rect(10, 50)},
		{Name: "fb", Type: "text", Bounds: rect(10, 100)},
		{Name: "fc", Type: "text", Bounds: rect(10, 150)},
		{Name: "fd", Type: "text", Bounds: rect(10, 200)},
		{Name: "fe", Type: "text", Bounds: rect(10, 250)},
		{Name: "year", Type: "select", Bounds: rect(10, 300)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Year != nil {
		t.Errorf("year select beyond the neighbor cap was claimed")
	}
}

func TestDetectDayClaimsDateLabeledNeighbor(t *testing.T) {
	// The day detector also matches the substring "date", so a second
	// date-labeled select is claimed as the day slot.
	fields := []field.Descriptor{
		{Name: "birthDate", Type: "text", Bounds: rect(10, 0)},
		{Label: "Date", Type: "select", Bounds: rect(10, 100)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Day != &fields[1] {
		t.Errorf("date-labeled select not claimed as day: %+v", groups[0])
	}
}

func TestDetectFieldJoinsOnlyOneGroup(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "birth_date", Type: "text", Bounds: rect(10, 0)},
		{Name: "year", Type: "select", Bounds: rect(10, 100)},
		{Name: "start_date", Type: "text", Bounds: rect(10, 200)},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Year != &fields[1] {
		t.Errorf("first group should own the year select")
	}
	if groups[1].Year != nil {
		t.Errorf("consumed year select joined a second group")
	}
	if groups[1].FullDate != &fields[2] {
		t.Errorf("second group missing its combined field")
	}
}

func TestDetectWithInjectedLocator(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "dob", Type: "text"},
		{Name: "dob_year", Type: "select"},
	}
	layout := map[string]field.Rect{
		"dob":      {Top: 10, Left: 0},
		"dob_year": {Top: 10, Left: 90},
	}
	grouper := dategroup.New(dategroup.WithLocator(func(d field.Descriptor) (field.Rect, bool) {
		r, ok := layout[d.Name]
		return r, ok
	}))

	groups := grouper.Detect(fields)
	if len(groups) != 1 || groups[0].Year != &fields[1] {
		t.Fatalf("injected locator not used: %+v", groups)
	}
}

func TestDetectNoBoundsNoNeighbors(t *testing.T) {
	fields := []field.Descriptor{
		{Name: "birthDate", Type: "text"},
		{Name: "year", Type: "select"},
	}

	groups := dategroup.New().Detect(fields)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Year != nil {
		t.Errorf("field without geometry was claimed as neighbor")
	}
	if groups[0].FullDate != &fields[0] {
		t.Errorf("anchor without geometry should still form a combined group")
	}
}

func TestGroupComponents(t *testing.T) {
	year := field.Descriptor{Name: "year"}
	g := dategroup.Group{Year: &year}
	components := g.Components()
	if len(components) != 1 || components[dategroup.RoleYear] != &year {
		t.Fatalf("components = %+v", components)
	}
	if g.Empty() {
		t.Error("group with a year reports empty")
	}
	if !(dategroup.Group{}).Empty() {
		t.Error("zero group does not report empty")
	}
}
