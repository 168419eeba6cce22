// Package dategroup detects clusters of form fields that collectively
// represent one logical date (a combined input, or separate year/month/day
// selectors), parses candidate date strings, and fills the matching options
// of select-like components. Geometry comes in through an injected Locator
// so the algorithm runs without a rendering surface.
package dategroup

import (
	"sort"
	"strings"

	"github.com/goliatone/go-autofill/pkg/field"
)

const (
	// neighborLimit caps how many nearby fields an anchor considers.
	neighborLimit = 5
	// maxVerticalDistance and maxHorizontalDistance bound the proximity
	// test, in layout units relative to the anchor.
	maxVerticalDistance   = 100.0
	maxHorizontalDistance = 500.0
)

var (
	anchorMarkers = []string{"date", "birth", "dob"}
	yearMarkers   = []string{"year", "yr"}
	monthMarkers  = []string{"month", "mon"}
	// "date" is deliberate: the historical day detector matches it, so a
	// second date-labeled neighbor can be claimed as the day slot. Callers
	// relying on that quirk exist; keep it.
	dayMarkers = []string{"day", "date"}
)

// Group references the fields that together represent one date. Pointers
// point into the slice handed to Detect; a field belongs to at most one
// group. FullDate is set when the anchor itself can hold a combined value.
type Group struct {
	Year     *field.Descriptor
	Month    *field.Descriptor
	Day      *field.Descriptor
	FullDate *field.Descriptor
}

// Empty reports whether the group references no fields at all.
func (g Group) Empty() bool {
	return g.Year == nil && g.Month == nil && g.Day == nil && g.FullDate == nil
}

// Components returns the group's split components keyed by role. FullDate is
// not a component; combined values are written by the caller's field writer.
func (g Group) Components() map[Role]*field.Descriptor {
	out := make(map[Role]*field.Descriptor, 3)
	if g.Year != nil {
		out[RoleYear] = g.Year
	}
	if g.Month != nil {
		out[RoleMonth] = g.Month
	}
	if g.Day != nil {
		out[RoleDay] = g.Day
	}
	return out
}

// Locator reports a field's layout rectangle. Returning false excludes the
// field from proximity tests.
type Locator func(field.Descriptor) (field.Rect, bool)

// Grouper scans field lists for date component clusters. Construct with New.
type Grouper struct {
	locate Locator
}

// Option mutates grouper construction.
type Option func(*Grouper)

// WithLocator injects the geometry source. The default reads each
// descriptor's Bounds.
func WithLocator(locate Locator) Option {
	return func(g *Grouper) {
		if locate != nil {
			g.locate = locate
		}
	}
}

// New builds a Grouper.
func New(opts ...Option) *Grouper {
	g := &Grouper{locate: boundsLocator}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

func boundsLocator(d field.Descriptor) (field.Rect, bool) {
	if d.Bounds == nil {
		return field.Rect{}, false
	}
	return *d.Bounds, true
}

// Detect scans fields once, in order, and returns the date component groups
// it finds. A field is an anchor when its native type is "date" or its
// normalized label, name, or id mentions a date marker. Each anchor claims
// up to neighborLimit nearby fields; select-like ones are classified into
// year, month, and day slots by marker substrings, nearest first. Consumed
// fields never join a second group.
func (g *Grouper) Detect(fields []field.Descriptor) []Group {
	consumed := make([]bool, len(fields))
	var groups []Group

	for i := range fields {
		if consumed[i] || !isAnchor(fields[i]) {
			continue
		}
		consumed[i] = true

		group := Group{}
		if holdsCombinedValue(fields[i]) {
			group.FullDate = &fields[i]
		}

		candidates := g.slotCandidates(fields, i, consumed)
		claimed := make(map[int]bool, len(candidates))

		if idx, ok := claimSlot(fields, candidates, claimed, yearMarkers); ok {
			group.Year = &fields[idx]
			consumed[idx] = true
		}
		if idx, ok := claimSlot(fields, candidates, claimed, monthMarkers); ok {
			group.Month = &fields[idx]
			consumed[idx] = true
		}
		if idx, ok := claimSlot(fields, candidates, claimed, dayMarkers); ok {
			group.Day = &fields[idx]
			consumed[idx] = true
		}

		if !group.Empty() {
			groups = append(groups, group)
		}
	}
	return groups
}

// slotCandidates returns the indexes eligible for slot classification: the
// anchor itself when it is select-like, then the nearest unconsumed
// neighbors within the proximity box, ranked by horizontal distance.
func (g *Grouper) slotCandidates(fields []field.Descriptor, anchor int, consumed []bool) []int {
	out := make([]int, 0, neighborLimit+1)
	if fields[anchor].SelectLike() {
		out = append(out, anchor)
	}

	origin, ok := g.locate(fields[anchor])
	if !ok {
		return out
	}

	type neighbor struct {
		index    int
		distance float64
	}
	var near []neighbor
	for i := range fields {
		if i == anchor || consumed[i] {
			continue
		}
		rect, ok := g.locate(fields[i])
		if !ok {
			continue
		}
		dv := abs(rect.Top - origin.Top)
		dh := abs(rect.Left - origin.Left)
		if dv > maxVerticalDistance || dh > maxHorizontalDistance {
			continue
		}
		near = append(near, neighbor{index: i, distance: dh})
	}

	sort.SliceStable(near, func(a, b int) bool {
		return near[a].distance < near[b].distance
	})
	if len(near) > neighborLimit {
		near = near[:neighborLimit]
	}
	for _, n := range near {
		if fields[n.index].SelectLike() {
			out = append(out, n.index)
		}
	}
	return out
}

// claimSlot finds the first unclaimed candidate whose identifying text
// mentions one of the markers.
func claimSlot(fields []field.Descriptor, candidates []int, claimed map[int]bool, markers []string) (int, bool) {
	for _, idx := range candidates {
		if claimed[idx] {
			continue
		}
		if mentionsAny(fields[idx], markers) {
			claimed[idx] = true
			return idx, true
		}
	}
	return 0, false
}

func isAnchor(d field.Descriptor) bool {
	if d.Type == "date" {
		return true
	}
	return mentionsAny(d, anchorMarkers)
}

// holdsCombinedValue reports whether the anchor can carry a full date on its
// own: a native date input, or a generic text input. A single-field date is
// assumed unless the components prove otherwise.
func holdsCombinedValue(d field.Descriptor) bool {
	switch d.Type {
	case "date", "text", "":
		return true
	}
	return false
}

func mentionsAny(d field.Descriptor, markers []string) bool {
	for _, text := range []string{d.Label, d.Name, d.ID} {
		normalized := field.Normalize(text)
		if normalized == "" {
			continue
		}
		for _, marker := range markers {
			if strings.Contains(normalized, marker) {
				return true
			}
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
