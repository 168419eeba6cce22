package match

import (
	"math"
	"strings"

	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/profile"
	"github.com/goliatone/go-autofill/pkg/rules"
)

const (
	exactConfidence     = 100
	canonicalConfidence = 85
	containmentFloor    = 0.5
	similarityFloor     = 0.7
	fuzzyScoreFloor     = 0.6
	fuzzyConfidenceCap  = 80
)

// Matcher scores fields against profile keys. Construct with New; the zero
// value carries no heuristic tables, so the canonical-spelling fallback and
// the exclusion rules are inert.
type Matcher struct {
	rules *rules.Store
}

// Option mutates matcher construction.
type Option func(*Matcher)

// WithRules overrides the bundled heuristic tables.
func WithRules(store *rules.Store) Option {
	return func(m *Matcher) {
		if store != nil {
			m.rules = store
		}
	}
}

// New builds a Matcher backed by the bundled heuristic tables unless
// overridden through options.
func New(opts ...Option) *Matcher {
	m := &Matcher{rules: rules.Default()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Match pairs every classified field with its best profile key. Output order
// mirrors input order, one Detected per field. Malformed or empty descriptors
// never fail; they come back with confidence 0.
func (m *Matcher) Match(fields []Classified, data profile.Data) []Detected {
	out := make([]Detected, len(fields))
	for i, in := range fields {
		category, result := m.MatchField(in.Field, in.Category, data)
		out[i] = Detected{Field: in.Field, Category: category, Result: result}
	}
	return out
}

// MatchField scores a single field. Password inputs short-circuit to the
// password category with no key before any strategy runs; otherwise the
// returned category is the supplied one. Strategies run in order and the
// first one that produces a result wins.
func (m *Matcher) MatchField(f field.Descriptor, category field.Category, data profile.Data) (field.Category, Result) {
	if f.IsPassword() {
		return field.CategoryPassword, Result{}
	}
	if result, ok := m.exactMatch(f, data); ok {
		return category, result
	}
	if result, ok := m.categoryMatch(category, data); ok {
		return category, result
	}
	if result, ok := m.fuzzyMatch(f, data); ok {
		return category, result
	}
	return category, Result{}
}

// exactMatch compares every normalized field identifier against every
// normalized profile key. Identifier priority order (name, id, label,
// placeholder, aria-label) decides between multiple hits; the first equality
// wins at full confidence.
func (m *Matcher) exactMatch(f field.Descriptor, data profile.Data) (Result, bool) {
	keys := data.SortedKeys()
	for _, identifier := range f.Identifiers() {
		normalized := field.Normalize(identifier)
		if normalized == "" {
			continue
		}
		for _, key := range keys {
			if field.Normalize(key) == normalized {
				return Result{Key: key, Confidence: exactConfidence}, true
			}
		}
	}
	return Result{}, false
}

// categoryMatch looks for profile keys related to the field's category:
// first containment against the category's canonical string, scored by
// specificity, then the canonical spelling table at a fixed confidence.
func (m *Matcher) categoryMatch(category field.Category, data profile.Data) (Result, bool) {
	if !category.Known() {
		return Result{}, false
	}
	canonical := field.Normalize(string(category))
	if canonical == "" {
		return Result{}, false
	}

	keys := data.SortedKeys()
	var best Result
	for _, key := range keys {
		normalized := field.Normalize(key)
		if normalized == "" {
			continue
		}
		if !strings.Contains(normalized, canonical) && !strings.Contains(canonical, normalized) {
			continue
		}
		confidence := int(math.Round(90 - 10*(1-specificity(key, string(category)))))
		if confidence > best.Confidence {
			best = Result{Key: key, Confidence: confidence}
		}
	}
	if best.Matched() {
		return best, true
	}

	for _, spelling := range m.rules.CanonicalKeys(category) {
		target := field.Normalize(spelling)
		for _, key := range keys {
			if field.Normalize(key) == target {
				return Result{Key: key, Confidence: canonicalConfidence}, true
			}
		}
	}
	return Result{}, false
}
