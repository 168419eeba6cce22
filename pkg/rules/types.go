// Package rules carries the matcher's heuristic tables: the canonical key
// spellings for each field category and the false-friend exclusion rules the
// fuzzy strategy consults. Tables load from JSON/YAML documents so new
// categories and exclusions ship as data, not code changes.
package rules

import (
	"strings"

	"github.com/goliatone/go-autofill/pkg/field"
)

// Store holds the loaded heuristic tables. The zero value is unusable; build
// one through LoadFS or Default.
type Store struct {
	categories map[field.Category]CategoryRule
	exclusions []Exclusion
}

// CategoryRule maps a field category to its ordered list of canonical profile
// key spellings. The first spelling a profile actually contains wins when the
// matcher falls back to this table.
type CategoryRule struct {
	Category      field.Category `json:"-" yaml:"-"`
	CanonicalKeys []string       `json:"canonicalKeys" yaml:"canonicalKeys"`
	Source        string         `json:"-" yaml:"-"`
}

// Exclusion is a false-friend rule applied before fuzzy scoring. Field and
// Blocked entries are stored normalized; Matches expects normalized inputs.
// When Exact is set the source side must equal Field instead of containing
// it. Symmetric rules are also applied with the field and key roles swapped.
type Exclusion struct {
	Field     string   `json:"field" yaml:"field"`
	Exact     bool     `json:"exact,omitempty" yaml:"exact,omitempty"`
	Symmetric bool     `json:"symmetric,omitempty" yaml:"symmetric,omitempty"`
	Blocked   []string `json:"blocked" yaml:"blocked"`
	Source    string   `json:"-" yaml:"-"`
}

// Matches reports whether the normalized (source, target) pair trips this
// rule in the stated direction.
func (e Exclusion) Matches(source, target string) bool {
	if e.Exact {
		if source != e.Field {
			return false
		}
	} else if !strings.Contains(source, e.Field) {
		return false
	}
	for _, blocked := range e.Blocked {
		if strings.Contains(target, blocked) {
			return true
		}
	}
	return false
}

// Category returns the rule registered for cat.
func (s *Store) Category(cat field.Category) (CategoryRule, bool) {
	if s == nil {
		return CategoryRule{}, false
	}
	rule, ok := s.categories[cat]
	return rule, ok
}

// CanonicalKeys returns the canonical key spellings for cat, or nil when the
// category has no entry.
func (s *Store) CanonicalKeys(cat field.Category) []string {
	rule, ok := s.Category(cat)
	if !ok {
		return nil
	}
	return rule.CanonicalKeys
}

// Excluded reports whether a normalized field identifier must not be paired
// with a normalized profile key according to the loaded exclusion rules.
func (s *Store) Excluded(fieldText, key string) bool {
	if s == nil {
		return false
	}
	for _, rule := range s.exclusions {
		if rule.Matches(fieldText, key) {
			return true
		}
		if rule.Symmetric && rule.Matches(key, fieldText) {
			return true
		}
	}
	return false
}

// Exclusions returns the loaded exclusion rules in file order.
func (s *Store) Exclusions() []Exclusion {
	if s == nil {
		return nil
	}
	return append([]Exclusion(nil), s.exclusions...)
}

// Empty reports whether the store holds any rules at all.
func (s *Store) Empty() bool {
	return s == nil || (len(s.categories) == 0 && len(s.exclusions) == 0)
}
