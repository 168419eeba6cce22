// Package match implements the multi-strategy matcher that pairs form field
// descriptors with profile keys. Strategies run in a fixed order per field:
// exact identifier equality, category-driven lookup, then fuzzy scoring.
// The matcher is a pure function of its inputs; identical fields and profile
// always produce identical results.
package match

import (
	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/profile"
)

// Result is the outcome for a single field. Key is set iff Confidence > 0;
// Confidence is an integer in [0, 100].
type Result struct {
	Key        string `json:"matchedKey,omitempty"`
	Confidence int    `json:"confidence"`
}

// Matched reports whether the result carries a usable key.
func (r Result) Matched() bool {
	return r.Key != "" && r.Confidence > 0
}

// Classified pairs a descriptor with the category its classifier assigned.
// Classification happens outside this package.
type Classified struct {
	Field    field.Descriptor `json:"field"`
	Category field.Category   `json:"category"`
}

// Detected is one matcher output: the field, its effective category, and the
// match result. A refinement pass may overwrite Result, and only with a
// strictly higher confidence.
type Detected struct {
	Field    field.Descriptor `json:"field"`
	Category field.Category   `json:"category"`
	Result   Result           `json:"result"`
}

// FormattedValue renders the profile value this detection would fill,
// applying category formatting. Returns "" when the field is unmatched or
// the profile holds no value for the key.
func (d Detected) FormattedValue(data profile.Data) string {
	return FormatValue(d.Category, d.Result.Key, d.Field, data)
}
