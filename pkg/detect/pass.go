package detect

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/match"
)

// Pass holds the outcome of one detection run over a form's field set.
// Fields preserves the input order, Groups the date clusters found in the
// same sweep. Submitted records which field indexes were revealed to the
// refinement service, so callers can audit exactly what left the machine.
type Pass struct {
	ID        uuid.UUID
	Fields    []match.Detected
	Groups    []dategroup.Group
	Submitted []int
}

// Fillable returns the indexes of fields that matched with at least
// threshold confidence. Whether to fill at all is the caller's decision;
// this helper only applies the cut they chose.
func (p *Pass) Fillable(threshold int) []int {
	if p == nil {
		return nil
	}
	var out []int
	for i, d := range p.Fields {
		if d.Result.Matched() && d.Result.Confidence >= threshold {
			out = append(out, i)
		}
	}
	return out
}
