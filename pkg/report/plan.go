// Package report turns a detection pass into operator-facing output. A Plan
// is the renderer-independent summary; JSON, text and HTML renderers share a
// registry so callers can pick the representation by name.
package report

import (
	"github.com/goliatone/go-autofill/pkg/detect"
	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/profile"
)

// Row summarises one field of the plan. Refined marks rows that went
// through the refinement pass, whether or not it improved them.
type Row struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	Type       string `json:"type,omitempty"`
	Category   string `json:"category,omitempty"`
	Key        string `json:"matchedKey,omitempty"`
	Confidence int    `json:"confidence"`
	Value      string `json:"value,omitempty"`
	Refined    bool   `json:"refined,omitempty"`
}

// DateGroup names the fields a date cluster resolved, by display label.
type DateGroup struct {
	FullDate string `json:"fullDate,omitempty"`
	Year     string `json:"year,omitempty"`
	Month    string `json:"month,omitempty"`
	Day      string `json:"day,omitempty"`
}

// Summary carries the headline counts for a plan.
type Summary struct {
	Fields  int `json:"fields"`
	Matched int `json:"matched"`
	Dates   int `json:"dateGroups"`
}

// Plan is the renderer input: everything a reviewer needs to judge what the
// pass found and what would be filled.
type Plan struct {
	Title   string      `json:"title,omitempty"`
	Pass    string      `json:"pass,omitempty"`
	Summary Summary     `json:"summary"`
	Rows    []Row       `json:"fields"`
	Dates   []DateGroup `json:"dateGroups,omitempty"`
}

// BuildPlan assembles a Plan from a detection pass and the profile that fed
// it. Row order mirrors the field order of the pass; values are rendered with
// category formatting applied.
func BuildPlan(pass *detect.Pass, data profile.Data) Plan {
	if pass == nil {
		return Plan{}
	}

	refined := make(map[int]bool, len(pass.Submitted))
	for _, i := range pass.Submitted {
		refined[i] = true
	}

	plan := Plan{
		Pass: pass.ID.String(),
		Rows: make([]Row, 0, len(pass.Fields)),
	}
	for i, d := range pass.Fields {
		row := Row{
			Index:      i,
			Label:      displayLabel(d.Field),
			Type:       d.Field.Type,
			Category:   d.Category.String(),
			Key:        d.Result.Key,
			Confidence: d.Result.Confidence,
			Value:      d.FormattedValue(data),
			Refined:    refined[i],
		}
		if row.Key != "" {
			plan.Summary.Matched++
		}
		plan.Rows = append(plan.Rows, row)
	}
	plan.Summary.Fields = len(plan.Rows)

	for _, g := range pass.Groups {
		plan.Dates = append(plan.Dates, DateGroup{
			FullDate: slotLabel(g.FullDate),
			Year:     slotLabel(g.Year),
			Month:    slotLabel(g.Month),
			Day:      slotLabel(g.Day),
		})
	}
	plan.Summary.Dates = len(plan.Dates)

	return plan
}

func displayLabel(d field.Descriptor) string {
	for _, candidate := range []string{d.Label, d.Name, d.ID, d.Placeholder, d.AriaLabel} {
		if candidate != "" {
			return candidate
		}
	}
	return "(unnamed)"
}

func slotLabel(d *field.Descriptor) string {
	if d == nil {
		return ""
	}
	return displayLabel(*d)
}
