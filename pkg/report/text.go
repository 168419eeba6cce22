package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TextRenderer emits a plain-text table for terminal review.
type TextRenderer struct{}

// NewText constructs the text renderer.
func NewText() *TextRenderer {
	return &TextRenderer{}
}

// Name identifies the renderer inside the registry.
func (r *TextRenderer) Name() string {
	return "text"
}

// ContentType returns the MIME type for generated documents.
func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes one line per field plus a date-group section. Rows at or
// above the threshold carry a [fill] marker.
func (r *TextRenderer) Render(ctx context.Context, plan Plan, opts Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("report: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	title := plan.Title
	if title == "" {
		title = "Autofill plan"
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "fields: %d  matched: %d  date groups: %d\n",
		plan.Summary.Fields, plan.Summary.Matched, plan.Summary.Dates)

	if len(plan.Rows) > 0 {
		b.WriteByte('\n')
	}
	for _, row := range plan.Rows {
		line := fmt.Sprintf("%3d  %-24s  %-12s  %-20s  %4d  %s",
			row.Index, clip(row.Label, 24), row.Category, row.Key, row.Confidence, row.Value)
		if row.Refined {
			line += "  (refined)"
		}
		if opts.ready(row.Confidence) {
			line += "  [fill]"
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}

	if len(plan.Dates) > 0 {
		b.WriteString("\ndate groups:\n")
		for i, g := range plan.Dates {
			fmt.Fprintf(&b, "%3d  %s\n", i, describeDateGroup(g))
		}
	}

	return []byte(b.String()), nil
}

func describeDateGroup(g DateGroup) string {
	var parts []string
	if g.FullDate != "" {
		parts = append(parts, "full: "+g.FullDate)
	}
	if g.Year != "" {
		parts = append(parts, "year: "+g.Year)
	}
	if g.Month != "" {
		parts = append(parts, "month: "+g.Month)
	}
	if g.Day != "" {
		parts = append(parts, "day: "+g.Day)
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, "  ")
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
