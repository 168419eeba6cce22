package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONRenderer emits the plan as indented JSON, suitable for piping into
// other tooling.
type JSONRenderer struct{}

// NewJSON constructs the JSON renderer.
func NewJSON() *JSONRenderer {
	return &JSONRenderer{}
}

// Name identifies the renderer inside the registry.
func (r *JSONRenderer) Name() string {
	return "json"
}

// ContentType returns the MIME type for generated documents.
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}

// Render serialises the plan. Options are ignored; the JSON form is the raw
// data.
func (r *JSONRenderer) Render(ctx context.Context, plan Plan, _ Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("report: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal plan: %w", err)
	}
	return out, nil
}
