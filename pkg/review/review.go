// Package review walks an autofill plan interactively: matched fields are
// proposed with their value prefilled, unmatched ones can be assigned a
// profile key by hand. The outcome is the set of values the user accepted.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/profile"
	"github.com/goliatone/go-autofill/pkg/report"
)

// Option customises the reviewer configuration.
type Option func(*Reviewer)

// WithDriver injects a custom prompt driver.
func WithDriver(driver PromptDriver) Option {
	return func(r *Reviewer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithUnmatchedPrompts controls whether unmatched fields offer a manual
// key assignment. Enabled by default.
func WithUnmatchedPrompts(enabled bool) Option {
	return func(r *Reviewer) {
		r.promptUnmatched = enabled
	}
}

// Reviewer drives the per-field confirmation flow over a plan.
type Reviewer struct {
	driver          PromptDriver
	promptUnmatched bool
}

// New constructs a Reviewer with defaults (survey driver, unmatched prompts
// on).
func New(options ...Option) (*Reviewer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Reviewer{
		driver:          driver,
		promptUnmatched: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Run prompts once per reviewable row and returns the accepted values keyed
// by field index. Password fields are never offered. An empty response
// skips the field; interrupting any prompt aborts the whole run with
// ErrAborted.
func (r *Reviewer) Run(ctx context.Context, plan report.Plan, data profile.Data) (map[int]string, error) {
	if ctx == nil {
		return nil, errors.New("review: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("review: prompt driver is nil")
	}

	_ = r.driver.Info(ctx, fmt.Sprintf("%d fields, %d matched, %d date groups",
		plan.Summary.Fields, plan.Summary.Matched, plan.Summary.Dates))

	keys := data.SortedKeys()
	accepted := make(map[int]string)
	for _, row := range plan.Rows {
		if row.Category == string(field.CategoryPassword) {
			continue
		}

		if row.Key != "" {
			value, err := r.driver.Input(ctx, InputConfig{
				Message: fmt.Sprintf("%s (%s, %d%%)", row.Label, row.Key, row.Confidence),
				Default: row.Value,
				Help:    helpFor(row),
			})
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(value) == "" {
				continue
			}
			accepted[row.Index] = value
			continue
		}

		if !r.promptUnmatched || len(keys) == 0 {
			continue
		}
		assign, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Assign a value to %s?", row.Label),
		})
		if err != nil {
			return nil, err
		}
		if !assign {
			continue
		}

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("Profile key for %s", row.Label),
			Options: keys,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(keys) {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid selection for %s", row.Label))
			continue
		}
		accepted[row.Index] = data.Value(keys[idx])
	}
	return accepted, nil
}

func helpFor(row report.Row) string {
	var parts []string
	if field.Category(row.Category).Known() {
		parts = append(parts, "category "+row.Category)
	}
	if row.Refined {
		parts = append(parts, "confidence refined")
	}
	return strings.Join(parts, ", ")
}
