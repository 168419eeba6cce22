package formsource

import (
	"fmt"

	"github.com/goliatone/go-autofill/pkg/dategroup"
)

// MemorySelect is an in-memory stand-in for a native select element. It
// records the chosen option and the dispatched events so tests and the CLI
// can inspect what a fill would have done.
type MemorySelect struct {
	options []dategroup.ControlOption
	index   int
	value   string
	events  []string
}

// Ensure the control satisfies the filler's select contract.
var _ dategroup.SelectControl = (*MemorySelect)(nil)

// NewMemorySelect builds a control over the given options with nothing
// selected.
func NewMemorySelect(options ...dategroup.ControlOption) *MemorySelect {
	return &MemorySelect{
		options: append([]dategroup.ControlOption(nil), options...),
		index:   -1,
	}
}

// Options returns a copy of the option list.
func (s *MemorySelect) Options() []dategroup.ControlOption {
	return append([]dategroup.ControlOption(nil), s.options...)
}

// Select records the chosen index and value.
func (s *MemorySelect) Select(index int, value string) error {
	if index < 0 || index >= len(s.options) {
		return fmt.Errorf("formsource: option index %d out of range", index)
	}
	s.index = index
	s.value = value
	return nil
}

// Dispatch records the event names a live control would emit.
func (s *MemorySelect) Dispatch(events ...string) error {
	s.events = append(s.events, events...)
	return nil
}

// Selected returns the chosen option when one was selected.
func (s *MemorySelect) Selected() (dategroup.ControlOption, bool) {
	if s.index < 0 || s.index >= len(s.options) {
		return dategroup.ControlOption{}, false
	}
	return s.options[s.index], true
}

// Value returns the value written by Select, empty before any fill.
func (s *MemorySelect) Value() string {
	return s.value
}

// Events returns the dispatched event names in order.
func (s *MemorySelect) Events() []string {
	return append([]string(nil), s.events...)
}
