package dategroup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-autofill/pkg/field"
)

// Role identifies which date component a control holds.
type Role string

const (
	RoleYear  Role = "year"
	RoleMonth Role = "month"
	RoleDay   Role = "day"
)

// Event names dispatched after a native select fill, in order, so host-page
// frameworks observe the change.
const (
	EventChange = "change"
	EventInput  = "input"
	EventFocus  = "focus"
	EventBlur   = "blur"
)

// ControlOption is one entry of a discrete control's option list.
type ControlOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// SelectControl abstracts a native select element. Select must set both the
// control's value and its selected index; some UI libraries derive state
// from the index rather than the value.
type SelectControl interface {
	Options() []ControlOption
	Select(index int, value string) error
	Dispatch(events ...string) error
}

// ListboxControl abstracts an ARIA-listbox style custom dropdown. Choose is
// expected to click the option, mark it selected, and notify the container.
type ListboxControl interface {
	Options() []ControlOption
	Open(ctx context.Context) error
	Choose(ctx context.Context, index int) error
}

// DefaultOpenDelay is the pause between opening a custom dropdown and
// choosing an option, giving the host page time to render its option list.
const DefaultOpenDelay = 100 * time.Millisecond

// Filler writes date components into select-like controls. Construct with
// NewFiller.
type Filler struct {
	openDelay time.Duration
	logger    *zap.Logger
}

// FillerOption mutates filler construction.
type FillerOption func(*Filler)

// WithOpenDelay overrides the dropdown render pause.
func WithOpenDelay(d time.Duration) FillerOption {
	return func(f *Filler) {
		if d >= 0 {
			f.openDelay = d
		}
	}
}

// WithLogger attaches a logger for fill diagnostics.
func WithLogger(logger *zap.Logger) FillerOption {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFiller builds a Filler.
func NewFiller(opts ...FillerOption) *Filler {
	f := &Filler{openDelay: DefaultOpenDelay, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// FillComponent fills one date component. The descriptor's Handle must carry
// a SelectControl or ListboxControl implementation; any other handle reports
// false. Failure never raises an error: an unmatched option or a control
// that refuses the write returns false and leaves the control untouched.
func (f *Filler) FillComponent(ctx context.Context, d field.Descriptor, date ParsedDate, role Role) bool {
	switch control := d.Handle.(type) {
	case SelectControl:
		return f.fillSelect(control, date, role, d)
	case ListboxControl:
		return f.fillListbox(ctx, control, date, role, d)
	default:
		return false
	}
}

// GroupFill reports which components of a group were filled.
type GroupFill struct {
	Year  bool
	Month bool
	Day   bool
}

// Any reports whether at least one component was filled.
func (r GroupFill) Any() bool {
	return r.Year || r.Month || r.Day
}

// FillGroup fills every split component the group has from one parsed date.
// The full-date field, when present, is left to the caller's field writer;
// ParsedDate.ISO supplies its value. Components are independent: one
// unfillable control does not stop its siblings.
func (f *Filler) FillGroup(ctx context.Context, group Group, date ParsedDate) GroupFill {
	var result GroupFill
	if group.Year != nil {
		result.Year = f.FillComponent(ctx, *group.Year, date, RoleYear)
	}
	if group.Month != nil {
		result.Month = f.FillComponent(ctx, *group.Month, date, RoleMonth)
	}
	if group.Day != nil {
		result.Day = f.FillComponent(ctx, *group.Day, date, RoleDay)
	}
	return result
}

func (f *Filler) fillSelect(control SelectControl, date ParsedDate, role Role, d field.Descriptor) bool {
	options := control.Options()
	index, ok := matchOption(options, role, date)
	if !ok {
		return false
	}
	if err := control.Select(index, options[index].Value); err != nil {
		f.logger.Debug("dategroup: select write failed",
			zap.String("field", d.Name), zap.String("role", string(role)), zap.Error(err))
		return false
	}
	if err := control.Dispatch(EventChange, EventInput, EventFocus, EventBlur); err != nil {
		f.logger.Debug("dategroup: event dispatch failed",
			zap.String("field", d.Name), zap.String("role", string(role)), zap.Error(err))
		return false
	}
	return true
}

func (f *Filler) fillListbox(ctx context.Context, control ListboxControl, date ParsedDate, role Role, d field.Descriptor) bool {
	index, ok := matchOption(control.Options(), role, date)
	if !ok {
		return false
	}
	if err := control.Open(ctx); err != nil {
		f.logger.Debug("dategroup: listbox open failed",
			zap.String("field", d.Name), zap.Error(err))
		return false
	}
	if err := f.wait(ctx); err != nil {
		return false
	}
	if err := control.Choose(ctx, index); err != nil {
		f.logger.Debug("dategroup: listbox choose failed",
			zap.String("field", d.Name), zap.Error(err))
		return false
	}
	return true
}

// wait pauses for the open delay, honoring cancellation. A timer instead of
// a sleep, so rapid repeated invocations can be abandoned mid-fill.
func (f *Filler) wait(ctx context.Context) error {
	if f.openDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.openDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// matchOption finds the first option satisfying the role's matching rules.
func matchOption(options []ControlOption, role Role, date ParsedDate) (int, bool) {
	target := date.Value(role)
	if target == "" {
		return 0, false
	}
	switch role {
	case RoleYear:
		return matchYear(options, target)
	case RoleMonth:
		return matchMonth(options, target)
	case RoleDay:
		return matchDay(options, target)
	}
	return 0, false
}

// matchYear wants case and whitespace insensitive equality against the
// option value or text.
func matchYear(options []ControlOption, target string) (int, bool) {
	want := foldTrim(target)
	for i, opt := range options {
		if foldTrim(opt.Value) == want || foldTrim(opt.Text) == want {
			return i, true
		}
	}
	return 0, false
}

// matchMonth accepts the canonical month name, its three-letter
// abbreviation, and the padded or unpadded numeric form for a numeric 1-12
// target. Non-numeric targets fall back to substring containment.
func matchMonth(options []ControlOption, target string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(target))
	if err != nil || n < 1 || n > 12 {
		return matchSubstring(options, target)
	}
	name := strings.ToLower(time.Month(n).String())
	forms := map[string]bool{
		name:                   true,
		name[:3]:               true,
		fmt.Sprintf("%02d", n): true,
		strconv.Itoa(n):        true,
	}
	for i, opt := range options {
		if forms[foldTrim(opt.Value)] || forms[foldTrim(opt.Text)] {
			return i, true
		}
	}
	return 0, false
}

// matchDay accepts padded or unpadded numeric forms for a numeric target,
// substring containment otherwise.
func matchDay(options []ControlOption, target string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(target))
	if err != nil {
		return matchSubstring(options, target)
	}
	forms := map[string]bool{
		fmt.Sprintf("%02d", n): true,
		strconv.Itoa(n):        true,
	}
	for i, opt := range options {
		if forms[foldTrim(opt.Value)] || forms[foldTrim(opt.Text)] {
			return i, true
		}
	}
	return 0, false
}

func matchSubstring(options []ControlOption, target string) (int, bool) {
	want := foldTrim(target)
	if want == "" {
		return 0, false
	}
	for i, opt := range options {
		if strings.Contains(foldTrim(opt.Value), want) || strings.Contains(foldTrim(opt.Text), want) {
			return i, true
		}
	}
	return 0, false
}

func foldTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
