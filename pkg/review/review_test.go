package review_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autofill/pkg/profile"
	"github.com/goliatone/go-autofill/pkg/report"
	"github.com/goliatone/go-autofill/pkg/review"
)

type scriptDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	err      error

	inputCfgs   []review.InputConfig
	confirmCfgs []review.ConfirmConfig
	selectCfgs  []review.SelectConfig
	info        []string

	inputPos   int
	confirmPos int
	selectPos  int
}

func (s *scriptDriver) Input(_ context.Context, cfg review.InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *scriptDriver) Confirm(_ context.Context, cfg review.ConfirmConfig) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.confirmCfgs = append(s.confirmCfgs, cfg)
	if s.confirmPos >= len(s.confirms) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *scriptDriver) Select(_ context.Context, cfg review.SelectConfig) (int, error) {
	if s.err != nil {
		return -1, s.err
	}
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selects) {
		return -1, errors.New("no select scripted")
	}
	val := s.selects[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *scriptDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func testPlan() report.Plan {
	return report.Plan{
		Title:   "Signup form",
		Summary: report.Summary{Fields: 4, Matched: 2, Dates: 1},
		Rows: []report.Row{
			{Index: 0, Label: "Email Address", Type: "text", Category: "email", Key: "email", Confidence: 100, Value: "jane@example.com"},
			{Index: 1, Label: "Password", Type: "password", Category: "password", Key: "password", Confidence: 100, Value: "hunter2"},
			{Index: 2, Label: "Phone", Type: "tel", Category: "phone", Key: "phoneNumber", Confidence: 78, Value: "555-123-4567", Refined: true},
			{Index: 3, Label: "Nickname", Type: "text", Category: "unknown"},
		},
		Dates: []report.DateGroup{{Year: "dob_year", Month: "dob_month", Day: "dob_day"}},
	}
}

func testData() profile.Data {
	return profile.Data{
		"email":       "jane@example.com",
		"nickname":    "JJ",
		"phoneNumber": "5551234567",
	}
}

func newReviewer(t *testing.T, driver review.PromptDriver, options ...review.Option) *review.Reviewer {
	t.Helper()
	opts := append([]review.Option{review.WithDriver(driver)}, options...)
	r, err := review.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRunAcceptsProposedValues(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"jane@example.com", "555-123-4567"},
		confirms: []bool{false},
	}
	r := newReviewer(t, driver)

	accepted, err := r.Run(context.Background(), testPlan(), testData())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[int]string{0: "jane@example.com", 2: "555-123-4567"}
	if diff := cmp.Diff(want, accepted); diff != "" {
		t.Errorf("accepted values mismatch (-want +got):\n%s", diff)
	}

	if len(driver.inputCfgs) != 2 {
		t.Fatalf("input prompts = %d, want 2", len(driver.inputCfgs))
	}
	if got := driver.inputCfgs[0].Message; got != "Email Address (email, 100%)" {
		t.Errorf("first prompt message = %q", got)
	}
	if got := driver.inputCfgs[0].Default; got != "jane@example.com" {
		t.Errorf("first prompt default = %q", got)
	}
	if got := driver.inputCfgs[1].Help; got != "category phone, confidence refined" {
		t.Errorf("refined row help = %q", got)
	}
	if len(driver.selectCfgs) != 0 {
		t.Errorf("declined assignment still prompted for a key: %+v", driver.selectCfgs)
	}
	if len(driver.info) == 0 || driver.info[0] != "4 fields, 2 matched, 1 date groups" {
		t.Errorf("summary message = %v", driver.info)
	}
}

func TestRunNeverPromptsPasswordFields(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"jane@example.com", "555-123-4567"},
		confirms: []bool{false},
	}
	r := newReviewer(t, driver)

	accepted, err := r.Run(context.Background(), testPlan(), testData())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := accepted[1]; ok {
		t.Error("password row made it into the accepted set")
	}
	for _, cfg := range driver.inputCfgs {
		if strings.Contains(cfg.Message, "Password") {
			t.Errorf("password row was prompted: %q", cfg.Message)
		}
	}
}

func TestRunSkipsClearedValues(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"", "   "},
		confirms: []bool{false},
	}
	r := newReviewer(t, driver)

	accepted, err := r.Run(context.Background(), testPlan(), testData())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(accepted) != 0 {
		t.Errorf("cleared responses were accepted: %v", accepted)
	}
}

func TestRunAssignsUnmatchedField(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"jane@example.com", "555-123-4567"},
		confirms: []bool{true},
		selects:  []int{1},
	}
	r := newReviewer(t, driver)

	accepted, err := r.Run(context.Background(), testPlan(), testData())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := accepted[3]; got != "JJ" {
		t.Errorf("assigned value = %q, want %q", got, "JJ")
	}

	if len(driver.confirmCfgs) != 1 {
		t.Fatalf("confirm prompts = %d, want 1", len(driver.confirmCfgs))
	}
	if got := driver.confirmCfgs[0].Message; got != "Assign a value to Nickname?" {
		t.Errorf("confirm message = %q", got)
	}
	if len(driver.selectCfgs) != 1 {
		t.Fatalf("select prompts = %d, want 1", len(driver.selectCfgs))
	}
	if diff := cmp.Diff([]string{"email", "nickname", "phoneNumber"}, driver.selectCfgs[0].Options); diff != "" {
		t.Errorf("select options mismatch (-want +got):\n%s", diff)
	}
}

func TestRunIgnoresOutOfRangeSelection(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"jane@example.com", "555-123-4567"},
		confirms: []bool{true},
		selects:  []int{5},
	}
	r := newReviewer(t, driver)

	accepted, err := r.Run(context.Background(), testPlan(), testData())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := accepted[3]; ok {
		t.Errorf("out of range selection was accepted: %v", accepted)
	}
	found := false
	for _, msg := range driver.info {
		if strings.Contains(msg, "Invalid selection") {
			found = true
		}
	}
	if !found {
		t.Errorf("no invalid selection notice in %v", driver.info)
	}
}

func TestRunPropagatesAbort(t *testing.T) {
	driver := &scriptDriver{err: review.ErrAborted}
	r := newReviewer(t, driver)

	if _, err := r.Run(context.Background(), testPlan(), testData()); !errors.Is(err, review.ErrAborted) {
		t.Errorf("abort error = %v", err)
	}
}

func TestRunContextGuards(t *testing.T) {
	r := newReviewer(t, &scriptDriver{})

	if _, err := r.Run(nil, testPlan(), testData()); err == nil {
		t.Error("nil context accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, testPlan(), testData()); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v", err)
	}
}

func TestRunWithoutUnmatchedPrompts(t *testing.T) {
	driver := &scriptDriver{
		inputs: []string{"jane@example.com", "555-123-4567"},
	}
	r := newReviewer(t, driver, review.WithUnmatchedPrompts(false))

	accepted, err := r.Run(context.Background(), testPlan(), testData())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := accepted[3]; ok {
		t.Errorf("unmatched row was assigned: %v", accepted)
	}
	if len(driver.confirmCfgs) != 0 {
		t.Errorf("confirm prompts = %d, want 0", len(driver.confirmCfgs))
	}
}

func TestRunSkipsAssignmentWithEmptyProfile(t *testing.T) {
	driver := &scriptDriver{}
	r := newReviewer(t, driver)

	plan := report.Plan{
		Summary: report.Summary{Fields: 1},
		Rows:    []report.Row{{Index: 0, Label: "Nickname"}},
	}
	accepted, err := r.Run(context.Background(), plan, profile.Data{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(accepted) != 0 {
		t.Errorf("accepted = %v, want empty", accepted)
	}
	if len(driver.confirmCfgs) != 0 {
		t.Errorf("confirm prompts = %d, want 0", len(driver.confirmCfgs))
	}
}
