// Package autofill detects which profile values belong in which form
// fields and plans the fill. The root package re-exports the common entry
// points; pkg/detect, pkg/match, pkg/dategroup, and pkg/report carry the
// full API.
package autofill

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/detect"
	"github.com/goliatone/go-autofill/pkg/formsource"
	"github.com/goliatone/go-autofill/pkg/match"
	"github.com/goliatone/go-autofill/pkg/profile"
	"github.com/goliatone/go-autofill/pkg/report"
)

// Pass is the outcome of one detection run; alias exported via the root
// package for convenience.
type Pass = detect.Pass

// Plan is the renderer input assembled from a pass.
type Plan = report.Plan

// Document is a parsed form description.
type Document = formsource.Document

// NewPipeline exposes the detection pipeline constructor from the top-level
// module.
func NewPipeline(options ...detect.Option) *detect.Pipeline {
	return detect.New(options...)
}

// Detect runs a detection pass over a form document using the document's
// own category annotations. It is the simplest entry point for callers that
// have a document and a profile; later options override the defaults it
// sets.
func Detect(ctx context.Context, doc Document, data profile.Data, options ...detect.Option) (*Pass, error) {
	opts := append([]detect.Option{detect.WithClassifier(doc.Categories())}, options...)
	pipeline := detect.New(opts...)
	return pipeline.Detect(ctx, doc.Descriptors(), data)
}

// DetectPlan runs Detect and assembles the renderer-ready plan, titled
// after the document.
func DetectPlan(ctx context.Context, doc Document, data profile.Data, options ...detect.Option) (Plan, error) {
	pass, err := Detect(ctx, doc, data, options...)
	if err != nil {
		return Plan{}, err
	}
	plan := report.BuildPlan(pass, data)
	plan.Title = doc.Title
	return plan, nil
}

// ParseForm decodes a JSON form document, attaching in-memory select
// controls to option-bearing fields.
func ParseForm(raw []byte) (Document, error) {
	return formsource.Parse(raw)
}

// WithMatcher forwards a custom matcher to the pipeline.
func WithMatcher(m *match.Matcher) detect.Option {
	return detect.WithMatcher(m)
}

// WithGrouper forwards a custom date grouper to the pipeline.
func WithGrouper(g *dategroup.Grouper) detect.Option {
	return detect.WithGrouper(g)
}

// WithRefiner forwards the confidence refiner to the pipeline. Pass nil to
// disable refinement.
func WithRefiner(r detect.Refiner) detect.Option {
	return detect.WithRefiner(r)
}

// WithLogger forwards the pipeline logger.
func WithLogger(logger *zap.Logger) detect.Option {
	return detect.WithLogger(logger)
}
