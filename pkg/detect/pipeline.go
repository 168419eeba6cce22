package detect

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/match"
	"github.com/goliatone/go-autofill/pkg/profile"
	"github.com/goliatone/go-autofill/pkg/refine"
)

// Classifier assigns a semantic category to a field descriptor. The
// pipeline consumes categories, it never derives them; form documents and
// tests supply their own implementations.
type Classifier interface {
	Classify(field.Descriptor) field.Category
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(field.Descriptor) field.Category

// Classify implements Classifier.
func (f ClassifierFunc) Classify(d field.Descriptor) field.Category {
	return f(d)
}

// Refiner is the confidence-refinement seam. *refine.Refiner satisfies it.
type Refiner interface {
	Enabled() bool
	Refine(ctx context.Context, candidates []refine.Candidate, availableKeys []string) (map[int]match.Result, error)
}

// FieldContext supplies the raw markup surrounding a field, used to give
// the refinement service visual context. Return "" when none is available.
type FieldContext func(field.Descriptor) string

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithMatcher injects a custom matcher.
func WithMatcher(m *match.Matcher) Option {
	return func(p *Pipeline) {
		p.matcher = m
	}
}

// WithGrouper injects a custom date grouper.
func WithGrouper(g *dategroup.Grouper) Option {
	return func(p *Pipeline) {
		p.grouper = g
	}
}

// WithRefiner injects the confidence refiner. Pass nil to disable
// refinement entirely.
func WithRefiner(r Refiner) Option {
	return func(p *Pipeline) {
		p.refiner = r
		p.refinerSpecified = true
	}
}

// WithClassifier injects the category source for Detect.
func WithClassifier(c Classifier) Option {
	return func(p *Pipeline) {
		p.classifier = c
	}
}

// WithFieldContext injects the surrounding-markup provider for refinement
// candidates.
func WithFieldContext(fn FieldContext) Option {
	return func(p *Pipeline) {
		p.fieldContext = fn
	}
}

// WithLogger injects the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline coordinates a full detection pass: classify, match, group, and
// optionally refine. Detect and Refine are safe for concurrent use; only
// the most recent pass may absorb refinement results.
type Pipeline struct {
	matcher          *match.Matcher
	grouper          *dategroup.Grouper
	refiner          Refiner
	refinerSpecified bool
	classifier       Classifier
	fieldContext     FieldContext
	logger           *zap.Logger

	mu      sync.Mutex
	current uuid.UUID
}

// New constructs a Pipeline applying any provided options. Missing
// dependencies are initialised with the built-in implementations; the
// default refiner stays disabled until a credential is configured.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.matcher == nil {
		p.matcher = match.New()
	}
	if p.grouper == nil {
		p.grouper = dategroup.New()
	}
	if p.refiner == nil && !p.refinerSpecified {
		p.refiner = refine.New()
	}
	if p.classifier == nil {
		p.classifier = ClassifierFunc(func(field.Descriptor) field.Category {
			return field.CategoryUnknown
		})
	}
	return p
}

// Detect runs the matcher and the date grouper over fields and returns a
// fresh pass. The new pass becomes current: refinement results belonging
// to any earlier pass are discarded from this point on.
func (p *Pipeline) Detect(ctx context.Context, fields []field.Descriptor, data profile.Data) (*Pass, error) {
	if ctx == nil {
		return nil, errors.New("detect: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classified := make([]match.Classified, len(fields))
	for i, f := range fields {
		classified[i] = match.Classified{Field: f, Category: p.classifier.Classify(f)}
	}

	pass := &Pass{
		ID:     uuid.New(),
		Fields: p.matcher.Match(classified, data),
		Groups: p.grouper.Detect(fields),
	}

	p.mu.Lock()
	p.current = pass.ID
	p.mu.Unlock()

	p.logger.Debug("detect: pass complete",
		zap.String("pass", pass.ID.String()),
		zap.Int("fields", len(pass.Fields)),
		zap.Int("dateGroups", len(pass.Groups)))

	return pass, nil
}

// Refine submits the pass's uncertain fields to the refinement service and
// merges accepted results back, overwriting a field only when the new
// confidence is strictly greater. Results arriving after a newer pass has
// started are dropped wholesale. Service failures are logged and reported
// as zero improvements; the matcher's results are never disturbed by them.
// Returns the number of fields whose confidence improved.
func (p *Pipeline) Refine(ctx context.Context, pass *Pass, data profile.Data) (int, error) {
	if ctx == nil {
		return 0, errors.New("detect: context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if pass == nil {
		return 0, errors.New("detect: pass is required")
	}
	if p.refiner == nil || !p.refiner.Enabled() {
		return 0, nil
	}

	candidates := refine.Uncertain(pass.Fields)
	if len(candidates) == 0 {
		return 0, nil
	}
	if p.fieldContext != nil {
		for i := range candidates {
			markup := p.fieldContext(pass.Fields[candidates[i].Index].Field)
			candidates[i].ContextText = refine.ContextText(markup)
		}
	}

	pass.Submitted = pass.Submitted[:0]
	for _, c := range candidates {
		pass.Submitted = append(pass.Submitted, c.Index)
	}

	results, err := p.refiner.Refine(ctx, candidates, data.SortedKeys())
	if err != nil {
		p.logger.Warn("detect: refinement failed", zap.Error(err))
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != pass.ID {
		p.logger.Debug("detect: discarding stale refinement",
			zap.String("pass", pass.ID.String()))
		return 0, nil
	}

	applied := 0
	for index, result := range results {
		if index < 0 || index >= len(pass.Fields) {
			continue
		}
		if result.Confidence <= pass.Fields[index].Result.Confidence {
			continue
		}
		pass.Fields[index].Result = result
		applied++
	}
	if applied > 0 {
		p.logger.Debug("detect: refinement applied",
			zap.String("pass", pass.ID.String()),
			zap.Int("improved", applied))
	}
	return applied, nil
}
