// Package refine implements the optional AI confidence-refinement pass. It
// submits fields the matcher left uncertain to a text-completion service and
// returns improved key/confidence pairs. Every failure path is fail-open:
// callers fall back to the matcher's results, never worse.
package refine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/match"
)

const (
	// acceptFloor rejects weak suggestions: a reported confidence must
	// exceed it for the suggestion to be accepted.
	acceptFloor = 60
	// confidenceCeiling caps accepted confidences so a refined match can
	// never be presented as a perfect exact match.
	confidenceCeiling = 95
	// submitCeiling bounds which detections are worth refining: only
	// matched fields below it are submitted.
	submitCeiling = 85
)

// Candidate is one field submitted for refinement. Index points back into
// the detection slice the candidate came from. ContextText carries up to
// ContextLimit characters of surrounding page text; see ContextText.
type Candidate struct {
	Index       int    `json:"index"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	AriaLabel   string `json:"ariaLabel,omitempty"`
	ContextText string `json:"contextText,omitempty"`
}

// Suggestion is one entry of the service's response payload.
type Suggestion struct {
	FieldIndex int    `json:"fieldIndex"`
	MatchedKey string `json:"matchedKey"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning,omitempty"`
}

// Uncertain selects the detections worth refining: fields the matcher
// matched below the refinement ceiling, passwords excluded. Candidate
// indexes refer to positions in detected.
func Uncertain(detected []match.Detected) []Candidate {
	var out []Candidate
	for i, d := range detected {
		if d.Category == field.CategoryPassword {
			continue
		}
		if d.Result.Confidence <= 0 || d.Result.Confidence >= submitCeiling {
			continue
		}
		out = append(out, Candidate{
			Index:       i,
			Label:       d.Field.Label,
			Placeholder: d.Field.Placeholder,
			Name:        d.Field.Name,
			Type:        d.Field.Type,
			AriaLabel:   d.Field.AriaLabel,
		})
	}
	return out
}

// Refiner talks to a chat-completion endpoint. Construct with New; the zero
// value is disabled.
type Refiner struct {
	endpoint    string
	credential  string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *zap.Logger
}

// Option mutates refiner construction.
type Option func(*Refiner)

// WithEndpoint overrides the completion endpoint URL.
func WithEndpoint(url string) Option {
	return func(r *Refiner) {
		if url != "" {
			r.endpoint = url
		}
	}
}

// WithCredential sets the bearer credential. Refinement stays disabled
// without one.
func WithCredential(credential string) Option {
	return func(r *Refiner) {
		r.credential = credential
	}
}

// WithModel overrides the completion model identifier.
func WithModel(model string) Option {
	return func(r *Refiner) {
		if model != "" {
			r.model = model
		}
	}
}

// WithHTTPClient overrides the HTTP client, e.g. to adjust timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Refiner) {
		if client != nil {
			r.client = client
		}
	}
}

// WithLogger attaches a logger for failure diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Refiner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a Refiner. Defaults target an OpenAI-compatible chat endpoint
// with a low sampling temperature and bounded output, which the scoring
// instruction depends on.
func New(opts ...Option) *Refiner {
	r := &Refiner{
		endpoint:    "https://api.openai.com/v1/chat/completions",
		model:       "gpt-4o-mini",
		temperature: 0.1,
		maxTokens:   1024,
		client:      &http.Client{Timeout: 20 * time.Second},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Enabled reports whether a credential is configured. A disabled refiner
// returns empty results from Refine without touching the network.
func (r *Refiner) Enabled() bool {
	return r != nil && r.credential != ""
}

// Refine submits candidates and the available profile keys, returning
// accepted suggestions keyed by candidate index. A suggestion is accepted
// only when its key is non-empty and its confidence clears the floor;
// accepted confidences are clamped to the ceiling. Unknown indexes are
// dropped. On transport, status, or payload errors Refine returns a non-nil
// error and no partial results; callers keep their pre-refinement values.
func (r *Refiner) Refine(ctx context.Context, candidates []Candidate, availableKeys []string) (map[int]match.Result, error) {
	results := make(map[int]match.Result)
	if !r.Enabled() || len(candidates) == 0 || len(availableKeys) == 0 {
		return results, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(candidates, availableKeys)
	if err != nil {
		return nil, fmt.Errorf("refine: build prompt: %w", err)
	}

	raw, err := r.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	suggestions, err := decodeSuggestions(raw)
	if err != nil {
		return nil, err
	}

	submitted := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		submitted[c.Index] = true
	}

	for _, s := range suggestions {
		if !submitted[s.FieldIndex] {
			r.logger.Debug("refine: dropping suggestion for unsubmitted field",
				zap.Int("fieldIndex", s.FieldIndex))
			continue
		}
		if s.MatchedKey == "" || s.Confidence <= acceptFloor {
			continue
		}
		confidence := s.Confidence
		if confidence > confidenceCeiling {
			confidence = confidenceCeiling
		}
		results[s.FieldIndex] = match.Result{Key: s.MatchedKey, Confidence: confidence}
	}
	return results, nil
}
