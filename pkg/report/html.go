package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
)

const templateName = "report.html"

// HTMLOption customises the HTML renderer configuration.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	templates fs.FS
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) HTMLOption {
	return func(cfg *htmlConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// HTMLRenderer produces a standalone HTML document from a plan using a
// pongo2 template set. Compiled templates are cached per path.
type HTMLRenderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

// NewHTML constructs the HTML renderer, verifying the template bundle up
// front so misconfiguration surfaces at wiring time.
func NewHTML(options ...HTMLOption) (*HTMLRenderer, error) {
	cfg := htmlConfig{templates: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	r := &HTMLRenderer{
		set:       pongo2.NewSet("autofill-report", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
	}
	if _, err := r.template(templateName); err != nil {
		return nil, err
	}
	return r, nil
}

// Name identifies the renderer inside the registry.
func (r *HTMLRenderer) Name() string {
	return "html"
}

// ContentType returns the MIME type for generated documents.
func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the report template against the plan plus any theme data.
func (r *HTMLRenderer) Render(ctx context.Context, plan Plan, opts Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("report: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	data, err := planContext(plan)
	if err != nil {
		return nil, err
	}
	data["theme"] = themeContext(opts.Theme)
	data["threshold"] = opts.Threshold

	var buf bytes.Buffer
	r.mu.RLock()
	err = tmpl.ExecuteWriter(data, &buf)
	r.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("report: execute template %q: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) template(path string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[path]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := r.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: load template %q: %w", path, err)
	}
	r.templates[path] = tmpl
	return tmpl, nil
}

// planContext lowers the plan through its JSON form so templates address
// values by their serialized names.
func planContext(plan Plan) (pongo2.Context, error) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("report: marshal plan: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("report: decode plan: %w", err)
	}
	return pongo2.Context(out), nil
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	out := map[string]any{
		"name":         "",
		"variant":      "",
		"cssVarsStyle": "",
		"stylesheet":   "",
	}
	if cfg == nil {
		return out
	}
	out["name"] = cfg.Theme
	out["variant"] = cfg.Variant
	vars := cfg.CSSVars
	if len(vars) == 0 {
		vars = cssVarsFromTokens(cfg.Tokens)
	}
	out["cssVarsStyle"] = cssVarsStyle(vars)
	if cfg.AssetURL != nil {
		out["stylesheet"] = cfg.AssetURL(ThemeAssetStylesheet)
	}
	return out
}
