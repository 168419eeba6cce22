package report

import (
	"context"

	theme "github.com/goliatone/go-theme"
)

// Renderer converts a Plan into a byte representation (JSON, text, HTML).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, plan Plan, options Options) ([]byte, error)
}

// Options describe per-render data that renderers can use to customise
// their output without mutating the plan itself.
type Options struct {
	// Theme carries resolved design tokens for renderers that produce
	// styled output. Renderers without styling ignore it.
	Theme *theme.RendererConfig

	// Threshold marks rows at or above this confidence as ready to fill.
	// Zero disables the marker.
	Threshold int
}

func (o Options) ready(confidence int) bool {
	return o.Threshold > 0 && confidence >= o.Threshold
}
