package render

import (
	"context"

	"github.com/goliatone/go-surveyform/pkg/orchestrator"
)

// Renderer converts a form snapshot into a byte representation (HTML,
// markdown, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view orchestrator.View, options RenderOptions) ([]byte, error)
}
