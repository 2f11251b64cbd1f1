package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the orchestrator.
type RenderOptions struct {
	// Action is the URL the form posts to. Renderers that do not emit a form
	// ignore it.
	Action string
	// Hidden carries extra inputs such as the revision the page was drawn at.
	Hidden []HiddenField
	// Theme is the resolved theme. Nil falls back to the renderer defaults.
	Theme *theme.RendererConfig
	// Title overrides the page heading.
	Title string
}
