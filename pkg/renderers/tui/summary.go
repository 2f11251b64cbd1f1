package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
)

// SummaryMarkdown renders the summary rows and additional questions as a
// markdown document.
func SummaryMarkdown(view orchestrator.View) string {
	var b strings.Builder
	b.WriteString("# Survey Summary\n\n")
	for _, line := range view.Summary() {
		fmt.Fprintf(&b, "- **%s:** %s\n", line.Label, escapeMarkdown(line.Value))
	}
	b.WriteString("\n## Additional Questions\n\n")
	if len(view.AdditionalQuestions) == 0 {
		b.WriteString("_None._\n")
	}
	for _, question := range view.AdditionalQuestions {
		fmt.Fprintf(&b, "- %s\n", escapeMarkdown(question))
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(strings.TrimSpace(s))
}

// NewTerminalRenderer returns a function that renders markdown for the
// terminal using glamour. wordWrap <= 0 keeps glamour's default.
func NewTerminalRenderer(wordWrap int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: glamour renderer: %w", err)
	}
	return r.Render, nil
}

// MarkdownRenderer serves the summary as text/markdown. Before the summary is
// shown it lists the current validation errors instead.
type MarkdownRenderer struct{}

var _ render.Renderer = MarkdownRenderer{}

func (MarkdownRenderer) Name() string {
	return "markdown"
}

func (MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (MarkdownRenderer) Render(ctx context.Context, view orchestrator.View, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.SummaryShown() {
		return []byte(SummaryMarkdown(view)), nil
	}

	var b strings.Builder
	b.WriteString("# Survey\n\n")
	if len(view.Errors) == 0 {
		b.WriteString("Not submitted yet.\n")
		return []byte(b.String()), nil
	}
	for _, key := range view.Errors.Keys() {
		fmt.Fprintf(&b, "- %s\n", escapeMarkdown(view.Errors[key]))
	}
	return []byte(b.String()), nil
}
