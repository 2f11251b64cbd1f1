// Package html renders the survey form and its summary as a standalone HTML
// page using go-template (pongo2 syntax).
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	gotemplate "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	rendertemplate "github.com/goliatone/go-surveyform/pkg/render/template"
)

const (
	defaultTitle    = "Survey"
	defaultTemplate = "templates/page.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	globalData       map[string]any
	templateFuncs    map[string]any
	theme            *theme.RendererConfig
	stylesheet       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithGlobalData exposes values to every template render, for example a
// brand name used by custom templates. Ignored with WithTemplateRenderer.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[key] = value
		}
	}
}

// WithTemplateFuncs registers helpers with the template engine. pongo2
// filter functions become filters; other functions become globals. Ignored
// with WithTemplateRenderer.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithTheme sets the default theme. RenderOptions.Theme overrides it per call.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithStylesheetURL sets the href of the default stylesheet link. Empty
// disables the link.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(url)
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	theme      *theme.RendererConfig
	stylesheet string
}

var (
	_ render.Renderer                 = (*Renderer)(nil)
	_ rendertemplate.TemplateRenderer = (*gotemplate.Engine)(nil)
)

// New constructs the HTML renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		stylesheet: "/assets/" + StylesheetName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.NewRenderer(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithGlobalData(cfg.globalData),
			gotemplate.WithTemplateFunc(cfg.templateFuncs),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		theme:      cfg.theme,
		stylesheet: cfg.stylesheet,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the form. Only the section matching the selected topic is
// emitted; the summary follows the form once it has been revealed.
func (r *Renderer) Render(_ context.Context, view orchestrator.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	themeCfg := options.Theme
	if themeCfg == nil {
		themeCfg = r.theme
	}
	title := options.Title
	if title == "" {
		title = defaultTitle
	}

	result, err := r.templates.RenderTemplate(defaultTemplate, map[string]any{
		"title":      title,
		"action":     options.Action,
		"state":      string(view.State),
		"hidden":     hiddenData(options.Hidden),
		"theme":      buildThemeContext(themeCfg),
		"stylesheet": stylesheetURL(themeCfg, r.stylesheet),
		"groups":     buildGroups(view),
		"formErrors": render.MapErrors(view.Catalog, view.Errors).Form,
		"summary":    buildSummary(view),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type hiddenInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fieldData struct {
	ID          string   `json:"id"`
	Path        string   `json:"path"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Value       string   `json:"value"`
	Error       string   `json:"error,omitempty"`
	Required    bool     `json:"required"`
}

type groupData struct {
	Key    string      `json:"key,omitempty"`
	Title  string      `json:"title,omitempty"`
	Fields []fieldData `json:"fields"`
}

type summaryData struct {
	Shown     bool                       `json:"shown"`
	Lines     []orchestrator.SummaryLine `json:"lines"`
	Questions []string                   `json:"questions"`
}

func hiddenData(fields []render.HiddenField) []hiddenInput {
	sorted := render.SortedHiddenFields(fields)
	out := make([]hiddenInput, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, hiddenInput{Name: field.Name, Value: field.Value})
	}
	return out
}

func buildGroups(view orchestrator.View) []groupData {
	catalog := view.Catalog
	errs := render.MapErrors(catalog, view.Errors)

	identity := make([]model.Field, 0, len(catalog.Identity)+1)
	identity = append(identity, catalog.Identity...)
	identity = append(identity, catalog.Topic)

	groups := []groupData{{Fields: fieldsData(view, errs, identity)}}
	if section, ok := catalog.Section(view.Answers.SurveyTopic); ok {
		groups = append(groups, groupData{
			Key:    section.Key,
			Title:  section.Title,
			Fields: fieldsData(view, errs, section.Fields),
		})
	}
	groups = append(groups, groupData{Fields: fieldsData(view, errs, []model.Field{catalog.Feedback})})
	return groups
}

func fieldsData(view orchestrator.View, errs render.ErrorMapping, fields []model.Field) []fieldData {
	out := make([]fieldData, 0, len(fields))
	for _, field := range fields {
		value, err := view.Answers.Get(field.Section, field.Name)
		if err != nil {
			continue
		}
		path := field.Path()
		out = append(out, fieldData{
			ID:          "survey-" + strings.ReplaceAll(path, ".", "-"),
			Path:        path,
			Label:       field.Label,
			Kind:        string(field.Kind),
			Placeholder: field.Placeholder,
			Options:     field.Options,
			Value:       value,
			Error:       errs.For(path),
			Required:    field.Required,
		})
	}
	return out
}

func buildSummary(view orchestrator.View) summaryData {
	if !view.SummaryShown() {
		return summaryData{}
	}
	questions := make([]string, 0, len(view.AdditionalQuestions))
	for _, question := range view.AdditionalQuestions {
		if cleaned := sanitizeQuestion(question); cleaned != "" {
			questions = append(questions, cleaned)
		}
	}
	return summaryData{
		Shown:     true,
		Lines:     view.Summary(),
		Questions: questions,
	}
}
