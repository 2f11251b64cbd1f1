// Package surveyform re-exports the pieces most callers need to run a survey
// form without importing every subpackage.
package surveyform

import (
	"io/fs"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/questions"
	"github.com/goliatone/go-surveyform/pkg/renderers/html"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// SurveyAnswers aliases model.SurveyAnswers.
type SurveyAnswers = model.SurveyAnswers

// View is the snapshot renderers draw from.
type View = orchestrator.View

// Result is the outcome of a submit.
type Result = validation.Result

// NewOrchestrator constructs a form orchestrator.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewFetcher builds the HTTP additional questions client.
func NewFetcher(options ...questions.Option) (questions.Fetcher, error) {
	return questions.NewClient(options...)
}

// Validate applies the submit rules to answers without an orchestrator.
func Validate(answers SurveyAnswers) Result {
	return validation.Validate(answers)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can
// extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet served under /assets/.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(surveyform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
