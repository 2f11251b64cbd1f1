package orchestrator

import (
	"github.com/goliatone/go-surveyform/pkg/model"
)

// View is an immutable snapshot of one form for renderers.
type View struct {
	State               State                  `json:"state"`
	Answers             model.SurveyAnswers    `json:"answers"`
	Errors              model.ValidationErrors `json:"errors"`
	AdditionalQuestions []string               `json:"additionalQuestions"`
	VisibleSection      string                 `json:"visibleSection,omitempty"`
	Catalog             model.Catalog          `json:"-"`
	Revision            uint64                 `json:"revision"`
}

// SummaryShown reports whether the summary should be drawn.
func (v View) SummaryShown() bool {
	return v.State == StateSummaryShown
}

// SummaryLine is one label/value row of the summary.
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary lists the rows shown after a valid submit: identity, topic, the
// active section only, then feedback.
func (v View) Summary() []SummaryLine {
	lines := []SummaryLine{
		{Label: v.label("", model.FieldFullName, "Full Name"), Value: v.Answers.FullName},
		{Label: v.label("", model.FieldEmail, "Email"), Value: v.Answers.Email},
		{Label: v.label("", model.FieldSurveyTopic, "Survey Topic"), Value: string(v.Answers.SurveyTopic)},
	}
	if section := v.Answers.ActiveSection(); section != nil {
		for _, field := range section.Values() {
			lines = append(lines, SummaryLine{
				Label: v.label(section.Key(), field.Name, field.Name),
				Value: field.Value,
			})
		}
	}
	lines = append(lines, SummaryLine{
		Label: v.label("", model.FieldFeedback, "Feedback"),
		Value: v.Answers.Feedback,
	})
	return lines
}

// FieldError returns the message shown next to a field. Fields of a topic
// section all show the shared section message.
func (v View) FieldError(section, field string) string {
	if section != "" {
		return v.Errors[section]
	}
	return v.Errors[field]
}

func (v View) label(section, field, fallback string) string {
	if f, ok := v.Catalog.Lookup(section, field); ok && f.Label != "" {
		return f.Label
	}
	return fallback
}
