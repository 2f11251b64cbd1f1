package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

func summaryView() orchestrator.View {
	return orchestrator.View{
		State: orchestrator.StateSummaryShown,
		Answers: model.SurveyAnswers{
			FullName:    "Ada *Countess* Lovelace",
			Email:       "ada@example.org",
			SurveyTopic: model.TopicHealth,
			HealthSection: model.HealthSection{
				ExerciseFrequency: "Weekly",
				DietPreference:    "Vegan",
			},
			Feedback: "Enjoyed it.",
		},
		AdditionalQuestions: []string{"Hours of sleep?"},
		Catalog:             model.DefaultCatalog(),
	}
}

func TestSummaryMarkdown(t *testing.T) {
	want := strings.Join([]string{
		"# Survey Summary",
		"",
		`- **Full Name:** Ada \*Countess\* Lovelace`,
		"- **Email:** ada@example.org",
		"- **Survey Topic:** Health",
		"- **Exercise Frequency:** Weekly",
		"- **Diet Preference:** Vegan",
		"- **Feedback:** Enjoyed it.",
		"",
		"## Additional Questions",
		"",
		"- Hours of sleep?",
		"",
	}, "\n")

	if diff := cmp.Diff(want, SummaryMarkdown(summaryView())); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryMarkdownGolden(t *testing.T) {
	view := orchestrator.View{
		State:               orchestrator.StateSummaryShown,
		Answers:             testsupport.MustLoadAnswers(t, filepath.Join("testdata", "answers_education.json")),
		AdditionalQuestions: []string{"What inspired you to study?"},
		Catalog:             model.DefaultCatalog(),
	}
	got := SummaryMarkdown(view)

	golden := filepath.Join("testdata", "summary_education.golden.md")
	if testsupport.WriteMaybeGolden(t, golden, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownRendererBeforeSummary(t *testing.T) {
	view := summaryView()
	view.State = orchestrator.StateEditing
	view.Errors = model.ValidationErrors{model.FieldEmail: validation.MsgEmailInvalid}

	out, err := MarkdownRenderer{}.Render(context.Background(), view, renderOptions())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "- Email is invalid") {
		t.Fatalf("expected error list, got %q", out)
	}
	if strings.Contains(string(out), "Additional Questions") {
		t.Fatalf("summary leaked before submit: %q", out)
	}
}

func TestTerminalRendererRendersMarkdown(t *testing.T) {
	renderFn, err := NewTerminalRenderer(80)
	if err != nil {
		t.Fatalf("terminal renderer: %v", err)
	}
	out, err := renderFn(SummaryMarkdown(summaryView()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Vegan") {
		t.Fatalf("expected rendered summary to contain answers, got %q", out)
	}
}

func renderOptions() render.RenderOptions {
	return render.RenderOptions{}
}
