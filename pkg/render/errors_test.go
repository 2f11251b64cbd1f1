package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

func TestMapErrorsSpreadsSectionMessage(t *testing.T) {
	errs := model.ValidationErrors{
		model.FieldEmail:       validation.MsgEmailInvalid,
		model.SectionEducation: validation.MsgFieldOfStudyRequired,
		"somethingElse":        "Try again later",
		model.FieldFeedback:    "   ",
	}

	mapping := render.MapErrors(model.DefaultCatalog(), errs)

	want := map[string]string{
		model.FieldEmail: validation.MsgEmailInvalid,
		model.Path(model.SectionEducation, model.FieldHighestQualification): validation.MsgFieldOfStudyRequired,
		model.Path(model.SectionEducation, model.FieldFieldOfStudy):         validation.MsgFieldOfStudyRequired,
	}
	if diff := cmp.Diff(want, mapping.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Try again later"}, mapping.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if got := mapping.For(model.FieldFeedback); got != "" {
		t.Fatalf("blank message should be dropped, got %q", got)
	}
}

func TestMapErrorsEmpty(t *testing.T) {
	mapping := render.MapErrors(model.DefaultCatalog(), nil)
	if len(mapping.Fields) != 0 || len(mapping.Form) != 0 {
		t.Fatalf("expected empty mapping, got %+v", mapping)
	}
}
