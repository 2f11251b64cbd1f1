package model_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
)

func TestSurveyAnswers_WithLeavesSiblingsUntouched(t *testing.T) {
	base := model.SurveyAnswers{
		FullName:          "Ada",
		TechnologySection: model.TechnologySection{FavoriteLanguage: "Go"},
		HealthSection:     model.HealthSection{DietPreference: "Vegan"},
	}

	next, err := base.With(model.SectionTechnology, model.FieldYearsOfExperience, "7")
	if err != nil {
		t.Fatalf("with: %v", err)
	}

	want := base
	want.TechnologySection.YearsOfExperience = "7"
	if diff := cmp.Diff(want, next); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if base.TechnologySection.YearsOfExperience != "" {
		t.Fatalf("original snapshot mutated: %+v", base.TechnologySection)
	}
}

func TestSurveyAnswers_WithTopLevel(t *testing.T) {
	next, err := model.SurveyAnswers{}.With("", model.FieldEmail, "ada@example.com")
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	if next.Email != "ada@example.com" {
		t.Fatalf("email not set: %+v", next)
	}
}

func TestSurveyAnswers_WithRejectsUnknownFields(t *testing.T) {
	cases := []struct {
		section string
		field   string
	}{
		{"", "nickname"},
		{"sportsSection", "favoriteTeam"},
		{model.SectionHealth, model.FieldFavoriteLanguage},
	}
	for _, tc := range cases {
		_, err := model.SurveyAnswers{}.With(tc.section, tc.field, "x")
		if !errors.Is(err, model.ErrUnknownField) {
			t.Fatalf("%s: expected ErrUnknownField, got %v", model.Path(tc.section, tc.field), err)
		}
	}
}

func TestSurveyAnswers_WithRejectsInvalidTopic(t *testing.T) {
	_, err := model.SurveyAnswers{}.With("", model.FieldSurveyTopic, "Sports")
	if !errors.Is(err, model.ErrInvalidTopic) {
		t.Fatalf("expected ErrInvalidTopic, got %v", err)
	}

	next, err := model.SurveyAnswers{SurveyTopic: model.TopicHealth}.With("", model.FieldSurveyTopic, "")
	if err != nil {
		t.Fatalf("clearing topic: %v", err)
	}
	if next.SurveyTopic != model.TopicUnset {
		t.Fatalf("topic not cleared: %q", next.SurveyTopic)
	}
}

func TestSurveyAnswers_ActiveSection(t *testing.T) {
	answers := model.SurveyAnswers{
		SurveyTopic:      model.TopicEducation,
		EducationSection: model.EducationSection{HighestQualification: "PhD", FieldOfStudy: "Mathematics"},
		HealthSection:    model.HealthSection{ExerciseFrequency: "Daily"},
	}

	section := answers.ActiveSection()
	if section == nil {
		t.Fatalf("expected an active section")
	}
	if section.Key() != model.SectionEducation {
		t.Fatalf("active section mismatch: %s", section.Key())
	}
	want := []model.FieldValue{
		{Name: model.FieldHighestQualification, Value: "PhD"},
		{Name: model.FieldFieldOfStudy, Value: "Mathematics"},
	}
	if diff := cmp.Diff(want, section.Values()); diff != "" {
		t.Fatalf("section values mismatch (-want +got):\n%s", diff)
	}

	if (model.SurveyAnswers{}).ActiveSection() != nil {
		t.Fatalf("unset topic should have no active section")
	}
}

func TestDecodeAnswers(t *testing.T) {
	answers, err := model.DecodeAnswers(map[string]any{
		"fullName":    "Grace Hopper",
		"email":       "grace@example.com",
		"surveyTopic": "Technology",
		"technologySection": map[string]any{
			"favoriteLanguage":  "Python",
			"yearsOfExperience": 42,
		},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if answers.TechnologySection.YearsOfExperience != "42" {
		t.Fatalf("expected weakly typed years, got %q", answers.TechnologySection.YearsOfExperience)
	}
	if answers.SurveyTopic != model.TopicTechnology {
		t.Fatalf("topic mismatch: %q", answers.SurveyTopic)
	}
}

func TestDecodeAnswers_Errors(t *testing.T) {
	if _, err := model.DecodeAnswers(map[string]any{"nickname": "x"}); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, err := model.DecodeAnswers(map[string]any{"surveyTopic": "Sports"}); !errors.Is(err, model.ErrInvalidTopic) {
		t.Fatalf("expected ErrInvalidTopic, got %v", err)
	}
}

func TestDecodeValues(t *testing.T) {
	values := url.Values{
		"fullName":                              {"Ada Lovelace"},
		"surveyTopic":                           {"Education"},
		"educationSection.fieldOfStudy":         {"Mathematics"},
		"educationSection.highestQualification": {"PhD"},
		"_action":                               {"submit"},
	}

	answers, err := model.DecodeValues(values)
	if err != nil {
		t.Fatalf("decode values: %v", err)
	}
	want := model.SurveyAnswers{
		FullName:    "Ada Lovelace",
		SurveyTopic: model.TopicEducation,
		EducationSection: model.EducationSection{
			HighestQualification: "PhD",
			FieldOfStudy:         "Mathematics",
		},
	}
	if diff := cmp.Diff(want, answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTopic(t *testing.T) {
	if topic, ok := model.ParseTopic(" health "); !ok || topic != model.TopicHealth {
		t.Fatalf("expected Health, got %q ok=%v", topic, ok)
	}
	if _, ok := model.ParseTopic("Sports"); ok {
		t.Fatalf("expected unknown topic")
	}
}

func TestDefaultCatalog_Lookup(t *testing.T) {
	catalog := model.DefaultCatalog()

	field, ok := catalog.Lookup(model.SectionHealth, model.FieldDietPreference)
	if !ok {
		t.Fatalf("diet preference missing from catalog")
	}
	if diff := cmp.Diff([]string{"Vegetarian", "Vegan", "Non-Vegetarian"}, field.Options); diff != "" {
		t.Fatalf("diet options mismatch (-want +got):\n%s", diff)
	}
	if got := len(catalog.Fields()); got != 11 {
		t.Fatalf("expected 11 catalog fields, got %d", got)
	}
	for _, f := range catalog.Fields() {
		if _, err := (model.SurveyAnswers{}).Get(f.Section, f.Name); err != nil {
			t.Fatalf("catalog field %s not addressable: %v", f.Path(), err)
		}
	}
}
