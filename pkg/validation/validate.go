package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Messages surfaced to respondents.
const (
	MsgFullNameRequired             = "Full Name is required"
	MsgEmailRequired                = "Email is required"
	MsgEmailInvalid                 = "Email is invalid"
	MsgSurveyTopicRequired          = "Survey Topic is required"
	MsgFavoriteLanguageRequired     = "Favorite Language is required"
	MsgYearsOfExperienceRequired    = "Years of Experience is required"
	MsgExerciseFrequencyRequired    = "Exercise Frequency is required"
	MsgDietPreferenceRequired       = "Diet Preference is required"
	MsgHighestQualificationRequired = "Highest Qualification is required"
	MsgFieldOfStudyRequired         = "Field of Study is required"
	MsgFeedbackTooShort             = "Feedback is required (minimum 50 characters)"
)

// MinFeedbackLength is the minimum trimmed feedback length, in characters.
const MinFeedbackLength = 50

// emailPattern is unanchored: it only needs a non-space local part, an @, and
// a dotted non-space domain somewhere in the input.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Result is the outcome of one validation run.
type Result struct {
	Valid  bool                   `json:"valid"`
	Errors model.ValidationErrors `json:"errors"`
	Fields map[string]string      `json:"fields,omitempty"`
}

// Validate runs every rule against answers.
func Validate(answers model.SurveyAnswers) Result {
	r := &recorder{
		errors: make(model.ValidationErrors),
		fields: make(map[string]string),
	}

	if blank(answers.FullName) {
		r.fail("", model.FieldFullName, MsgFullNameRequired)
	}

	switch {
	case blank(answers.Email):
		r.fail("", model.FieldEmail, MsgEmailRequired)
	case !ValidEmail(answers.Email):
		r.fail("", model.FieldEmail, MsgEmailInvalid)
	}

	if answers.SurveyTopic == model.TopicUnset {
		r.fail("", model.FieldSurveyTopic, MsgSurveyTopicRequired)
	}

	switch answers.SurveyTopic {
	case model.TopicTechnology:
		section := answers.TechnologySection
		if section.FavoriteLanguage == "" {
			r.fail(model.SectionTechnology, model.FieldFavoriteLanguage, MsgFavoriteLanguageRequired)
		}
		if section.YearsOfExperience == "" {
			r.fail(model.SectionTechnology, model.FieldYearsOfExperience, MsgYearsOfExperienceRequired)
		}
	case model.TopicHealth:
		section := answers.HealthSection
		if section.ExerciseFrequency == "" {
			r.fail(model.SectionHealth, model.FieldExerciseFrequency, MsgExerciseFrequencyRequired)
		}
		if section.DietPreference == "" {
			r.fail(model.SectionHealth, model.FieldDietPreference, MsgDietPreferenceRequired)
		}
	case model.TopicEducation:
		section := answers.EducationSection
		if section.HighestQualification == "" {
			r.fail(model.SectionEducation, model.FieldHighestQualification, MsgHighestQualificationRequired)
		}
		if blank(section.FieldOfStudy) {
			r.fail(model.SectionEducation, model.FieldFieldOfStudy, MsgFieldOfStudyRequired)
		}
	}

	if !FeedbackLongEnough(answers.Feedback) {
		r.fail("", model.FieldFeedback, MsgFeedbackTooShort)
	}

	return r.result()
}

// ValidEmail applies the loose email shape check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FeedbackLongEnough reports whether the trimmed feedback reaches
// MinFeedbackLength characters.
func FeedbackLongEnough(feedback string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(feedback)) >= MinFeedbackLength
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

type recorder struct {
	errors model.ValidationErrors
	fields map[string]string
}

// fail records under the group key: the section when one is given, the field
// otherwise. A later failure in the same section replaces the earlier message.
func (r *recorder) fail(section, field, message string) {
	group := field
	if section != "" {
		group = section
	}
	r.errors[group] = message
	r.fields[model.Path(section, field)] = message
}

func (r *recorder) result() Result {
	if len(r.errors) == 0 {
		return Result{Valid: true, Errors: model.ValidationErrors{}}
	}
	return Result{
		Valid:  false,
		Errors: r.errors,
		Fields: r.fields,
	}
}
