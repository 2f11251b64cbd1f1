package openapi

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-surveyform/pkg/model"
)

var (
	questionsSchemaOnce sync.Once
	questionsSchema     *openapi3.Schema
)

// QuestionsResponseSchema describes the remote payload: an object whose
// optional `questions` property is a list of strings.
func QuestionsResponseSchema() *openapi3.Schema {
	questionsSchemaOnce.Do(func() {
		list := openapi3.NewArraySchema().
			WithItems(openapi3.NewStringSchema()).
			WithNullable()
		questionsSchema = openapi3.NewObjectSchema().
			WithProperty("questions", list)
	})
	return questionsSchema
}

// ValidateQuestionsPayload checks a JSON-decoded body against
// QuestionsResponseSchema.
func ValidateQuestionsPayload(payload any) error {
	if err := QuestionsResponseSchema().VisitJSON(payload); err != nil {
		return fmt.Errorf("openapi: questions payload: %w", err)
	}
	return nil
}

// AnswersSchema mirrors model.SurveyAnswers.
func AnswersSchema() *openapi3.Schema {
	topics := make([]any, 0, len(model.Topics())+1)
	topics = append(topics, string(model.TopicUnset))
	for _, topic := range model.Topics() {
		topics = append(topics, string(topic))
	}

	section := func(fields ...string) *openapi3.Schema {
		s := openapi3.NewObjectSchema()
		for _, field := range fields {
			s = s.WithProperty(field, openapi3.NewStringSchema())
		}
		return s
	}

	return openapi3.NewObjectSchema().
		WithProperty(model.FieldFullName, openapi3.NewStringSchema()).
		WithProperty(model.FieldEmail, openapi3.NewStringSchema()).
		WithProperty(model.FieldSurveyTopic, openapi3.NewStringSchema().WithEnum(topics...)).
		WithProperty(model.SectionTechnology, section(model.FieldFavoriteLanguage, model.FieldYearsOfExperience)).
		WithProperty(model.SectionHealth, section(model.FieldExerciseFrequency, model.FieldDietPreference)).
		WithProperty(model.SectionEducation, section(model.FieldHighestQualification, model.FieldFieldOfStudy)).
		WithProperty(model.FieldFeedback, openapi3.NewStringSchema())
}

// FieldChangeSchema describes one field edit event.
func FieldChangeSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("section", openapi3.NewStringSchema()).
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("value", openapi3.NewStringSchema()).
		WithRequired([]string{"field", "value"})
}

// ViewSchema describes the JSON view returned by the session endpoints.
func ViewSchema() *openapi3.Schema {
	messages := openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("session", openapi3.NewStringSchema()).
		WithProperty("state", openapi3.NewStringSchema().WithEnum("editing", "summary")).
		WithProperty("answers", AnswersSchema()).
		WithProperty("errors", messages).
		WithProperty("additionalQuestions", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("visibleSection", openapi3.NewStringSchema())
}

// ValidationResultSchema describes validation.Result.
func ValidationResultSchema() *openapi3.Schema {
	messages := openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("valid", openapi3.NewBoolSchema()).
		WithProperty("errors", messages).
		WithProperty("fields", messages)
}
