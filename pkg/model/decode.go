package model

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DecodeAnswers builds SurveyAnswers from loosely typed input such as a decoded
// YAML file. Scalars are coerced to strings (a YAML `yearsOfExperience: 5`
// becomes "5"); unknown keys and invalid topics are errors.
func DecodeAnswers(input map[string]any) (SurveyAnswers, error) {
	var out SurveyAnswers
	if len(input) == 0 {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return SurveyAnswers{}, fmt.Errorf("model: configure decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return SurveyAnswers{}, fmt.Errorf("model: decode answers: %w", err)
	}
	if !out.SurveyTopic.Valid() {
		return SurveyAnswers{}, fmt.Errorf("%w: %q", ErrInvalidTopic, out.SurveyTopic)
	}
	return out, nil
}

// DecodeValues builds SurveyAnswers from a form post whose input names are
// dotted paths (`educationSection.fieldOfStudy`). Only the first value of each
// key is used.
func DecodeValues(values url.Values) (SurveyAnswers, error) {
	nested := make(map[string]any, len(values))
	for key, list := range values {
		if len(list) == 0 || strings.HasPrefix(key, "_") {
			continue
		}
		section, field := SplitPath(key)
		if section == "" {
			nested[field] = list[0]
			continue
		}
		group, ok := nested[section].(map[string]any)
		if !ok {
			group = make(map[string]any, 2)
			nested[section] = group
		}
		group[field] = list[0]
	}
	return DecodeAnswers(nested)
}
