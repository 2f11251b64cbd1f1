package model

import "fmt"

// Top-level field keys.
const (
	FieldFullName    = "fullName"
	FieldEmail       = "email"
	FieldSurveyTopic = "surveyTopic"
	FieldFeedback    = "feedback"
)

// Section keys.
const (
	SectionTechnology = "technologySection"
	SectionHealth     = "healthSection"
	SectionEducation  = "educationSection"
)

// Section field keys.
const (
	FieldFavoriteLanguage     = "favoriteLanguage"
	FieldYearsOfExperience    = "yearsOfExperience"
	FieldExerciseFrequency    = "exerciseFrequency"
	FieldDietPreference       = "dietPreference"
	FieldHighestQualification = "highestQualification"
	FieldFieldOfStudy         = "fieldOfStudy"
)

// SurveyAnswers is the in-progress survey. It is a plain value: copies never
// share state, so a snapshot handed to a renderer is unaffected by later edits.
type SurveyAnswers struct {
	FullName          string            `json:"fullName" mapstructure:"fullName"`
	Email             string            `json:"email" mapstructure:"email"`
	SurveyTopic       Topic             `json:"surveyTopic" mapstructure:"surveyTopic"`
	TechnologySection TechnologySection `json:"technologySection" mapstructure:"technologySection"`
	HealthSection     HealthSection     `json:"healthSection" mapstructure:"healthSection"`
	EducationSection  EducationSection  `json:"educationSection" mapstructure:"educationSection"`
	Feedback          string            `json:"feedback" mapstructure:"feedback"`
}

type TechnologySection struct {
	FavoriteLanguage  string `json:"favoriteLanguage" mapstructure:"favoriteLanguage"`
	YearsOfExperience string `json:"yearsOfExperience" mapstructure:"yearsOfExperience"`
}

type HealthSection struct {
	ExerciseFrequency string `json:"exerciseFrequency" mapstructure:"exerciseFrequency"`
	DietPreference    string `json:"dietPreference" mapstructure:"dietPreference"`
}

type EducationSection struct {
	HighestQualification string `json:"highestQualification" mapstructure:"highestQualification"`
	FieldOfStudy         string `json:"fieldOfStudy" mapstructure:"fieldOfStudy"`
}

// FieldValue pairs a field key with its current value.
type FieldValue struct {
	Name  string
	Value string
}

// Section is the read-only view of one topic group.
type Section interface {
	Key() string
	Topic() Topic
	Values() []FieldValue
}

func (s TechnologySection) Key() string  { return SectionTechnology }
func (s TechnologySection) Topic() Topic { return TopicTechnology }
func (s TechnologySection) Values() []FieldValue {
	return []FieldValue{
		{Name: FieldFavoriteLanguage, Value: s.FavoriteLanguage},
		{Name: FieldYearsOfExperience, Value: s.YearsOfExperience},
	}
}

func (s HealthSection) Key() string  { return SectionHealth }
func (s HealthSection) Topic() Topic { return TopicHealth }
func (s HealthSection) Values() []FieldValue {
	return []FieldValue{
		{Name: FieldExerciseFrequency, Value: s.ExerciseFrequency},
		{Name: FieldDietPreference, Value: s.DietPreference},
	}
}

func (s EducationSection) Key() string  { return SectionEducation }
func (s EducationSection) Topic() Topic { return TopicEducation }
func (s EducationSection) Values() []FieldValue {
	return []FieldValue{
		{Name: FieldHighestQualification, Value: s.HighestQualification},
		{Name: FieldFieldOfStudy, Value: s.FieldOfStudy},
	}
}

// ActiveSection returns the section gated by SurveyTopic, or nil when the
// topic is unset or unknown.
func (a SurveyAnswers) ActiveSection() Section {
	switch a.SurveyTopic {
	case TopicTechnology:
		return a.TechnologySection
	case TopicHealth:
		return a.HealthSection
	case TopicEducation:
		return a.EducationSection
	default:
		return nil
	}
}

// Get reads a field. An empty section addresses the top-level fields.
func (a SurveyAnswers) Get(section, field string) (string, error) {
	ptr, err := a.lookup(section, field)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// With returns a copy of a with one field replaced. An empty section addresses
// the top-level fields; sibling groups are carried over untouched. Topic values
// outside the enumeration are rejected with ErrInvalidTopic.
func (a SurveyAnswers) With(section, field, value string) (SurveyAnswers, error) {
	if section == "" && field == FieldSurveyTopic {
		topic := Topic(value)
		if !topic.Valid() {
			return a, fmt.Errorf("%w: %q", ErrInvalidTopic, value)
		}
		a.SurveyTopic = topic
		return a, nil
	}
	ptr, err := a.lookup(section, field)
	if err != nil {
		return a, err
	}
	*ptr = value
	return a, nil
}

// lookup works on the receiver copy; callers of With return that copy.
func (a *SurveyAnswers) lookup(section, field string) (*string, error) {
	switch section {
	case "":
		switch field {
		case FieldFullName:
			return &a.FullName, nil
		case FieldEmail:
			return &a.Email, nil
		case FieldSurveyTopic:
			return (*string)(&a.SurveyTopic), nil
		case FieldFeedback:
			return &a.Feedback, nil
		}
	case SectionTechnology:
		switch field {
		case FieldFavoriteLanguage:
			return &a.TechnologySection.FavoriteLanguage, nil
		case FieldYearsOfExperience:
			return &a.TechnologySection.YearsOfExperience, nil
		}
	case SectionHealth:
		switch field {
		case FieldExerciseFrequency:
			return &a.HealthSection.ExerciseFrequency, nil
		case FieldDietPreference:
			return &a.HealthSection.DietPreference, nil
		}
	case SectionEducation:
		switch field {
		case FieldHighestQualification:
			return &a.EducationSection.HighestQualification, nil
		case FieldFieldOfStudy:
			return &a.EducationSection.FieldOfStudy, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, Path(section, field))
}

// Path joins a section and field into the dotted identifier used for error
// keys and form input names.
func Path(section, field string) string {
	if section == "" {
		return field
	}
	return section + "." + field
}

// SplitPath is the inverse of Path.
func SplitPath(path string) (section, field string) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:]
		}
	}
	return "", path
}
