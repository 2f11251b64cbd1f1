package model

// FieldKind tells renderers which control to draw.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindTextArea FieldKind = "textarea"
)

// Field describes one input of the survey form.
type Field struct {
	Section     string    `json:"section,omitempty"`
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Required    bool      `json:"required"`
}

// Path returns the dotted identifier for the field.
func (f Field) Path() string {
	return Path(f.Section, f.Name)
}

// SectionInfo groups the fields gated by one topic.
type SectionInfo struct {
	Key    string  `json:"key"`
	Topic  Topic   `json:"topic"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Catalog is the ordered description of the whole form.
type Catalog struct {
	Identity []Field       `json:"identity"`
	Topic    Field         `json:"topic"`
	Sections []SectionInfo `json:"sections"`
	Feedback Field         `json:"feedback"`
}

// Section returns the section gated by topic.
func (c Catalog) Section(topic Topic) (SectionInfo, bool) {
	for _, section := range c.Sections {
		if section.Topic == topic {
			return section, true
		}
	}
	return SectionInfo{}, false
}

// Lookup finds a field descriptor by section and name.
func (c Catalog) Lookup(section, name string) (Field, bool) {
	for _, field := range c.Fields() {
		if field.Section == section && field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Fields flattens the catalog in display order, including every section.
func (c Catalog) Fields() []Field {
	out := make([]Field, 0, 8)
	out = append(out, c.Identity...)
	out = append(out, c.Topic)
	for _, section := range c.Sections {
		out = append(out, section.Fields...)
	}
	out = append(out, c.Feedback)
	return out
}

// DefaultCatalog returns the survey form definition.
func DefaultCatalog() Catalog {
	topics := make([]string, 0, len(Topics()))
	for _, topic := range Topics() {
		topics = append(topics, string(topic))
	}

	return Catalog{
		Identity: []Field{
			{Name: FieldFullName, Label: "Full Name", Kind: KindText, Required: true},
			{Name: FieldEmail, Label: "Email", Kind: KindEmail, Required: true},
		},
		Topic: Field{
			Name:        FieldSurveyTopic,
			Label:       "Survey Topic",
			Kind:        KindSelect,
			Placeholder: "Select Survey Topic",
			Options:     topics,
			Required:    true,
		},
		Sections: []SectionInfo{
			{
				Key:   SectionTechnology,
				Topic: TopicTechnology,
				Title: "Technology Section",
				Fields: []Field{
					{
						Section:     SectionTechnology,
						Name:        FieldFavoriteLanguage,
						Label:       "Favorite Programming Language",
						Kind:        KindSelect,
						Placeholder: "Select Language",
						Options:     []string{"JavaScript", "Python", "Java", "C#"},
						Required:    true,
					},
					{Section: SectionTechnology, Name: FieldYearsOfExperience, Label: "Years of Experience", Kind: KindNumber, Required: true},
				},
			},
			{
				Key:   SectionHealth,
				Topic: TopicHealth,
				Title: "Health Section",
				Fields: []Field{
					{
						Section:     SectionHealth,
						Name:        FieldExerciseFrequency,
						Label:       "Exercise Frequency",
						Kind:        KindSelect,
						Placeholder: "Select Frequency",
						Options:     []string{"Daily", "Weekly", "Monthly", "Rarely"},
						Required:    true,
					},
					{
						Section:     SectionHealth,
						Name:        FieldDietPreference,
						Label:       "Diet Preference",
						Kind:        KindSelect,
						Placeholder: "Select Diet",
						Options:     []string{"Vegetarian", "Vegan", "Non-Vegetarian"},
						Required:    true,
					},
				},
			},
			{
				Key:   SectionEducation,
				Topic: TopicEducation,
				Title: "Education Section",
				Fields: []Field{
					{
						Section:     SectionEducation,
						Name:        FieldHighestQualification,
						Label:       "Highest Qualification",
						Kind:        KindSelect,
						Placeholder: "Select Qualification",
						Options:     []string{"High School", "Bachelor's", "Master's", "PhD"},
						Required:    true,
					},
					{Section: SectionEducation, Name: FieldFieldOfStudy, Label: "Field of Study", Kind: KindText, Required: true},
				},
			},
		},
		Feedback: Field{Name: FieldFeedback, Label: "Feedback", Kind: KindTextArea, Required: true},
	}
}
