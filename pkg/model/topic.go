package model

import "strings"

// Topic is the survey category chosen by the respondent.
type Topic string

const (
	TopicUnset      Topic = ""
	TopicTechnology Topic = "Technology"
	TopicHealth     Topic = "Health"
	TopicEducation  Topic = "Education"
)

// Topics lists the selectable topics in display order.
func Topics() []Topic {
	return []Topic{TopicTechnology, TopicHealth, TopicEducation}
}

// Valid reports whether t is one of the selectable topics or unset.
func (t Topic) Valid() bool {
	switch t {
	case TopicUnset, TopicTechnology, TopicHealth, TopicEducation:
		return true
	default:
		return false
	}
}

// Section returns the section key gated by the topic, or "" when unset.
func (t Topic) Section() string {
	switch t {
	case TopicTechnology:
		return SectionTechnology
	case TopicHealth:
		return SectionHealth
	case TopicEducation:
		return SectionEducation
	default:
		return ""
	}
}

func (t Topic) String() string {
	return string(t)
}

// ParseTopic matches raw against the known topics, ignoring surrounding
// whitespace and case. Unknown values return false.
func ParseTopic(raw string) (Topic, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TopicUnset, true
	}
	for _, topic := range Topics() {
		if strings.EqualFold(trimmed, string(topic)) {
			return topic, true
		}
	}
	return Topic(raw), false
}
