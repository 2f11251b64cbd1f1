// Package store holds the in-progress survey answers and the additional
// questions fetched for the current topic.
package store

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Change describes the effect of one UpdateField call.
type Change struct {
	Changed      bool
	TopicChanged bool
	Topic        model.Topic
	Revision     uint64
}

// Ticket tags one questions fetch with the order it was issued in and the
// topic it was issued for.
type Ticket struct {
	Seq   uint64
	Topic model.Topic
}

// Store is safe for concurrent use. Reads return copies; callers never share
// memory with the store.
type Store struct {
	mu        sync.RWMutex
	answers   model.SurveyAnswers
	questions []string
	revision  uint64
	issued    uint64
	applied   uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{questions: []string{}}
}

// Answers returns a snapshot of the current answers.
func (s *Store) Answers() model.SurveyAnswers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers
}

// AdditionalQuestions returns a copy of the current questions list.
func (s *Store) AdditionalQuestions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.questions...)
}

// Revision increments on every accepted field change and questions update.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// UpdateField writes value into section.field, or into the top-level field
// when section is empty. Writing the current value again is a no-op.
func (s *Store) UpdateField(section, field, value string) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.answers.Get(section, field)
	if err != nil {
		return Change{}, fmt.Errorf("store: update field: %w", err)
	}
	if current == value {
		return Change{Topic: s.answers.SurveyTopic, Revision: s.revision}, nil
	}

	next, err := s.answers.With(section, field, value)
	if err != nil {
		return Change{}, fmt.Errorf("store: update field: %w", err)
	}

	topicChanged := next.SurveyTopic != s.answers.SurveyTopic
	s.answers = next
	s.revision++

	return Change{
		Changed:      true,
		TopicChanged: topicChanged,
		Topic:        next.SurveyTopic,
		Revision:     s.revision,
	}, nil
}

// SetAdditionalQuestions replaces the questions list unconditionally.
func (s *Store) SetAdditionalQuestions(list []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuestions(list)
}

// BeginFetch issues the ticket for a fetch about to start for topic.
func (s *Store) BeginFetch(topic model.Topic) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Ticket{Seq: s.issued, Topic: topic}
}

// ApplyFetch stores list only if the ticket's topic is still the current topic
// and no newer ticket has been applied. It reports whether list was stored.
func (s *Store) ApplyFetch(ticket Ticket, list []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.Topic != s.answers.SurveyTopic || ticket.Seq <= s.applied {
		return false
	}
	s.applied = ticket.Seq
	s.setQuestions(list)
	return true
}

// Current reports whether ticket is the most recently issued one.
func (s *Store) Current(ticket Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ticket.Seq == s.issued
}

func (s *Store) setQuestions(list []string) {
	s.questions = append([]string{}, list...)
	s.revision++
}
