package model

import (
	"errors"
	"sort"
)

var (
	// ErrUnknownField reports a section/field pair the survey does not define.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrInvalidTopic reports a topic value outside the enumeration.
	ErrInvalidTopic = errors.New("model: invalid survey topic")
)

// ValidationErrors maps a field group (top-level field key or section key) to
// a single message. Sections share one slot.
type ValidationErrors map[string]string

// Has reports whether key carries a message.
func (e ValidationErrors) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Keys returns the populated keys sorted for deterministic output.
func (e ValidationErrors) Keys() []string {
	if len(e) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy; nil stays nil.
func (e ValidationErrors) Clone() ValidationErrors {
	if e == nil {
		return nil
	}
	out := make(ValidationErrors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}
