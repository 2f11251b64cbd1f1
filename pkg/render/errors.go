package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// ErrorMapping splits validation errors into messages per dotted field path
// and messages that belong to no field.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// For returns the message for a field path.
func (m ErrorMapping) For(path string) string {
	return m.Fields[path]
}

// MapErrors spreads validation errors onto catalog fields. A section key maps
// onto every field of that section, so each control shows the shared message.
// Keys that match nothing become form-level messages.
func MapErrors(catalog model.Catalog, errs model.ValidationErrors) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string]string)}
	if len(errs) == 0 {
		return mapping
	}

	sections := make(map[string][]string)
	topLevel := make(map[string]struct{})
	for _, field := range catalog.Fields() {
		if field.Section == "" {
			topLevel[field.Name] = struct{}{}
			continue
		}
		sections[field.Section] = append(sections[field.Section], field.Path())
	}

	for _, key := range errs.Keys() {
		message := strings.TrimSpace(errs[key])
		if message == "" {
			continue
		}
		if paths, ok := sections[key]; ok {
			for _, path := range paths {
				mapping.Fields[path] = message
			}
			continue
		}
		if _, ok := topLevel[key]; ok {
			mapping.Fields[key] = message
			continue
		}
		mapping.Form = append(mapping.Form, message)
	}

	sort.Strings(mapping.Form)
	return mapping
}
