package render

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Hidden input names understood by the HTTP front end.
const (
	HiddenRevision = "_revision"
	HiddenIntent   = "_intent"
)

// Form intents carried by HiddenIntent. IntentUpdate applies the posted
// fields without validating them; it is also assumed when no intent is
// posted.
const (
	IntentUpdate = "update"
	IntentSubmit = "submit"
	IntentEdit   = "edit"
)

// ErrUnknownIntent is returned by PostedIntent for values outside the intents.
var ErrUnknownIntent = errors.New("render: unknown form intent")

// PostedIntent reads HiddenIntent from a form post.
func PostedIntent(form url.Values) (string, error) {
	switch intent := strings.TrimSpace(form.Get(HiddenIntent)); intent {
	case "":
		return IntentUpdate, nil
	case IntentUpdate, IntentSubmit, IntentEdit:
		return intent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
}

// PostedRevision reads HiddenRevision from a form post. ok is false when the
// field is absent.
func PostedRevision(form url.Values) (revision uint64, ok bool, err error) {
	raw := strings.TrimSpace(form.Get(HiddenRevision))
	if raw == "" {
		return 0, false, nil
	}
	revision, err = strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("render: invalid %s %q", HiddenRevision, raw)
	}
	return revision, true, nil
}

// HiddenField represents a hidden form input emitted alongside the visible
// fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// RevisionField records the store revision the page was drawn at.
func RevisionField(revision uint64) HiddenField {
	return Hidden(HiddenRevision, revision)
}

// MergeHiddenFields returns base with fields applied. Empty names are
// ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields dedupes fields by name (last wins) and sorts them for
// deterministic rendering.
func SortedHiddenFields(fields []HiddenField) []HiddenField {
	merged := MergeHiddenFields(nil, fields...)
	if len(merged) == 0 {
		return nil
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: merged[name]})
	}
	return result
}
