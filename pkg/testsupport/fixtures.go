package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// MustLoadAnswers loads a JSON fixture into SurveyAnswers.
func MustLoadAnswers(t *testing.T, path string) model.SurveyAnswers {
	t.Helper()

	answers, err := LoadAnswers(path)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	return answers
}

// LoadAnswers reads a JSON fixture through model.DecodeAnswers so fixtures go
// through the same checks as submitted payloads.
func LoadAnswers(path string) (model.SurveyAnswers, error) {
	if path == "" {
		return model.SurveyAnswers{}, errors.New("testsupport: answers path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SurveyAnswers{}, fmt.Errorf("testsupport: read answers: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.SurveyAnswers{}, fmt.Errorf("testsupport: unmarshal answers: %w", err)
	}
	answers, err := model.DecodeAnswers(raw)
	if err != nil {
		return model.SurveyAnswers{}, fmt.Errorf("testsupport: decode answers: %w", err)
	}
	return answers, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
