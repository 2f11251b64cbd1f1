package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// errInvalidAnswers makes the process exit 1 after the report was printed.
var errInvalidAnswers = errors.New("answers are invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <answers.yaml|answers.json>",
		Short: "Validate an answers file",
		Long:  `Reads survey answers from a YAML or JSON file, applies the submit rules and reports every failing section.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(args[0])
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), validation.Validate(answers))
		},
	}
}

// readAnswers decodes a YAML file; JSON parses as YAML too.
func readAnswers(path string) (model.SurveyAnswers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SurveyAnswers{}, fmt.Errorf("validate: read %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return model.SurveyAnswers{}, fmt.Errorf("validate: parse %s: %w", path, err)
	}
	answers, err := model.DecodeAnswers(raw)
	if err != nil {
		return model.SurveyAnswers{}, fmt.Errorf("validate: %s: %w", path, err)
	}
	return answers, nil
}

func report(w io.Writer, result validation.Result) error {
	if result.Valid {
		fmt.Fprintln(w, "Answers are valid ✅")
		return nil
	}
	fmt.Fprintln(w, "Answers are invalid:")
	for _, key := range result.Errors.Keys() {
		fmt.Fprintf(w, "  %s: %s\n", key, result.Errors[key])
	}
	return errInvalidAnswers
}
