// Package tui fills the survey interactively in a terminal and renders the
// summary as markdown.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// Session is the part of the orchestrator the fill loop drives.
type Session interface {
	HandleField(section, field, value string) error
	Submit() validation.Result
	View() orchestrator.View
	Wait(ctx context.Context) error
}

var _ Session = (*orchestrator.Orchestrator)(nil)

// Filler prompts for every visible field, submits, and repeats with the
// previous answers as defaults until the survey validates.
type Filler struct {
	driver      PromptDriver
	theme       Theme
	maxAttempts int
	logger      *zap.Logger
}

// NewFiller constructs a Filler. Without WithPromptDriver it prompts on the
// process stdio through survey/v2.
func NewFiller(options ...Option) *Filler {
	f := &Filler{
		theme:  Theme{ErrorPrefix: "✗ "},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil, nil, nil)
	}
	return f
}

// Fill runs the prompt loop and returns the view captured after the valid
// submit.
func (f *Filler) Fill(ctx context.Context, session Session) (orchestrator.View, error) {
	if session == nil {
		return orchestrator.View{}, errors.New("tui: session is required")
	}

	for attempt := 1; ; attempt++ {
		if err := f.promptAll(ctx, session); err != nil {
			return orchestrator.View{}, err
		}
		if err := session.Wait(ctx); err != nil {
			return orchestrator.View{}, fmt.Errorf("tui: wait for questions: %w", err)
		}

		result := session.Submit()
		if result.Valid {
			return session.View(), nil
		}

		f.logger.Debug("submit rejected", zap.Int("attempt", attempt), zap.Strings("fields", result.Errors.Keys()))
		for _, key := range result.Errors.Keys() {
			if err := f.driver.Info(ctx, f.theme.ErrorPrefix+result.Errors[key]); err != nil {
				return orchestrator.View{}, err
			}
		}
		if f.maxAttempts > 0 && attempt >= f.maxAttempts {
			return session.View(), ErrTooManyAttempts
		}
	}
}

func (f *Filler) promptAll(ctx context.Context, session Session) error {
	catalog := session.View().Catalog

	for _, field := range catalog.Identity {
		if err := f.promptField(ctx, session, field); err != nil {
			return err
		}
	}
	if err := f.promptField(ctx, session, catalog.Topic); err != nil {
		return err
	}

	// The section shown depends on the topic just chosen.
	if section, ok := catalog.Section(session.View().Answers.SurveyTopic); ok {
		if err := f.driver.Info(ctx, f.theme.InfoPrefix+section.Title); err != nil {
			return err
		}
		for _, field := range section.Fields {
			if err := f.promptField(ctx, session, field); err != nil {
				return err
			}
		}
	}

	return f.promptField(ctx, session, catalog.Feedback)
}

func (f *Filler) promptField(ctx context.Context, session Session, field model.Field) error {
	current, err := session.View().Answers.Get(field.Section, field.Name)
	if err != nil {
		return fmt.Errorf("tui: read %s: %w", field.Path(), err)
	}

	value, err := f.ask(ctx, field, current)
	if err != nil {
		return err
	}
	if err := session.HandleField(field.Section, field.Name, value); err != nil {
		return fmt.Errorf("tui: set %s: %w", field.Path(), err)
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, field model.Field, current string) (string, error) {
	switch field.Kind {
	case model.KindSelect:
		return f.askSelect(ctx, field, current)
	case model.KindTextArea:
		return f.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label,
			Default: current,
			Help:    helpFor(field),
		})
	case model.KindNumber:
		return f.askNumber(ctx, field, current)
	default:
		return f.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current,
			Help:    helpFor(field),
		})
	}
}

func (f *Filler) askSelect(ctx context.Context, field model.Field, current string) (string, error) {
	for {
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current),
			Help:         field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(field.Options) {
			return field.Options[idx], nil
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", f.theme.ErrorPrefix, field.Label)); err != nil {
			return "", err
		}
	}
}

// askNumber accepts blank input so the required check stays with validation.
func (f *Filler) askNumber(ctx context.Context, field model.Field, current string) (string, error) {
	for {
		input, err := f.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current,
			Help:    helpFor(field),
		})
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			return "", nil
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return trimmed, nil
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s%s must be a number", f.theme.ErrorPrefix, field.Label)); err != nil {
			return "", err
		}
	}
}

func helpFor(field model.Field) string {
	if field.Name == model.FieldFeedback {
		return fmt.Sprintf("At least %d characters.", validation.MinFeedbackLength)
	}
	return field.Placeholder
}
