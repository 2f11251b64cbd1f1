package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/questions"
	"github.com/goliatone/go-surveyform/pkg/store"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// State is the observable form state.
type State string

const (
	StateEditing      State = "editing"
	StateSummaryShown State = "summary"
)

// Orchestrator coordinates one survey form. Field edits from a single front
// end are expected to be serialised by the caller; fetch completions run on
// their own goroutines and are safe against concurrent edits.
type Orchestrator struct {
	store        *store.Store
	fetcher      questions.Fetcher
	logger       *zap.Logger
	observer     Observer
	policy       RacePolicy
	fetchTimeout time.Duration
	catalog      model.Catalog
	catalogSet   bool

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	state    State
	errors   model.ValidationErrors
	inflight context.CancelFunc
	closed   bool
}

// New constructs an Orchestrator. Missing dependencies fall back to an empty
// store, an HTTP client against questions.DefaultURLTemplate, a no-op logger,
// and PolicyTagged.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		state:  StateEditing,
		errors: model.ValidationErrors{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	o.base, o.stop = context.WithCancel(context.Background())
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.store == nil {
		o.store = store.New()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.fetcher == nil {
		client, err := questions.NewClient(questions.WithLogger(o.logger))
		if err != nil {
			o.logger.Error("default questions client", zap.Error(err))
			o.fetcher = questions.Static(nil)
		} else {
			o.fetcher = client
		}
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if policy, ok := ParseRacePolicy(string(o.policy)); ok {
		o.policy = policy
	} else {
		o.logger.Warn("unknown race policy, using tagged", zap.String("policy", string(o.policy)))
		o.policy = PolicyTagged
	}
	if !o.catalogSet {
		o.catalog = model.DefaultCatalog()
	}
}

// Store exposes the underlying state store.
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

// State reports the current form state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Errors returns the messages from the latest submit.
func (o *Orchestrator) Errors() model.ValidationErrors {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errors.Clone()
}

// HandleField applies one edit. Selecting a new, non-empty topic starts a
// fetch for that topic. Edits never run validation.
func (o *Orchestrator) HandleField(section, field, value string) error {
	change, err := o.store.UpdateField(section, field, value)
	if err != nil {
		return err
	}
	if change.TopicChanged && change.Topic != model.TopicUnset {
		o.startFetch(change.Topic)
	}
	return nil
}

// Submit validates the current answers and replaces the visible errors with
// the result. A valid submit reveals the summary; once shown, the summary
// stays shown until Edit is called.
func (o *Orchestrator) Submit() validation.Result {
	result := validation.Validate(o.store.Answers())

	o.mu.Lock()
	o.errors = result.Errors.Clone()
	if result.Valid {
		o.state = StateSummaryShown
	}
	state := o.state
	o.mu.Unlock()

	if result.Valid {
		o.logger.Info("survey submitted", zap.String("state", string(state)))
	} else {
		o.logger.Warn("survey validation failed",
			zap.Strings("fields", result.Errors.Keys()),
			zap.String("state", string(state)),
		)
	}
	o.observer.Submitted(result.Valid)
	return result
}

// Edit hides the summary and returns to StateEditing. It reports whether the
// state changed.
func (o *Orchestrator) Edit() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateSummaryShown {
		return false
	}
	o.state = StateEditing
	return true
}

// View captures everything a renderer needs.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	state := o.state
	errs := o.errors.Clone()
	o.mu.Unlock()

	answers := o.store.Answers()
	return View{
		State:               state,
		Answers:             answers,
		Errors:              errs,
		AdditionalQuestions: o.store.AdditionalQuestions(),
		VisibleSection:      answers.SurveyTopic.Section(),
		Catalog:             o.catalog,
		Revision:            o.store.Revision(),
	}
}

// Wait blocks until every in-flight fetch has finished or ctx ends.
// When ctx ends first, the goroutine watching the fetches lingers until they
// finish; Close cancels them and so releases it.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels in-flight fetches and waits for their goroutines to exit.
// Edits after Close still apply but no longer start fetches.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.stop()
	o.wg.Wait()
}

func (o *Orchestrator) startFetch(topic model.Topic) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	ticket := o.store.BeginFetch(topic)
	ctx, cancel := context.WithCancel(o.base)
	if o.fetchTimeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, o.fetchTimeout)
		parent := cancel
		cancel = func() {
			timeoutCancel()
			parent()
		}
	}
	if o.policy == PolicyTagged && o.inflight != nil {
		o.inflight()
	}
	o.inflight = cancel
	o.wg.Add(1)
	o.mu.Unlock()

	o.observer.FetchStarted(topic)
	o.logger.Debug("fetching additional questions", zap.String("topic", string(topic)))

	go func() {
		defer o.wg.Done()
		defer cancel()

		started := time.Now()
		list, err := o.fetcher.Fetch(ctx, string(topic))
		outcome := o.finishFetch(ticket, list, err)
		o.observer.FetchFinished(topic, outcome, time.Since(started))
	}()
}

func (o *Orchestrator) finishFetch(ticket store.Ticket, list []string, err error) FetchOutcome {
	topic := zap.String("topic", string(ticket.Topic))

	if err != nil {
		if errors.Is(err, context.Canceled) && (o.base.Err() != nil || !o.store.Current(ticket)) {
			o.logger.Debug("additional questions fetch cancelled", topic)
			return OutcomeCanceled
		}
		fields := []zap.Field{topic, zap.Error(err)}
		var fetchErr *questions.FetchError
		if errors.As(err, &fetchErr) {
			fields = append(fields, zap.String("detail", fetchErr.Detail()))
		}
		o.logger.Warn("failed to fetch additional questions", fields...)
		return OutcomeFailed
	}

	if o.policy == PolicyLastResolved {
		o.store.SetAdditionalQuestions(list)
		return OutcomeApplied
	}
	if !o.store.ApplyFetch(ticket, list) {
		o.logger.Debug("discarding stale additional questions", topic)
		return OutcomeDiscarded
	}
	return OutcomeApplied
}
