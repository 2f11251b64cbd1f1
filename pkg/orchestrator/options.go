package orchestrator

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/questions"
	"github.com/goliatone/go-surveyform/pkg/store"
)

// RacePolicy decides which fetch result wins when fetches overlap.
type RacePolicy string

const (
	// PolicyTagged applies a result only while its topic is still selected and
	// no newer result has landed. Superseded requests are cancelled.
	PolicyTagged RacePolicy = "tagged"
	// PolicyLastResolved applies every successful result as it arrives, so a
	// slow response for an earlier topic can replace a newer one.
	PolicyLastResolved RacePolicy = "last-resolved"
)

// ParseRacePolicy maps a config value to a policy. Empty selects PolicyTagged.
func ParseRacePolicy(raw string) (RacePolicy, bool) {
	switch RacePolicy(raw) {
	case "", PolicyTagged:
		return PolicyTagged, true
	case PolicyLastResolved:
		return PolicyLastResolved, true
	default:
		return RacePolicy(raw), false
	}
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore injects the state store. Useful when the caller wants to read the
// store directly.
func WithStore(s *store.Store) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithFetcher injects the additional-questions fetcher.
func WithFetcher(fetcher questions.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithObserver registers an Observer for fetch and submit events.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		o.observer = observer
	}
}

// WithRacePolicy selects how overlapping fetches are resolved.
func WithRacePolicy(policy RacePolicy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithFetchTimeout bounds each fetch. Zero leaves fetches unbounded.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.fetchTimeout = timeout
	}
}

// WithCatalog overrides the form catalog handed to renderers.
func WithCatalog(catalog model.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
		o.catalogSet = true
	}
}
