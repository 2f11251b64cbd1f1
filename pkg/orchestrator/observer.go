package orchestrator

import (
	"time"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// FetchOutcome classifies how a fetch ended.
type FetchOutcome string

const (
	OutcomeApplied   FetchOutcome = "applied"
	OutcomeDiscarded FetchOutcome = "discarded"
	OutcomeFailed    FetchOutcome = "failed"
	OutcomeCanceled  FetchOutcome = "canceled"
)

// Observer receives orchestration events. Implementations must be safe for
// concurrent use; fetch events arrive from fetch goroutines.
type Observer interface {
	FetchStarted(topic model.Topic)
	FetchFinished(topic model.Topic, outcome FetchOutcome, elapsed time.Duration)
	Submitted(valid bool)
}

type nopObserver struct{}

func (nopObserver) FetchStarted(model.Topic)                               {}
func (nopObserver) FetchFinished(model.Topic, FetchOutcome, time.Duration) {}
func (nopObserver) Submitted(bool)                                         {}
