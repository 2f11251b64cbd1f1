// Package metrics exports survey activity as prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
)

const namespace = "surveyform"

// Collector records fetch and submit events. It satisfies
// orchestrator.Observer and is safe for concurrent use.
type Collector struct {
	fetchesStarted  *prometheus.CounterVec
	fetchesFinished *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	sessions        prometheus.Gauge
}

var _ orchestrator.Observer = (*Collector)(nil)

// New creates the collectors and registers them on reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		fetchesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "question_fetches_started_total",
				Help:      "Additional question fetches started, by topic.",
			},
			[]string{"topic"},
		),
		fetchesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "question_fetches_total",
				Help:      "Additional question fetches finished, by topic and outcome.",
			},
			[]string{"topic", "outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "question_fetch_duration_seconds",
				Help:      "Duration of additional question fetches.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"topic"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Survey submits, by validation result.",
			},
			[]string{"result"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Open HTTP survey sessions.",
		}),
	}

	if reg == nil {
		return c, nil
	}
	for _, collector := range []prometheus.Collector{
		c.fetchesStarted, c.fetchesFinished, c.fetchDuration, c.submissions, c.sessions,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

func (c *Collector) FetchStarted(topic model.Topic) {
	c.fetchesStarted.WithLabelValues(string(topic)).Inc()
}

func (c *Collector) FetchFinished(topic model.Topic, outcome orchestrator.FetchOutcome, elapsed time.Duration) {
	c.fetchesFinished.WithLabelValues(string(topic), string(outcome)).Inc()
	c.fetchDuration.WithLabelValues(string(topic)).Observe(elapsed.Seconds())
}

func (c *Collector) Submitted(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	c.submissions.WithLabelValues(result).Inc()
}

// SessionOpened and SessionClosed track the live session count.
func (c *Collector) SessionOpened() { c.sessions.Inc() }
func (c *Collector) SessionClosed() { c.sessions.Dec() }
