package testsupport

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fetchReply struct {
	questions []string
	err       error
}

// GatedFetcher is a questions fetcher whose calls block until the test
// releases them, letting tests choose the order responses resolve in.
type GatedFetcher struct {
	mu     sync.Mutex
	calls  []string
	gates  map[string]chan fetchReply
	called chan string
}

// NewGatedFetcher returns an empty GatedFetcher.
func NewGatedFetcher() *GatedFetcher {
	return &GatedFetcher{
		gates:  make(map[string]chan fetchReply),
		called: make(chan string, 64),
	}
}

// Fetch blocks until Release or Fail is called for topic, or ctx ends.
func (g *GatedFetcher) Fetch(ctx context.Context, topic string) ([]string, error) {
	gate := g.gate(topic)

	g.mu.Lock()
	g.calls = append(g.calls, topic)
	g.mu.Unlock()
	g.called <- topic

	select {
	case reply := <-gate:
		return reply.questions, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release resolves one pending call for topic with questions.
func (g *GatedFetcher) Release(topic string, questions ...string) {
	g.gate(topic) <- fetchReply{questions: append([]string{}, questions...)}
}

// Fail resolves one pending call for topic with err.
func (g *GatedFetcher) Fail(topic string, err error) {
	g.gate(topic) <- fetchReply{err: err}
}

// Calls lists the topics fetched so far, in call order.
func (g *GatedFetcher) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.calls...)
}

// AwaitCall waits until a fetch for topic has started.
func (g *GatedFetcher) AwaitCall(t *testing.T, topic string) {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-g.called:
			if got == topic {
				return
			}
		case <-timeout:
			t.Fatalf("fetch for %q never started (calls: %v)", topic, g.Calls())
		}
	}
}

func (g *GatedFetcher) gate(topic string) chan fetchReply {
	g.mu.Lock()
	defer g.mu.Unlock()
	gate, ok := g.gates[topic]
	if !ok {
		gate = make(chan fetchReply, 1)
		g.gates[topic] = gate
	}
	return gate
}
