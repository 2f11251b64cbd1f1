package questions

import (
	"context"
	"fmt"
)

// Fetcher retrieves the additional questions for a topic.
type Fetcher interface {
	Fetch(ctx context.Context, topic string) ([]string, error)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, topic string) ([]string, error)

// Fetch calls the underlying function.
func (fn FetcherFunc) Fetch(ctx context.Context, topic string) ([]string, error) {
	return fn(ctx, topic)
}

// Static returns a Fetcher serving fixed lists keyed by topic. Unknown topics
// yield an empty list.
func Static(byTopic map[string][]string) Fetcher {
	return FetcherFunc(func(ctx context.Context, topic string) ([]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Topic: topic, Err: err}
		}
		return append([]string{}, byTopic[topic]...), nil
	})
}

// FetchErrorMessage is the message every fetch failure reports.
const FetchErrorMessage = "failed to fetch additional questions"

// FetchError is returned for every transport, status, or decode failure. The
// message stays generic; the cause is kept for errors.Is/As and logs.
type FetchError struct {
	Topic      string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return FetchErrorMessage
}

// Unwrap exposes the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Detail renders the cause for logs.
func (e *FetchError) Detail() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("topic %q: status %d: %v", e.Topic, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("topic %q: status %d", e.Topic, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("topic %q: %v", e.Topic, e.Err)
	default:
		return fmt.Sprintf("topic %q", e.Topic)
	}
}
