package questions

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Shared collapses concurrent fetches for the same topic into one call to the
// wrapped Fetcher. The upstream call is detached from cancellation of
// individual callers, so a caller that gives up does not cancel the request
// for the others. It keeps the deadline of the caller that started it.
type Shared struct {
	next  Fetcher
	group singleflight.Group
}

var _ Fetcher = (*Shared)(nil)

// NewShared wraps next.
func NewShared(next Fetcher) *Shared {
	return &Shared{next: next}
}

// Fetch joins or starts the upstream call for topic and waits for it or for
// ctx to end.
func (s *Shared) Fetch(ctx context.Context, topic string) ([]string, error) {
	ch := s.group.DoChan(topic, func() (any, error) {
		upstream := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			upstream, cancel = context.WithDeadline(upstream, deadline)
			defer cancel()
		}
		return s.next.Fetch(upstream, topic)
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{Topic: topic, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		list, _ := res.Val.([]string)
		return append([]string{}, list...), nil
	}
}
