package fetch

import (
	"context"
	"sync/atomic"
)

// Counter wraps a Getter and counts requests and failures.
// Each domain gets its own Counter so its numbers stay separate even when
// several domains share one Fetcher.
type Counter struct {
	next     Getter
	requests atomic.Int64
	failures atomic.Int64
}

// NewCounter returns a Counter in front of next.
func NewCounter(next Getter) *Counter {
	return &Counter{next: next}
}

// Fetch implements Getter.
func (c *Counter) Fetch(ctx context.Context, endpoint string, segments ...string) (any, error) {
	c.requests.Add(1)
	v, err := c.next.Fetch(ctx, endpoint, segments...)
	if err != nil {
		c.failures.Add(1)
	}
	return v, err
}

// Requests returns the number of Fetch calls made so far.
func (c *Counter) Requests() int64 {
	return c.requests.Load()
}

// Failures returns the number of Fetch calls that returned an error.
func (c *Counter) Failures() int64 {
	return c.failures.Load()
}
