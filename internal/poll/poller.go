// Package poll keeps server-backed collections fresh across devices by
// re-fetching them on a fixed interval for as long as a view is mounted.
// There is no incremental merge: every result replaces the previous one, and
// when fetches overlap the last response to arrive wins.
package poll

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval matches the auto-refresh cadence of the finance views.
const DefaultInterval = 15 * time.Second

// Fetcher is the slice of the request gateway a subscription needs.
type Fetcher interface {
	GetRaw(ctx context.Context, path string) (json.RawMessage, error)
}

// Controller owns all active poll subscriptions, at most one per view key.
type Controller struct {
	fetcher Fetcher
	log     zerolog.Logger

	mu     sync.Mutex
	byView map[string]*Subscription
}

func NewController(fetcher Fetcher, log zerolog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		log:     log,
		byView:  make(map[string]*Subscription),
	}
}

// Subscribe starts a recurring fetch of path for the given view: once
// immediately, then every interval until canceled. A prior subscription for
// the same view is canceled first, so a remounting view cannot leak loops.
// onUpdate receives the raw collection body and fully replaces prior state.
func (c *Controller) Subscribe(view, path string, interval time.Duration, onUpdate func(json.RawMessage)) *Subscription {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		path:     path,
		cancel:   cancel,
		onUpdate: onUpdate,
	}

	c.mu.Lock()
	if prev, ok := c.byView[view]; ok {
		prev.Cancel()
	}
	c.byView[view] = sub
	c.mu.Unlock()

	go c.run(ctx, sub, interval)
	return sub
}

// CancelAll cancels every active subscription, e.g. on logout or shutdown.
func (c *Controller) CancelAll() {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.byView))
	for _, s := range c.byView {
		subs = append(subs, s)
	}
	c.byView = make(map[string]*Subscription)
	c.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

func (c *Controller) run(ctx context.Context, sub *Subscription, interval time.Duration) {
	// Every fetch runs in its own goroutine: an in-flight fetch that outlives
	// the interval is not canceled, and no deduplication is applied.
	go c.fetchOnce(ctx, sub)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go c.fetchOnce(ctx, sub)
		}
	}
}

// fetchOnce performs one fetch and delivers the result. Failures are logged
// and swallowed: the subscription skips the cycle and keeps polling. A 401 is
// already handled globally by the gateway before it reaches here.
func (c *Controller) fetchOnce(ctx context.Context, sub *Subscription) {
	data, err := c.fetcher.GetRaw(ctx, sub.path)
	if err != nil {
		c.log.Warn().Err(err).Str("path", sub.path).Msg("poll fetch failed, skipping cycle")
		return
	}
	sub.deliver(data)
}

// Subscription is one active recurring fetch bound to a mounted view.
type Subscription struct {
	path   string
	cancel context.CancelFunc

	mu       sync.Mutex
	canceled bool
	onUpdate func(json.RawMessage)
}

// Cancel stops the subscription synchronously: once it returns, onUpdate will
// not be invoked again, even by a fetch that was already in flight.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Subscription) deliver(data json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.onUpdate(data)
}
