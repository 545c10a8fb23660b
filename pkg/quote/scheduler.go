package quote

import (
	"context"
	"sync"
	"time"

	"base-swap/pkg/types"
)

// Request is one quote input set as the user typed it
type Request struct {
	FromToken  string
	FromAmount string
	ToToken    string
	FeeTier    int64
}

// FetchFunc produces a quote for a request
type FetchFunc func(ctx context.Context, req Request) types.SwapQuote

// PublishFunc receives the quote for the most recent request
type PublishFunc func(req Request, q types.SwapQuote)

// Scheduler debounces quote fetches across rapid input changes. Each
// Submit supersedes anything still pending or in flight: a generation
// counter is checked again after the fetch returns, so a stale response
// that resolves late can never overwrite a newer quote.
type Scheduler struct {
	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	delay   time.Duration
	fetch   FetchFunc
	publish PublishFunc
}

// NewScheduler creates a scheduler with the given debounce delay.
func NewScheduler(delay time.Duration, fetch FetchFunc, publish PublishFunc) *Scheduler {
	return &Scheduler{
		delay:   delay,
		fetch:   fetch,
		publish: publish,
	}
}

// Submit registers a new input set, cancelling any fetch still waiting
// on the debounce timer.
func (s *Scheduler) Submit(ctx context.Context, req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, gen, req)
	})
}

// Stop cancels any pending fetch. In-flight fetches finish but their
// results are discarded on the next Submit's generation check.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) run(ctx context.Context, gen uint64, req Request) {
	if !s.current(gen) {
		return
	}

	result := s.fetch(ctx, req)

	// the input may have changed while the fetch was in flight
	if !s.current(gen) {
		return
	}
	s.publish(req, result)
}

func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}
