package session

import (
	"sync"
	"time"
)

// scheduler owns every timer the session uses: the periodic sampling ticker
// and the one-shot phase delays. Centralizing them here means any phase exit
// can cancel all pending suspension points in one place.
type scheduler struct {
	sink func(event)

	mu     sync.Mutex
	ticker *time.Ticker
	quit   chan struct{}
	timers map[*time.Timer]struct{}
	closed bool
}

func newScheduler(sink func(event)) *scheduler {
	return &scheduler{
		sink:   sink,
		timers: make(map[*time.Timer]struct{}),
	}
}

// StartTicker begins delivering tickFired events at the given interval,
// replacing any running ticker.
func (s *scheduler) StartTicker(interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTickerLocked()

	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	s.ticker = ticker
	s.quit = quit

	go func() {
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				s.sink(tickFired{})
			}
		}
	}()
}

// StopTicker cancels the periodic sampling tick.
func (s *scheduler) StopTicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTickerLocked()
}

func (s *scheduler) stopTickerLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.quit != nil {
		close(s.quit)
		s.quit = nil
	}
}

// After delivers ev once the delay elapses. Stale deliveries are harmless;
// the transition function drops events whose epoch no longer matches.
func (s *scheduler) After(delay time.Duration, ev event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, timer)
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			s.sink(ev)
		}
	})
	s.timers[timer] = struct{}{}
	s.mu.Unlock()
}

// Shutdown stops the ticker and cancels every pending delay.
func (s *scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTickerLocked()
	for timer := range s.timers {
		timer.Stop()
		delete(s.timers, timer)
	}
}
