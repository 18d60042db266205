package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// RefreshFunc is invoked on every scheduler tick while the session is active.
type RefreshFunc func(ctx context.Context)

// RefreshScheduler periodically triggers an access token refresh while a
// session is active. It is a two-state machine (idle/running): Start arms
// the timer and re-entrant calls re-arm it, Stop disarms and is safe to call
// when already idle.
//
// Ticks are single-flight: a tick firing while a previous refresh is still
// outstanding is skipped, never queued.
type RefreshScheduler struct {
	interval time.Duration
	refresh  RefreshFunc
	log      zerolog.Logger

	lock     sync.Mutex
	cancel   context.CancelFunc
	inFlight atomic.Bool
}

// NewRefreshScheduler creates an idle scheduler with the given tick interval.
func NewRefreshScheduler(interval time.Duration, refresh RefreshFunc, log zerolog.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		interval: interval,
		refresh:  refresh,
		log:      log,
	}
}

// Start transitions the scheduler to running, cancelling any existing timer
// first.
func (s *RefreshScheduler) Start() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.log.Debug().Dur("interval", s.interval).Msg("refresh scheduler started")
	go s.run(ctx)
}

// Stop transitions the scheduler to idle and disarms the timer. A refresh
// already dispatched runs to completion; Stop only prevents future ticks.
func (s *RefreshScheduler) Stop() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.log.Debug().Msg("refresh scheduler stopped")
}

// Running reports whether the timer is armed.
func (s *RefreshScheduler) Running() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.cancel != nil
}

func (s *RefreshScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *RefreshScheduler) tick() {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debug().Msg("refresh still in flight, tick skipped")
		return
	}
	go func() {
		defer s.inFlight.Store(false)
		// The run-loop context only governs the ticker. A dispatched
		// refresh must not be aborted mid-request by Stop.
		s.refresh(context.Background())
	}()
}
