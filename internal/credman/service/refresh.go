package service

import (
	"context"
	"log/slog"
	"time"
)

// RefreshService fires a token refresh once a week at a fixed weekday and
// time-of-day. Each firing is independent: a failed refresh is logged and
// the schedule simply re-arms for the following week.
type RefreshService struct {
	Flow   *FlowService
	Logger *slog.Logger

	// Weekday and At select the firing instant: At is the offset from
	// UTC midnight on Weekday.
	Weekday time.Weekday
	At      time.Duration

	// GrantType is the grant sent on each scheduled refresh.
	GrantType string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

func (s *RefreshService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Start launches the scheduler loop. Call Stop to shut it down.
func (s *RefreshService) Start() {
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run()
}

// Stop signals the loop and blocks until it has exited.
func (s *RefreshService) Stop() {
	if s.stopCh == nil {
		return
	}

	close(s.stopCh)
	<-s.doneCh
}

func (s *RefreshService) run() {
	defer close(s.doneCh)

	for {
		now := s.now()
		next := nextFiring(now, s.Weekday, s.At)

		s.Logger.Info("refresh scheduled", "next_firing", next)

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce()
		}
	}
}

func (s *RefreshService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pair, err := s.Flow.RefreshCurrentToken(ctx, s.GrantType)
	if err != nil {
		s.Logger.Error("scheduled refresh failed", "error", err)
		return
	}

	s.Logger.Info("scheduled refresh succeeded", "expires_in", pair.ExpiresIn)
}

// nextFiring returns the first instant strictly after now that falls on
// weekday at offset from UTC midnight.
func nextFiring(now time.Time, weekday time.Weekday, at time.Duration) time.Time {
	now = now.UTC()

	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	firing := midnight.AddDate(0, 0, days).Add(at)

	if !firing.After(now) {
		firing = firing.AddDate(0, 0, 7)
	}

	return firing
}
