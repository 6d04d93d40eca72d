package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler fires the daily digest at a fixed local hour. It owns no
// goroutine until Start is called; cancelling the context stops it.
type Scheduler struct {
	digest *Digest
	hour   int
	loc    *time.Location
	logger zerolog.Logger
	now    func() time.Time
}

func NewScheduler(digest *Digest, hour int, loc *time.Location, logger zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		digest: digest,
		hour:   hour,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// nextRun returns the next occurrence of hour:00 strictly after now,
// in the scheduler's zone. time.Date handles DST transitions.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	now = now.In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start blocks until ctx is cancelled, running the digest once per day.
// A failed run is logged and the loop keeps going.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := s.nextRun(s.now())
		s.logger.Info().Time("next_run", next).Msg("daily digest scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("digest scheduler stopped")
			return
		case <-timer.C:
		}

		if _, err := s.digest.Run(ctx, TriggerScheduled); err != nil {
			s.logger.Error().Err(err).Msg("scheduled digest run failed")
		}
	}
}
