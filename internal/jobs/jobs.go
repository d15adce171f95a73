// Package jobs runs the periodic background work of the API process.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
)

type Completer interface {
	CompleteElapsed(ctx context.Context) (int64, error)
}

type Scheduler struct {
	log   *slog.Logger
	inner gocron.Scheduler
}

// Start schedules booking completion every interval, first run immediately.
// Runs never overlap: a tick that arrives while one is in progress is
// skipped.
func Start(log *slog.Logger, interval time.Duration, c Completer) (*Scheduler, error) {
	const op = "jobs.Start"

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { completeElapsed(log, c, interval) }),
		gocron.WithName("complete-elapsed-bookings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Start()
	log.Info("scheduler started", slog.String("op", op), slog.Duration("completion_interval", interval))
	return &Scheduler{log: log, inner: s}, nil
}

func completeElapsed(log *slog.Logger, c Completer, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := c.CompleteElapsed(ctx); err != nil {
		log.Error("completing elapsed bookings failed", slog.String("op", "jobs.completeElapsed"), sl.Err(err))
	}
}

// Shutdown stops scheduling and waits for a running job to return.
func (s *Scheduler) Shutdown() error {
	if err := s.inner.Shutdown(); err != nil {
		return fmt.Errorf("jobs.Shutdown: %w", err)
	}
	s.log.Info("scheduler stopped")
	return nil
}
