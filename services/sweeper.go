package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
)

// Sweeper runs the periodic housekeeping jobs: dropping expired token
// revocations, and deleting entries seated for longer than the retention
// window when one is configured.
type Sweeper struct {
	repos     repository.Repositories
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	scheduler gocron.Scheduler

	// Blacklist, when set, has its expired revocations dropped every interval.
	Blacklist interface{ Purge() int }
}

func NewSweeper(repos repository.Repositories, interval, retention time.Duration) *Sweeper {
	return &Sweeper{repos: repos, interval: interval, retention: retention, now: time.Now}
}

// Sweep deletes seated entries older than the retention window and returns
// how many were removed. A zero retention keeps everything.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.retention)
	removed, err := s.repos.Waitlist().DeleteSeatedBefore(ctx, cutoff)
	if err != nil {
		return 0, persistence("sweep seated entries", err)
	}
	if removed > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{
			"removed": removed,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("Swept seated waitlist entries")
	}
	return removed, nil
}

// PurgeRevocations drops expired entries from the blacklist, if one is set.
func (s *Sweeper) PurgeRevocations() int {
	if s.Blacklist == nil {
		return 0
	}
	n := s.Blacklist.Purge()
	if n > 0 {
		utils.InfoLogger.WithField("purged", n).Debug("Purged expired token revocations")
	}
	return n
}

// Start schedules the revocation purge whenever a blacklist is set, and the
// seated-entry sweep only when retention is positive.
func (s *Sweeper) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("sweeper needs a positive interval")
	}
	if s.retention < 0 {
		return fmt.Errorf("sweeper retention cannot be negative")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	if s.Blacklist != nil {
		_, err = scheduler.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(func() { s.PurgeRevocations() }),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return fmt.Errorf("schedule revocation purge: %w", err)
		}
	}

	if s.retention > 0 {
		_, err = scheduler.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), s.interval)
				defer cancel()
				if _, err := s.Sweep(ctx); err != nil {
					utils.ErrorLogger.WithError(err).Error("Seated entry sweep failed")
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return fmt.Errorf("schedule sweep: %w", err)
		}
	}

	scheduler.Start()
	s.scheduler = scheduler
	utils.InfoLogger.WithFields(logrus.Fields{
		"interval":  s.interval.String(),
		"retention": s.retention.String(),
		"jobs":      len(scheduler.Jobs()),
	}).Info("Sweeper started")
	return nil
}

// Jobs reports how many jobs the running scheduler holds.
func (s *Sweeper) Jobs() int {
	if s.scheduler == nil {
		return 0
	}
	return len(s.scheduler.Jobs())
}

func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}
