package scheduler

import (
	"context"
	"errors"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/cycle"
)

const defaultSpec = "@every 1h"

// Scheduler periodically checks whether the active cycle has run out and
// rolls over when it has. It also bootstraps the very first cycle on an
// empty system.
type Scheduler struct {
	cron   *cron.Cron
	cycles cycle.Service
	clock  clock.Clock
}

func New(cycles cycle.Service, clk clock.Clock) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cycles: cycles,
		clock:  clk,
	}
}

func (s *Scheduler) Start() error {
	spec := os.Getenv("ROLLOVER_CRON")
	if spec == "" {
		spec = defaultSpec
	}
	if _, err := s.cron.AddFunc(spec, s.checkRollover); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) checkRollover() {
	ctx := context.Background()
	log := config.WithContext(ctx)

	active, err := s.cycles.Active(ctx)
	if err != nil && !errors.Is(err, cycle.ErrCycleNotFound) {
		log.WithError(err).Error("Scheduler failed to read active cycle")
		return
	}
	if active != nil && s.clock.Now().Before(active.EndDate) {
		return
	}

	next, err := s.cycles.Rollover(ctx)
	if err != nil {
		if errors.Is(err, cycle.ErrNoActiveTemplate) {
			log.Warn("Rollover due but no template is active")
			return
		}
		log.WithError(err).Error("Scheduled rollover failed")
		return
	}
	log.WithField("cycle_name", next.Name).Info("Scheduled rollover completed")
}
