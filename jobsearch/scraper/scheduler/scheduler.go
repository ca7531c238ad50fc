// Package scheduler wires the cron job that enqueues scrape runs for
// every active configuration whose frequency says one is owed.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jobradar/radar/jobsearch/scraper/scrapersrv"
	"github.com/jobradar/radar/pkg/logx"
)

type Scheduler struct {
	cron    *cron.Cron
	service *scrapersrv.Service
	spec    string
}

// New creates a Scheduler that checks for due configurations every
// intervalMinutes minutes.
func New(service *scrapersrv.Service, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		spec:    fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the tick and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.enqueueDue(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	logx.Infof("Scheduler started, checking due configurations %s", s.spec)
	return nil
}

// Stop shuts the cron loop down.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logx.Info("Scheduler stopped")
}

// enqueueDue walks the active configurations and enqueues a run for each
// one that is due. Per-configuration failures are logged and skipped so
// one broken configuration cannot starve the rest.
func (s *Scheduler) enqueueDue(ctx context.Context) {
	due, err := s.service.ListDueConfigurations(ctx, time.Now())
	if err != nil {
		logx.Errorf("Scheduler: listing due configurations: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	logx.Infof("Scheduler: %d configurations due", len(due))
	for i := range due {
		if _, err := s.service.EnqueueRun(ctx, due[i].ID, 0, ""); err != nil {
			logx.Errorf("Scheduler: enqueue for config %s: %v", due[i].ID.String(), err)
		}
	}
}
