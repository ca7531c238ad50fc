package worker

import (
	"context"
	"time"

	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/jobsearch/scraper/scrapersrv"
	"github.com/jobradar/radar/pkg/logx"
)

type ScrapeWorker struct {
	service *scrapersrv.Service
	queue   scraper.JobQueue
	workers int
}

func NewScrapeWorker(service *scrapersrv.Service, queue scraper.JobQueue, workers int) *ScrapeWorker {
	return &ScrapeWorker{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

func (w *ScrapeWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d scrape workers", w.workers)

	// Start delayed item mover
	go w.moveDelayedItems(ctx)

	// Start worker pool
	for i := 0; i < w.workers; i++ {
		go w.processItems(ctx, i)
	}
}

func (w *ScrapeWorker) processItems(ctx context.Context, workerID int) {
	logx.Infof("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker %d stopping", workerID)
			return
		default:
			// Dequeue with 5 second timeout
			id, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Worker %d dequeue error: %v", workerID, err)
				continue
			}
			if id.IsEmpty() {
				continue // Queue timeout, nothing ready
			}

			logx.Infof("Worker %d processing queue item: %s", workerID, id.String())
			if err := w.service.ProcessQueueItem(ctx, id); err != nil {
				logx.Errorf("Worker %d run failed: %v", workerID, err)
			}
		}
	}
}

func (w *ScrapeWorker) moveDelayedItems(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed items: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed items to ready queue", count)
			}
		}
	}
}
