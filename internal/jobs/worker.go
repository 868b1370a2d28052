package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pawhome/pawhome-api/pkg/logger"
)

// Job is a unit of background work
type Job func(ctx context.Context) error

// Worker runs background jobs on a fixed pool of goroutines. Side effects
// that must not block request handling, like notification fan-out and email
// delivery, go through here.
type Worker struct {
	queue     chan Job
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	processed atomic.Int64
	failed    atomic.Int64
}

// NewWorker creates a worker pool with the given number of goroutines
func NewWorker(workerCount, queueSize int) *Worker {
	if workerCount <= 0 {
		workerCount = 5
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		queue:  make(chan Job, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workerCount; i++ {
		w.wg.Add(1)
		go w.run(i)
	}

	return w
}

func (w *Worker) run(id int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			if err := job(w.ctx); err != nil {
				w.failed.Add(1)
				logger.Log.Error("background job failed",
					"worker", id,
					"error", err,
				)
				continue
			}
			w.processed.Add(1)
		}
	}
}

// Enqueue submits a job, blocking if the queue is full.
func (w *Worker) Enqueue(job Job) {
	select {
	case <-w.ctx.Done():
	case w.queue <- job:
	}
}

// EnqueueAsync submits a job without blocking. Returns false if the queue is
// full and the job was dropped.
func (w *Worker) EnqueueAsync(job Job) bool {
	select {
	case w.queue <- job:
		return true
	default:
		logger.Log.Warn("job queue full, dropping job")
		return false
	}
}

// ScheduleEvery runs a job on a fixed interval until shutdown.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				if err := job(w.ctx); err != nil {
					w.failed.Add(1)
					logger.Log.Error("scheduled job failed", "error", err)
					continue
				}
				w.processed.Add(1)
			}
		}
	}()
}

// Shutdown stops accepting jobs and waits for in-flight jobs, up to timeout.
func (w *Worker) Shutdown(timeout time.Duration) {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Log.Info("worker pool stopped",
			"processed", w.processed.Load(),
			"failed", w.failed.Load(),
		)
	case <-time.After(timeout):
		logger.Log.Warn("worker pool shutdown timed out")
	}
}

// Stats returns processed and failed job counts
func (w *Worker) Stats() (processed, failed int64) {
	return w.processed.Load(), w.failed.Load()
}
