package imports

import (
	"context"
	"sync"

	"github.com/mirevents/eventdesk/pkg/logger"
)

// Pool is the fixed-size background worker pool that executes import
// jobs. Uploads return immediately with a job id; the pool bounds how
// many files are reconciled concurrently across all events.
type Pool struct {
	jobs chan int64
	wg   sync.WaitGroup
	logg *logger.Logger

	mu      sync.Mutex
	run     func(ctx context.Context, jobID int64)
	stopped bool
}

// NewPool sizes the queue and worker count; workers below one are
// clamped so a zero-valued config still processes jobs.
func NewPool(workers int, logg *logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		jobs: make(chan int64, workers*8),
		logg: logg,
	}
}

// Start launches the workers. The run function is bound here rather than
// at construction because the import service and the pool reference each
// other: the service enqueues, the pool calls back into Run.
func (p *Pool) Start(ctx context.Context, workers int, run func(ctx context.Context, jobID int64)) {
	p.mu.Lock()
	p.run = run
	p.mu.Unlock()

	if workers < 1 {
		workers = 1
	}
	p.logg.Info(p.logg.WithField(ctx, "workers", workers), "import worker pool started")
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case jobID, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(ctx, jobID)
		}
	}
}

// Enqueue hands a job to the pool. A full queue blocks the caller; the
// upload rate limiter bounds how often that can happen. The send happens
// under the lock so Stop cannot close the channel between the stopped
// check and the send.
func (p *Pool) Enqueue(jobID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.jobs <- jobID
}

// Stop drains the queue and waits for in-flight jobs.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	close(p.jobs)
	p.wg.Wait()
}
