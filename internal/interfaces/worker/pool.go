package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	jobTracer          = otel.Tracer("caixa/worker")
	jobMeter           = otel.Meter("caixa/worker")
	jobDuration, _     = jobMeter.Float64Histogram("worker.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("worker.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("worker.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

// jobTimeout bounds a single job execution. A sync against a slow
// aggregator should fail, not pin a worker forever.
const jobTimeout = 120 * time.Second

// Job is a unit of background work.
type Job interface {
	// Description names the job for logs and telemetry.
	Description() string
	// UserID identifies the user the job runs for.
	UserID() int64
	// Execute runs the job. The context carries the job timeout.
	Execute(ctx context.Context) error
}

// Pool runs jobs on a fixed set of worker goroutines fed by a buffered
// channel. Submission is non-blocking: when the queue is full the job is
// dropped with an error rather than stalling the caller.
type Pool struct {
	workerCount int
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue size.
func NewPool(workerCount, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workerCount: workerCount,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	log.Printf("Starting worker pool with %d workers", p.workerCount)

	for i := 1; i <= p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return

		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processJob(id, job)
		}
	}
}

func (p *Pool) processJob(workerID int, job Job) {
	log.Printf("Worker %d: processing %s for user %d", workerID, job.Description(), job.UserID())

	ctx, cancel := context.WithTimeout(p.ctx, jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.Int64("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		log.Printf("Worker %d: error processing %s for user %d: %v",
			workerID, job.Description(), job.UserID(), err)
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	log.Printf("Worker %d: completed %s for user %d", workerID, job.Description(), job.UserID())
}

// Submit queues a job for processing. Returns an error when the pool is
// shut down or the queue is full; the job is dropped in both cases.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("worker pool is shut down")
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		log.Printf("Warning: job queue full, dropping %s for user %d", job.Description(), job.UserID())
		return fmt.Errorf("job queue full, dropping job for user %d", job.UserID())
	}
}

// ShutdownWithTimeout closes the queue and waits for in-flight jobs. If
// workers do not finish within the timeout the context is cancelled and
// running jobs are interrupted.
func (p *Pool) ShutdownWithTimeout(timeout time.Duration) {
	log.Printf("Worker pool: initiating graceful shutdown with %v timeout", timeout)

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Worker pool: all workers finished gracefully")
	case <-time.After(timeout):
		log.Println("Worker pool: timeout reached, forcing shutdown")
	}

	p.cancel()
}
