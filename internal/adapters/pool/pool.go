// Package pool runs aggregation jobs on a bounded worker pool with a
// per-job deadline.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halfspace-analytics/halfspace/internal/domain/aggregate"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultTaskTimeout = 30 * time.Second
)

// task is one queued job execution.
type task struct {
	id   string
	name string
	ctx  context.Context
	run  func(ctx context.Context) error
	done func(err error)
}

// Pool is a fixed-size worker pool implementing aggregate.Runner.
// Every submitted job runs under its own deadline so one slow
// aggregation cannot stall its siblings past the timeout.
type Pool struct {
	size    int
	timeout time.Duration
	tasks   chan task
	logger  logger.Logger

	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewPool creates and starts a pool with configuration options.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		size:     runtime.NumCPU(),
		timeout:  defaultTaskTimeout,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("pool"),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.tasks = make(chan task)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	metrics.UpdatePoolWorkers(p.size)
	return p
}

// Execute implements aggregate.Runner. Jobs run concurrently up to the
// pool size; Execute returns once every job has fully finished, so
// results written by job closures are safe to read afterwards.
func (p *Pool) Execute(ctx context.Context, jobs []aggregate.Job) map[string]error {
	errs := make(map[string]error, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	fail := func(name string, err error) {
		mu.Lock()
		errs[name] = err
		mu.Unlock()
	}

	for _, job := range jobs {
		job := job
		wg.Add(1)

		t := task{
			id:   uuid.NewString(),
			name: job.Name,
			ctx:  ctx,
			run:  job.Run,
			done: func(err error) {
				fail(job.Name, err)
				wg.Done()
			},
		}

		select {
		case p.tasks <- t:
		case <-p.shutdown:
			fail(job.Name, ErrPoolClosed)
			wg.Done()
		case <-ctx.Done():
			fail(job.Name, ctx.Err())
			wg.Done()
		}
	}

	wg.Wait()
	return errs
}

// worker pulls tasks until shutdown.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdown:
			return
		case t := <-p.tasks:
			p.runTask(t)
		}
	}
}

// runTask executes one job under its deadline. On timeout it still
// waits for the job to observe cancellation and unwind, so no job
// goroutine outlives its Execute call.
func (p *Pool) runTask(t task) {
	start := time.Now()
	defer func() {
		metrics.RecordPoolTaskDuration(time.Since(start).Seconds())
	}()

	taskCtx, cancel := context.WithTimeout(t.ctx, p.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- t.run(taskCtx)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-taskCtx.Done():
		metrics.RecordPoolTaskTimeout()
		<-errCh
		err = fmt.Errorf("job %q (task %s) aborted: %w", t.name, t.id, taskCtx.Err())
	}

	if err != nil {
		metrics.RecordPoolTaskError()
		p.logger.Error(t.ctx, "pool task failed",
			logger.String("job", t.name),
			logger.String("task_id", t.id),
			logger.Error(err),
		)
	}
	t.done(err)
}

// Shutdown stops the workers and waits for them to drain, bounded by
// the context deadline. Execute calls racing a shutdown report
// ErrPoolClosed for jobs that could not be submitted.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		close(p.shutdown)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		metrics.UpdatePoolWorkers(0)
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "pool shutdown timed out")
		return fmt.Errorf("pool shutdown: %w", ctx.Err())
	}
}
