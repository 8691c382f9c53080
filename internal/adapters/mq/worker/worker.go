package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
	"github.com/okian/crossjudge/pkg/metrics"
)

const (
	defaultJobTimeout  = 30 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.WarmupJob

// Warmer precomputes embeddings for texts.
type Warmer interface {
	Warm(ctx context.Context, texts []string) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// InMemoryWorker drains jobs from a queue into a Warmer.
type InMemoryWorker struct {
	queue  Queue
	warmer Warmer
	cfg    config

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
}

func newConfig(name string, opts []Option) config {
	c := config{name: name, timeout: defaultJobTimeout, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, w Warmer, opts ...Option) *InMemoryWorker {
	cfg := newConfig("warmup-worker", opts)
	cfg.logger = cfg.logger.Named(cfg.name)
	return &InMemoryWorker{
		queue:    q,
		warmer:   w,
		cfg:      cfg,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run processes jobs until ctx is done, Shutdown is called or the queue
// closes.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown stops the worker and waits for the current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.cfg.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, j Job) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.timeout)
	defer cancel()

	if err := w.warmer.Warm(jobCtx, j.Texts); err != nil {
		metrics.RecordWorkerError()
		w.cfg.logger.Warn(ctx, "warmup job failed",
			logger.String("job_id", j.ID),
			logger.Int("texts", len(j.Texts)),
			logger.Error(err),
		)
		if w.cfg.onFailure != nil {
			w.cfg.onFailure(ctx, j, err)
		}
		return
	}
	w.cfg.logger.Debug(ctx, "warmup job done", logger.String("job_id", j.ID), logger.Int("texts", len(j.Texts)))
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates count workers. count < 1 means one per CPU.
func NewPool(count int, q Queue, w Warmer, opts ...Option) *Pool {
	if count < 1 {
		count = runtime.NumCPU()
	}
	cfg := newConfig("warmup-pool", opts)
	p := &Pool{
		workers: make([]*InMemoryWorker, count),
		queue:   q,
		logger:  cfg.logger.Named("warmup-pool"),
	}
	for i := range count {
		workerOpts := append(append([]Option{}, opts...), WithName("warmup-worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(q, w, workerOpts...)
	}
	metrics.UpdateWorkerCount(count)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, if it can be closed, and waits for workers.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
