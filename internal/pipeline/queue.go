package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/atlanticofertlog/cargo-docs/internal/common"
)

var ErrQueueClosed = errors.New("queue is shutting down")

// DocumentProcessor is what queue workers run for each document.
type DocumentProcessor interface {
	Process(ctx context.Context, doc Document) (Outcome, error)
}

// ResultHandler receives every outcome. It is called from worker goroutines.
type ResultHandler func(out Outcome, err error)

// Queue runs documents on a fixed pool of workers.
type Queue struct {
	proc    DocumentProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	base    context.Context
	handle  ResultHandler

	ch   chan Document
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Document, n)
		}
	}
}

// WithProcessTimeout bounds each document; 0 disables the bound.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d >= 0 {
			q.timeout = d
		}
	}
}

// WithBaseContext parents every job context on ctx, so cancelling it stops
// in-flight work, including workers waiting on a city choice.
func WithBaseContext(ctx context.Context) Option {
	return func(q *Queue) {
		if ctx != nil {
			q.base = ctx
		}
	}
}

func WithResultHandler(h ResultHandler) Option {
	return func(q *Queue) {
		q.handle = h
	}
}

func NewQueue(proc DocumentProcessor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		base:    context.Background(),
		ch:      make(chan Document, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for doc := range q.ch {
					ctx, cancel := common.WithTimeout(q.base, q.timeout)
					out, err := q.proc.Process(ctx, doc)
					cancel()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "path", doc.Path, "error", err)
					} else {
						q.logger.Info("processed document", "worker_id", workerID, "path", doc.Path, "job_id", out.JobID)
					}
					if q.handle != nil {
						q.handle(out, err)
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue blocks while the queue is full, until ctx is done.
func (q *Queue) Enqueue(ctx context.Context, doc Document) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", doc.Path)
		return ErrQueueClosed
	}
	select {
	case q.ch <- doc:
		q.logger.Debug("queued document", "path", doc.Path, "doc_kind", doc.Kind)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", doc.Path)
	select {
	case q.ch <- doc:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting documents and waits for the workers to drain.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
