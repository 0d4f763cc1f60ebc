package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// BatchLoader writes multiple city reports to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, reports []domain.CityReport) error
}

// Publisher buffers city reports and loads them in batches, flushing when a
// batch fills or the flush interval elapses.
type Publisher struct {
	loader        BatchLoader
	queue         chan domain.CityReport
	logger        *slog.Logger
	metrics       *observability.Metrics
	clock         clockwork.Clock
	running       atomic.Bool
	mu            sync.RWMutex
	stopped       bool
	batchSize     int
	flushInterval time.Duration

	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	shutdownGrace  time.Duration
}

// PublisherOption customizes a Publisher.
type PublisherOption func(*Publisher)

// WithClock replaces the real clock used for flush ticks and backoff sleeps.
func WithClock(c clockwork.Clock) PublisherOption {
	return func(p *Publisher) { p.clock = c }
}

// WithRetry sets how many load attempts a batch gets and the backoff between them.
func WithRetry(attempts int, initial, maxBackoff time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.maxAttempts = attempts
		p.initialBackoff = initial
		p.maxBackoff = maxBackoff
	}
}

// NewPublisher creates a Publisher with a bounded queue.
func NewPublisher(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, queueSize int, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		loader:        l,
		queue:         make(chan domain.CityReport, queueSize),
		logger:        logger,
		metrics:       metrics,
		clock:         clockwork.NewRealClock(),
		batchSize:     batchSize,
		flushInterval: flushInterval,

		// Exponential backoff: start at 200ms, double each retry, cap at 5s.
		maxAttempts:    5,
		initialBackoff: 200 * time.Millisecond,
		maxBackoff:     5 * time.Second,
		shutdownGrace:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enqueue hands a report to the publisher without blocking. It returns false
// and drops the report when the queue is full or the publisher has stopped.
func (p *Publisher) Enqueue(r domain.CityReport) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		p.metrics.ReportsDropped.WithLabelValues("stopped").Inc()
		p.logger.Warn("report publisher stopped, dropping report", "report_id", r.ID, "location", r.Location.Query)
		return false
	}

	select {
	case p.queue <- r:
		return true
	default:
		p.metrics.ReportsDropped.WithLabelValues("queue_full").Inc()
		p.logger.Warn("report queue full, dropping report", "report_id", r.ID, "location", r.Location.Query)
		return false
	}
}

// CheckReadiness returns nil while Run is active.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("report publisher is not running")
	}
	return nil
}

// Run executes the batching loop until the context is cancelled. It then
// stops accepting reports and flushes the pending batch and the queue,
// including a batch whose retries were interrupted by the cancellation.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("report publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.running.Store(true)
	p.metrics.PublisherRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PublisherRunning.Set(0)
	}()

	ticker := p.clock.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.CityReport, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.stop(ctx, batch)
			return nil
		case r := <-p.queue:
			batch = append(batch, r)
			if len(batch) < p.batchSize {
				continue
			}
			if !p.load(ctx, batch) {
				p.stop(ctx, batch)
				return nil
			}
			batch = make([]domain.CityReport, 0, p.batchSize)
		case <-ticker.Chan():
			if len(batch) == 0 {
				continue
			}
			if !p.load(ctx, batch) {
				p.stop(ctx, batch)
				return nil
			}
			batch = make([]domain.CityReport, 0, p.batchSize)
		}
	}
}

func (p *Publisher) stop(ctx context.Context, pending []domain.CityReport) {
	p.logger.Info("report publisher stopping", "reason", ctx.Err(), "pending", len(pending)+len(p.queue))

	// No Enqueue can be mid-send once the write lock is held.
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.drain(ctx, pending)
}

// drain loads the pending batch plus everything left in the queue, using a
// detached context bounded by the shutdown grace period.
func (p *Publisher) drain(ctx context.Context, pending []domain.CityReport) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.shutdownGrace)
	defer cancel()

	for {
		batch := pending
		pending = nil
	fill:
		for len(batch) < p.batchSize {
			select {
			case r := <-p.queue:
				batch = append(batch, r)
			default:
				break fill
			}
		}
		if len(batch) == 0 {
			return
		}
		if !p.load(flushCtx, batch) {
			p.metrics.ReportsDropped.WithLabelValues("load_failed").Add(float64(len(batch)))
		}
	}
}

// load writes one batch, retrying with exponential backoff. After the last
// failed attempt the batch is dropped. It returns false, leaving the batch to
// the caller, when ctx is cancelled before the batch is written or dropped.
func (p *Publisher) load(ctx context.Context, batch []domain.CityReport) bool {
	backoff := p.initialBackoff
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.ReportsPublished.Add(float64(len(batch)))
			p.metrics.PublishBatchSize.Observe(float64(len(batch)))
			return true
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "attempt", attempt)

		if attempt >= p.maxAttempts {
			break
		}
		if !p.sleepWithContext(ctx, backoff) {
			return false
		}
		backoff = nextBackoff(backoff, p.maxBackoff)
	}

	p.metrics.ReportsDropped.WithLabelValues("load_failed").Add(float64(len(batch)))
	return true
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (p *Publisher) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
