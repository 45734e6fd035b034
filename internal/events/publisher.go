package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/empathybot/internal/models"
	"github.com/spacesedan/empathybot/internal/utils"
)

const (
	DEFAULT_FLUSH_INTERVAL = 5 * time.Second

	publishAttempts = 3
	retryDelay      = 2 * time.Second
)

// Publisher accepts classification events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, event models.ClassificationEvent) error
	Close(ctx context.Context) error
}

// Sink delivers a batch of events to a downstream system.
type Sink interface {
	PublishBatch(ctx context.Context, batch []models.ClassificationEvent) error
}

// PartialPublishError reports a batch that was only partly delivered.
// Remaining holds the events the sink could not confirm; the rest must not
// be sent again.
type PartialPublishError struct {
	Remaining []models.ClassificationEvent
	Err       error
}

func (e *PartialPublishError) Error() string {
	return fmt.Sprintf("%d events not delivered: %v", len(e.Remaining), e.Err)
}

func (e *PartialPublishError) Unwrap() error {
	return e.Err
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.ClassificationEvent) error { return nil }
func (NopPublisher) Close(context.Context) error                               { return nil }

// BatchingPublisher buffers events and hands them to a Sink once the
// buffer is full or the flush interval elapses, whichever comes first.
type BatchingPublisher struct {
	sink       Sink
	buffer     *utils.BatchBuffer[models.ClassificationEvent]
	interval   time.Duration
	retryDelay time.Duration

	flush     chan struct{}
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewBatchingPublisher(sink Sink, batchSize int, interval time.Duration) *BatchingPublisher {
	if interval <= 0 {
		interval = DEFAULT_FLUSH_INTERVAL
	}
	return &BatchingPublisher{
		sink:       sink,
		buffer:     utils.NewBatchBuffer[models.ClassificationEvent](batchSize),
		interval:   interval,
		retryDelay: retryDelay,
		flush:      make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the flush loop in a new goroutine until ctx is canceled or
// Close is called.
func (p *BatchingPublisher) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

func (p *BatchingPublisher) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("[EventPublisher] Flush loop started",
		slog.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[EventPublisher] Context canceled, stopping flush loop")
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.sendBatch(ctx)
		case <-p.flush:
			p.sendBatch(ctx)
		}
	}
}

func (p *BatchingPublisher) Publish(_ context.Context, event models.ClassificationEvent) error {
	p.buffer.Add(event)
	if p.buffer.Full() {
		select {
		case p.flush <- struct{}{}:
		default:
		}
	}
	return nil
}

// Close stops the flush loop and delivers whatever is still buffered.
func (p *BatchingPublisher) Close(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stop)
	})

	p.startOnce.Do(func() {
		close(p.done)
	})
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return p.sendBatch(ctx)
}

func (p *BatchingPublisher) sendBatch(ctx context.Context) error {
	batch := p.buffer.GetAndClear()
	if len(batch) == 0 {
		return nil
	}

	var err error
	for i := 0; i < publishAttempts; i++ {
		err = p.sink.PublishBatch(ctx, batch)
		if err == nil {
			slog.Debug("[EventPublisher] Published batch",
				slog.Int("batch_size", len(batch)))
			return nil
		}

		var partial *PartialPublishError
		if errors.As(err, &partial) {
			batch = partial.Remaining
		}

		slog.Warn("[EventPublisher] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.Int("pending", len(batch)),
			slog.String("error", err.Error()))

		if i == publishAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryDelay):
		}
	}

	slog.Error("[EventPublisher] Dropping batch after retries",
		slog.Int("batch_size", len(batch)),
		slog.String("error", err.Error()))
	return err
}
