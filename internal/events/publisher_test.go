package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/empathybot/internal/models"
	"github.com/spacesedan/empathybot/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]models.ClassificationEvent
	fail    int
	// deliverFirst events of a failing batch are accepted before the error.
	deliverFirst int
}

func (s *recordingSink) PublishBatch(_ context.Context, batch []models.ClassificationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		if s.deliverFirst > 0 && s.deliverFirst < len(batch) {
			s.batches = append(s.batches, batch[:s.deliverFirst])
			return &PartialPublishError{
				Remaining: batch[s.deliverFirst:],
				Err:       errors.New("local queue full"),
			}
		}
		return errors.New("broker unavailable")
	}
	s.batches = append(s.batches, batch)
	return nil
}

func (s *recordingSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func event(category sentiment.Category) models.ClassificationEvent {
	return models.NewClassificationEvent(sentiment.Result{Category: category}, "", time.Now())
}

func TestBatchingPublisher_FlushesWhenFull(t *testing.T) {
	sink := &recordingSink{}
	p := NewBatchingPublisher(sink, 3, time.Hour)
	p.Start(context.Background())
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Publish(context.Background(), event(sentiment.Positive)))
	}

	assert.Eventually(t, func() bool { return sink.total() == 3 }, time.Second, 10*time.Millisecond)
}

func TestBatchingPublisher_FlushesOnInterval(t *testing.T) {
	sink := &recordingSink{}
	p := NewBatchingPublisher(sink, 100, 20*time.Millisecond)
	p.Start(context.Background())
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	require.NoError(t, p.Publish(context.Background(), event(sentiment.Neutral)))

	assert.Eventually(t, func() bool { return sink.total() == 1 }, time.Second, 10*time.Millisecond)
}

func TestBatchingPublisher_CloseFlushesRemainder(t *testing.T) {
	sink := &recordingSink{}
	p := NewBatchingPublisher(sink, 100, time.Hour)
	p.Start(context.Background())

	require.NoError(t, p.Publish(context.Background(), event(sentiment.Negative)))
	require.NoError(t, p.Publish(context.Background(), event(sentiment.Positive)))
	require.NoError(t, p.Close(context.Background()))

	assert.Equal(t, 2, sink.total())
}

func TestBatchingPublisher_CloseWithoutStart(t *testing.T) {
	sink := &recordingSink{}
	p := NewBatchingPublisher(sink, 100, time.Hour)

	require.NoError(t, p.Publish(context.Background(), event(sentiment.Negative)))
	require.NoError(t, p.Close(context.Background()))

	assert.Equal(t, 1, sink.total())
}

func TestBatchingPublisher_RetriesFailedBatch(t *testing.T) {
	sink := &recordingSink{fail: 2}
	p := NewBatchingPublisher(sink, 100, time.Hour)
	p.retryDelay = time.Millisecond

	require.NoError(t, p.Publish(context.Background(), event(sentiment.Neutral)))
	require.NoError(t, p.Close(context.Background()))

	assert.Equal(t, 1, sink.total())
}

func TestBatchingPublisher_DropsAfterRetries(t *testing.T) {
	sink := &recordingSink{fail: publishAttempts}
	p := NewBatchingPublisher(sink, 100, time.Hour)
	p.retryDelay = time.Millisecond

	require.NoError(t, p.Publish(context.Background(), event(sentiment.Neutral)))
	assert.Error(t, p.Close(context.Background()))
	assert.Equal(t, 0, sink.total())
}

func TestBatchingPublisher_RetriesOnlyUndelivered(t *testing.T) {
	sink := &recordingSink{fail: 1, deliverFirst: 2}
	p := NewBatchingPublisher(sink, 100, time.Hour)
	p.retryDelay = time.Millisecond

	sent := make(map[string]bool)
	for i := 0; i < 5; i++ {
		e := event(sentiment.Positive)
		sent[e.ID] = true
		require.NoError(t, p.Publish(context.Background(), e))
	}
	require.NoError(t, p.Close(context.Background()))

	require.Len(t, sink.batches, 2)
	assert.Len(t, sink.batches[0], 2)
	assert.Len(t, sink.batches[1], 3)

	seen := make(map[string]int)
	for _, b := range sink.batches {
		for _, e := range b {
			seen[e.ID]++
		}
	}
	assert.Len(t, seen, 5)
	for id, n := range seen {
		assert.True(t, sent[id])
		assert.Equal(t, 1, n, "event %s delivered more than once", id)
	}
}

func TestNewBatchingPublisher_DefaultsNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		p := NewBatchingPublisher(&recordingSink{}, 10, interval)
		assert.Equal(t, DEFAULT_FLUSH_INTERVAL, p.interval)

		assert.NotPanics(t, func() {
			p.Start(context.Background())
			require.NoError(t, p.Close(context.Background()))
		})
	}
}

func TestPartialPublishError_Unwraps(t *testing.T) {
	cause := errors.New("queue full")
	err := error(&PartialPublishError{Remaining: make([]models.ClassificationEvent, 2), Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "2 events")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), event(sentiment.Positive)))
	assert.NoError(t, p.Close(context.Background()))
}
