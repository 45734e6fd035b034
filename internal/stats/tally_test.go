package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/empathybot/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTally_Counts(t *testing.T) {
	ctx := context.Background()
	tally := NewMemoryTally()

	require.NoError(t, tally.Increment(ctx, sentiment.Positive))
	require.NoError(t, tally.Increment(ctx, sentiment.Positive))
	require.NoError(t, tally.Increment(ctx, sentiment.Negative))

	snap, err := tally.Today(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), snap.Counts[sentiment.Positive])
	assert.Equal(t, int64(0), snap.Counts[sentiment.Neutral])
	assert.Equal(t, int64(1), snap.Counts[sentiment.Negative])
	assert.Len(t, snap.Counts, 3)
}

func TestMemoryTally_ResetsOnNewDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	tally := NewMemoryTally()
	tally.now = func() time.Time { return now }

	require.NoError(t, tally.Increment(ctx, sentiment.Neutral))
	snap, _ := tally.Today(ctx)
	assert.Equal(t, "2026-10-18", snap.Day)
	assert.Equal(t, int64(1), snap.Counts[sentiment.Neutral])

	now = now.Add(2 * time.Minute)
	snap, _ = tally.Today(ctx)
	assert.Equal(t, "2026-10-19", snap.Day)
	assert.Equal(t, int64(0), snap.Counts[sentiment.Neutral])
}

func TestMemoryTally_Concurrent(t *testing.T) {
	ctx := context.Background()
	tally := NewMemoryTally()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = tally.Increment(ctx, sentiment.Positive)
			}
		}()
	}
	wg.Wait()

	snap, err := tally.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(800), snap.Counts[sentiment.Positive])
}

func TestTallyKey(t *testing.T) {
	assert.Equal(t, "empathybot:sentiment:2026-10-18:negative", tallyKey("2026-10-18", sentiment.Negative))
}
