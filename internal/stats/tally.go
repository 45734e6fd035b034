package stats

import (
	"context"
	"sync"
	"time"

	"github.com/spacesedan/empathybot/internal/sentiment"
)

const dayLayout = "2006-01-02"

// Snapshot is the per-category reply count for one UTC day.
type Snapshot struct {
	Day    string                       `json:"day"`
	Counts map[sentiment.Category]int64 `json:"counts"`
}

func emptySnapshot(day string) Snapshot {
	counts := make(map[sentiment.Category]int64, len(sentiment.Categories))
	for _, c := range sentiment.Categories {
		counts[c] = 0
	}
	return Snapshot{Day: day, Counts: counts}
}

// Tally counts how many messages fell into each category today. Only
// counts are kept; message text never reaches a Tally.
type Tally interface {
	Increment(ctx context.Context, category sentiment.Category) error
	Today(ctx context.Context) (Snapshot, error)
}

// MemoryTally keeps today's counts in process memory and resets them when
// the UTC day changes.
type MemoryTally struct {
	mu     sync.Mutex
	now    func() time.Time
	day    string
	counts map[sentiment.Category]int64
}

func NewMemoryTally() *MemoryTally {
	return &MemoryTally{now: time.Now, counts: map[sentiment.Category]int64{}}
}

func (m *MemoryTally) rollover() {
	day := m.now().UTC().Format(dayLayout)
	if day != m.day {
		m.day = day
		m.counts = map[sentiment.Category]int64{}
	}
}

func (m *MemoryTally) Increment(_ context.Context, category sentiment.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rollover()
	m.counts[category]++
	return nil
}

func (m *MemoryTally) Today(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rollover()
	snap := emptySnapshot(m.day)
	for c, n := range m.counts {
		snap.Counts[c] = n
	}
	return snap, nil
}
