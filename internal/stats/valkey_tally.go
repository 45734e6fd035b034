package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/spacesedan/empathybot/internal/clients"
	"github.com/spacesedan/empathybot/internal/sentiment"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_TALLY_PREFIX = "empathybot:sentiment"
	VALKEY_TALLY_TTL    = 48 * time.Hour
)

// ValkeyTally shares daily counts between replicas through Valkey
// counters that expire two days after their last increment.
type ValkeyTally struct {
	client *clients.ValkeyClient
	now    func() time.Time
}

func NewValkeyTally(client *clients.ValkeyClient) *ValkeyTally {
	return &ValkeyTally{client: client, now: time.Now}
}

func tallyKey(day string, category sentiment.Category) string {
	return fmt.Sprintf("%s:%s:%s", VALKEY_TALLY_PREFIX, day, category)
}

func (v *ValkeyTally) today() string {
	return v.now().UTC().Format(dayLayout)
}

func (v *ValkeyTally) Increment(ctx context.Context, category sentiment.Category) error {
	key := tallyKey(v.today(), category)

	results := v.client.DoMultiWithRetry(ctx, func(b valkey.Builder) []valkey.Completed {
		return []valkey.Completed{
			b.Incr().Key(key).Build(),
			b.Expire().Key(key).Seconds(int64(VALKEY_TALLY_TTL / time.Second)).Build(),
		}
	}, clients.MAX_RETRIES)

	for _, res := range results {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyTally] increment %s: %w", key, err)
		}
	}
	return nil
}

func (v *ValkeyTally) Today(ctx context.Context) (Snapshot, error) {
	day := v.today()
	keys := make([]string, len(sentiment.Categories))
	for i, c := range sentiment.Categories {
		keys[i] = tallyKey(day, c)
	}

	res := v.client.DoWithRetry(ctx, func(b valkey.Builder) valkey.Completed {
		return b.Mget().Key(keys...).Build()
	}, clients.MAX_RETRIES)

	values, err := res.ToArray()
	if err != nil {
		return Snapshot{}, fmt.Errorf("[ValkeyTally] read counts: %w", err)
	}

	snap := emptySnapshot(day)
	for i, msg := range values {
		if i >= len(sentiment.Categories) {
			break
		}
		n, err := msg.AsInt64()
		if valkey.IsValkeyNil(err) {
			continue
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("[ValkeyTally] parse count for %s: %w", sentiment.Categories[i], err)
		}
		snap.Counts[sentiment.Categories[i]] = n
	}
	return snap, nil
}
