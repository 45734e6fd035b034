package kafka_client

import (
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/empathybot/internal/clients/kafka_client/utils"
	"github.com/spacesedan/empathybot/internal/events"
	"github.com/spacesedan/empathybot/internal/models"
	"github.com/spacesedan/empathybot/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventMessage(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	event := models.NewClassificationEvent(sentiment.Result{Score: 0.64, Category: sentiment.Positive}, "req-1", at)

	msg, err := NewEventMessage(KAFKA_TOPIC_CHAT_SENTIMENT, event)
	require.NoError(t, err)

	assert.Equal(t, KAFKA_TOPIC_CHAT_SENTIMENT, *msg.TopicPartition.Topic)
	assert.Equal(t, event.ID, string(msg.Key))
	assert.True(t, at.Equal(msg.Timestamp))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "positive", string(msg.Headers[0].Value))

	var decoded models.ClassificationEvent
	require.NoError(t, utils.DeserializeFromJSON(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Category, decoded.Category)
	assert.Equal(t, event.Score, decoded.Score)
	assert.Equal(t, "req-1", decoded.RequestID)
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
	assert.NotContains(t, string(msg.Value), "text")
}

func TestKafkaConfig_WithDefaults(t *testing.T) {
	cfg := KafkaConfig{Broker: "kafka:9092"}.withDefaults()
	assert.Equal(t, "kafka:9092", cfg.Broker)
	assert.Equal(t, KAFKA_TOPIC_CHAT_SENTIMENT, cfg.Topic)
	assert.Equal(t, DEFAULT_CLIENT_ID, cfg.ClientID)

	cfg = KafkaConfig{Broker: "kafka:9092", Topic: "custom", ClientID: "bot-7"}.withDefaults()
	assert.Equal(t, "custom", cfg.Topic)
	assert.Equal(t, "bot-7", cfg.ClientID)
}

func testBatch(n int) []models.ClassificationEvent {
	batch := make([]models.ClassificationEvent, n)
	for i := range batch {
		batch[i] = models.NewClassificationEvent(sentiment.Result{Category: sentiment.Neutral}, "", time.Now())
	}
	return batch
}

func TestBatchOutcome(t *testing.T) {
	batch := testBatch(5)
	produceErr := errors.New("queue full")

	tests := []struct {
		name          string
		produced      int
		failed        []models.ClassificationEvent
		produceErr    error
		wantErr       bool
		wantRemaining []models.ClassificationEvent
	}{
		{
			name:     "all delivered",
			produced: 5,
		},
		{
			name:          "produce stopped midway",
			produced:      2,
			produceErr:    produceErr,
			wantErr:       true,
			wantRemaining: batch[2:],
		},
		{
			name:          "delivery report failed",
			produced:      5,
			failed:        []models.ClassificationEvent{batch[1]},
			wantErr:       true,
			wantRemaining: []models.ClassificationEvent{batch[1]},
		},
		{
			name:          "failed delivery and unsent tail",
			produced:      3,
			failed:        []models.ClassificationEvent{batch[0]},
			produceErr:    produceErr,
			wantErr:       true,
			wantRemaining: []models.ClassificationEvent{batch[0], batch[3], batch[4]},
		},
		{
			name:       "nothing produced",
			produced:   0,
			produceErr: produceErr,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := batchOutcome(batch, tt.produced, tt.failed, tt.produceErr, KAFKA_TOPIC_CHAT_SENTIMENT)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var partial *events.PartialPublishError
			if tt.wantRemaining == nil {
				assert.False(t, errors.As(err, &partial), "whole batch failures are retried as is")
				return
			}
			require.True(t, errors.As(err, &partial))
			assert.Equal(t, tt.wantRemaining, partial.Remaining)
		})
	}
}
