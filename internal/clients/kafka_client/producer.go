package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/empathybot/internal/clients/kafka_client/utils"
	"github.com/spacesedan/empathybot/internal/events"
	"github.com/spacesedan/empathybot/internal/models"
)

// Producer publishes classification events to a single topic.
type Producer struct {
	producer *kafka.Producer
	topic    string
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	cfg = cfg.withDefaults()
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"client.id":          cfg.ClientID,
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	go logProducerEvents(p)

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, topic: cfg.Topic}, nil
}

// logProducerEvents drains the producer's event channel so client level
// errors are not silently dropped.
func logProducerEvents(p *kafka.Producer) {
	for ev := range p.Events() {
		if kafkaErr, ok := ev.(kafka.Error); ok {
			slog.Warn("[KafkaClient] Producer error",
				slog.String("code", kafkaErr.Code().String()),
				slog.String("error", kafkaErr.Error()))
		}
	}
}

// NewEventMessage encodes event as a JSON message keyed by its id.
func NewEventMessage(topic string, event models.ClassificationEvent) (*kafka.Message, error) {
	value, err := utils.SerializeToJSON(event)
	if err != nil {
		return nil, err
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          value,
		Timestamp:      event.Timestamp,
		Headers: []kafka.Header{
			{Key: "category", Value: []byte(event.Category)},
		},
	}, nil
}

// PublishBatch produces every event and waits for all delivery reports.
// When only part of the batch gets through, the error is an
// *events.PartialPublishError listing the events that still need sending.
func (p *Producer) PublishBatch(ctx context.Context, batch []models.ClassificationEvent) error {
	deliveryChan := make(chan kafka.Event, len(batch))

	var (
		produced   int
		produceErr error
	)
	for _, event := range batch {
		if produceErr = p.produceWithRetry(event, deliveryChan); produceErr != nil {
			break
		}
		produced++
	}

	pending := make(map[string]models.ClassificationEvent, produced)
	for _, event := range batch[:produced] {
		pending[event.ID] = event
	}

	var failed []models.ClassificationEvent
	for i := 0; i < produced; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-deliveryChan:
			msg, ok := ev.(*kafka.Message)
			if !ok {
				continue
			}
			if msg.TopicPartition.Error != nil {
				slog.Warn("[KafkaClient] Delivery failed",
					slog.String("key", string(msg.Key)),
					slog.String("error", msg.TopicPartition.Error.Error()))
				if event, ok := pending[string(msg.Key)]; ok {
					failed = append(failed, event)
				}
			}
		}
	}

	return batchOutcome(batch, produced, failed, produceErr, p.topic)
}

// batchOutcome turns the per-event results of a batch into its error.
// Events that were never produced and events whose delivery failed are
// the only ones handed back for retry.
func batchOutcome(batch []models.ClassificationEvent, produced int, failed []models.ClassificationEvent, produceErr error, topic string) error {
	remaining := append(failed, batch[produced:]...)
	if len(remaining) == 0 {
		slog.Info("[KafkaClient] Published classification events",
			slog.String("topic", topic),
			slog.Int("count", len(batch)))
		return nil
	}

	err := produceErr
	if err == nil {
		err = fmt.Errorf("[KafkaClient] %d of %d events were not delivered", len(failed), len(batch))
	}
	if len(remaining) == len(batch) {
		return err
	}
	return &events.PartialPublishError{Remaining: remaining, Err: err}
}

func (p *Producer) produceWithRetry(event models.ClassificationEvent, deliveryChan chan kafka.Event) error {
	msg, err := NewEventMessage(p.topic, event)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to encode event %s: %w", event.ID, err)
	}

	for i := 0; i < MAX_RETRIES; i++ {
		err = p.producer.Produce(msg, deliveryChan)
		if err == nil {
			return nil
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrQueueFull {
			p.producer.Flush(int(RETRY_DELAY / time.Millisecond))
		} else {
			time.Sleep(RETRY_DELAY)
		}
	}
	return fmt.Errorf("[KafkaClient] failed to produce event %s: %w", event.ID, err)
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
