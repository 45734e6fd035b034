package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/empathybot/internal/sentiment"
)

// ClassificationEvent records that a message was classified. It carries
// the outcome only; the message text is never part of an event.
type ClassificationEvent struct {
	ID        string             `json:"id"`
	Category  sentiment.Category `json:"category"`
	Score     float64            `json:"score"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewClassificationEvent(result sentiment.Result, requestID string, at time.Time) ClassificationEvent {
	return ClassificationEvent{
		ID:        uuid.NewString(),
		Category:  result.Category,
		Score:     result.Score,
		RequestID: requestID,
		Timestamp: at.UTC(),
	}
}
