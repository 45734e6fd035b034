package kafka_client

import "time"

const (
	KAFKA_TOPIC_CHAT_SENTIMENT = "chat-sentiment" // classification outcomes, one message per reply
)

const (
	MAX_RETRIES      = 3
	RETRY_DELAY      = 250 * time.Millisecond
	FLUSH_TIMEOUT_MS = 5000
)
