package kafka_client

const DEFAULT_CLIENT_ID = "empathybot"

type KafkaConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

// withDefaults fills the topic and client id when they are left empty.
func (c KafkaConfig) withDefaults() KafkaConfig {
	if c.Topic == "" {
		c.Topic = KAFKA_TOPIC_CHAT_SENTIMENT
	}
	if c.ClientID == "" {
		c.ClientID = DEFAULT_CLIENT_ID
	}
	return c
}
