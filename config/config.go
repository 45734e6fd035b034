package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ReplySourceBuiltin  = "builtin"
	ReplySourceFile     = "file"
	ReplySourceDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	ReplyTableSource   string
	ReplyTableFile     string
	DynamoDBReplyTable string
	AWSRegion          string
	AWSEndpoint        string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	KafkaBroker         string
	KafkaSentimentTopic string
	KafkaClientID       string
	EventBatchSize      int
	EventFlushInterval  time.Duration

	StripMarkdown   bool
	ShutdownTimeout time.Duration
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ReplyTableSource:   strings.ToLower(getEnv("REPLY_TABLE_SOURCE", ReplySourceBuiltin)),
		ReplyTableFile:     getEnv("REPLY_TABLE_FILE", "config/replies.toml"),
		DynamoDBReplyTable: getEnv("DYNAMODB_REPLY_TABLE", "Replies"),
		AWSRegion:          getEnv("AWS_REGION", "us-west-2"),
		AWSEndpoint:        os.Getenv("AWS_ENDPOINT"),

		ValkeyAddress:  os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      getEnvBool("VALKEY_TLS", false),

		KafkaBroker:         os.Getenv("KAFKA_BROKER"),
		KafkaSentimentTopic: getEnv("KAFKA_SENTIMENT_TOPIC", "chat-sentiment"),
		KafkaClientID:       getEnv("KAFKA_CLIENT_ID", "empathybot"),
		EventBatchSize:      getEnvInt("EVENT_BATCH_SIZE", 50),
		EventFlushInterval:  getEnvDuration("EVENT_FLUSH_INTERVAL", 5*time.Second),

		StripMarkdown:   getEnvBool("STRIP_MARKDOWN", false),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func (c Config) Validate() error {
	switch c.ReplyTableSource {
	case ReplySourceBuiltin, ReplySourceDynamoDB:
	case ReplySourceFile:
		if c.ReplyTableFile == "" {
			return fmt.Errorf("[Config] REPLY_TABLE_FILE is required when REPLY_TABLE_SOURCE=file")
		}
	default:
		return fmt.Errorf("[Config] invalid REPLY_TABLE_SOURCE %q", c.ReplyTableSource)
	}
	if c.Port == "" {
		return fmt.Errorf("[Config] PORT must not be empty")
	}
	if c.EventBatchSize <= 0 {
		return fmt.Errorf("[Config] EVENT_BATCH_SIZE must be positive")
	}
	if c.EventFlushInterval <= 0 {
		return fmt.Errorf("[Config] EVENT_FLUSH_INTERVAL must be positive")
	}
	return nil
}

func (c Config) ValkeyEnabled() bool {
	return c.ValkeyAddress != ""
}

func (c Config) KafkaEnabled() bool {
	return c.KafkaBroker != ""
}
