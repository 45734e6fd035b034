package clients

import "time"

const (
	MAX_RETRIES   = 3
	RETRY_DELAY   = 250 * time.Millisecond
	PING_TIMEOUT  = 3 * time.Second
	WRITE_TIMEOUT = 5 * time.Second
)
