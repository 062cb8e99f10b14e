package entity

import (
	"time"
)

// IdempotencyKey stores processed requests to prevent duplicates
type IdempotencyKey struct {
	Key          string // The idempotency key from client
	Endpoint     string // API endpoint (e.g., "POST /api/invoices")
	ResponseCode int    // HTTP status code of original response
	ResponseBody []byte // JSON response body (cached)
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks if the idempotency key has expired at the given time
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
