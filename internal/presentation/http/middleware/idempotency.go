package middleware

import (
	"bytes"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
	"github.com/sangkips/invoice-desk/internal/domain/repository"
	"github.com/sangkips/invoice-desk/internal/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the cache
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyKeyTTL is how long keys are valid when no TTL is configured
	DefaultIdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// keyLocks hands out one mutex per endpoint+key while requests hold it
type keyLocks struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until no other request holds key and returns the release func
func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.held[key]
	if !ok {
		l = &keyLock{}
		k.held[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.held, key)
		}
		k.mu.Unlock()
	}
}

// Idempotency replays the stored response when a POST is retried with the same
// Idempotency-Key. Requests without the header pass straight through. Only 2xx
// responses are stored, so a failed attempt can be retried with the same key.
// Concurrent requests carrying the same key run one at a time, so a retry that
// races the first attempt waits for it and then replays its response.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyKeyTTL
	}
	locks := &keyLocks{held: make(map[string]*keyLock)}

	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		endpoint := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		release := locks.lock(endpoint + "\x00" + idempotencyKey)
		defer release()

		existing, err := config.Repo.GetByKey(ctx, idempotencyKey, endpoint)
		if err != nil {
			log := logger.WithComponent("idempotency")
			log.Warn().Err(err).Str("key", idempotencyKey).Msg("lookup failed, processing request")
			c.Next()
			return
		}

		if existing != nil {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", existing.ResponseBody)
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		now := time.Now()
		_ = config.Repo.Create(ctx, &entity.IdempotencyKey{
			Key:          idempotencyKey,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.Bytes(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(ttl),
		})
	}
}
