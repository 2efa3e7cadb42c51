package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"

	// Replays cover a checkout session; a day is more than enough.
	idempotencyTTL = 24 * time.Hour
)

// replayRecord is the stored outcome of a keyed request. A retried booking
// or payment submission gets this back instead of running again.
type replayRecord struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// captureWriter tees the response body so it can be stored for replay.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key, so a double-submitted booking or payment request cannot
// create a second reservation or charge.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := "booking:idem:" + key

		record, err := loadReplay(ctx, redisClient, storeKey)
		if err != nil && err != redis.Nil {
			// Redis trouble must not block bookings.
			c.Next()
			return
		}

		if record != nil {
			for k, v := range record.Headers {
				for _, val := range v {
					c.Header(k, val)
				}
			}
			c.Data(record.StatusCode, "application/json", record.Body)
			c.Abort()
			return
		}

		w := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// 5xx outcomes are not stored, so a retry after a server fault runs
		// the operation for real.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			record := replayRecord{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    replayHeaders(c),
			}
			_ = storeReplay(ctx, redisClient, storeKey, &record, idempotencyTTL)
		}
	}
}

func loadReplay(ctx context.Context, client *redis.Client, key string) (*replayRecord, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var record replayRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func storeReplay(ctx context.Context, client *redis.Client, key string, record *replayRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}

// replayHeaders picks the headers worth replaying. Only Content-Type today.
func replayHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
