package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/waitlist-app/config"
	"github.com/yeremiapane/waitlist-app/utils"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter copies the body while it is written to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache serves repeated GETs of the same URL from Redis. Without a client, or with the
// cache disabled, it is a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := cfg.Prefix + ":" + c.Request.URL.RequestURI()

		if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			utils.ErrorLogger.WithError(err).Warn("cache lookup failed")
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			Status:      cw.Status(),
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rdb.Set(context.Background(), key, payload, ttl).Err(); err != nil {
			utils.ErrorLogger.WithError(err).Warn("cache store failed")
		}
	}
}
