package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	idempotencyTTL    = 24 * time.Hour
)

// storedResponse is what a repeated request gets back.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// bodyRecorder tees the handler's output so it can be stored after the fact.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

type replayStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s replayStore) load(ctx context.Context, key string) (*storedResponse, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s replayStore) save(ctx context.Context, key string, resp storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// IdempotencyMiddleware replays the stored response of a mutating request
// that repeats an Idempotency-Key. Keys are scoped to the caller, so it must
// run after Authenticate. A nil client disables it.
func IdempotencyMiddleware(redisClient *redis.Client, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	store := replayStore{client: redisClient, ttl: idempotencyTTL}

	return func(c *gin.Context) {
		header := c.GetHeader(idempotencyHeader)
		if redisClient == nil || header == "" || !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := idempotencyKey(c, header)

		stored, err := store.load(ctx, key)
		switch {
		case err == nil:
			c.Header(replayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		case !errors.Is(err, redis.Nil):
			// Redis trouble must not block the request itself.
			log.Warn("idempotency lookup failed", zap.String("key", header), zap.Error(err))
			c.Next()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// 5xx is left unstored so the client can retry.
		status := rec.Status()
		if status < http.StatusOK || status >= http.StatusInternalServerError {
			return
		}
		resp := storedResponse{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		}
		if err := store.save(ctx, key, resp); err != nil {
			log.Warn("idempotency store failed", zap.String("key", header), zap.Error(err))
		}
	}
}

// idempotencyKey builds idempotency:<owner>:<method>:<route>:<header>.
func idempotencyKey(c *gin.Context, header string) string {
	owner := "anonymous"
	if identity, ok := IdentityFrom(c); ok {
		owner = identity.ID
	}
	return strings.Join([]string{"idempotency", owner, c.Request.Method, c.FullPath(), header}, ":")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
