// Package idempotency guards non-repeatable requests with a Redis-backed
// reservation keyed by the Idempotency-Key header.
package idempotency

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

const Header = "Idempotency-Key"

// Reserver claims and releases idempotency keys.
type Reserver interface {
	// Reserve returns false when the key is already held.
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type Store struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewStore(rdb redis.Cmdable, ttl time.Duration, prefix string) *Store {
	return &Store{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *Store) Reserve(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, s.prefix+key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
}

func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

// KeepFunc decides from the written status and headers whether the
// reservation must outlive the request.
type KeepFunc func(status int, header http.Header) bool

// KeepOnSuccess keeps reservations for 2xx responses only.
func KeepOnSuccess(status int, _ http.Header) bool {
	return status >= 200 && status < 300
}

// Middleware rejects a request whose key is already reserved with 409. After
// the handler runs the key is released unless keep says otherwise, so clients
// can retry failed attempts. Requests without the header pass through, and so
// do requests arriving while Redis is unreachable.
func Middleware(store Reserver, log *zap.Logger, keep KeepFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(Header)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := store.Reserve(r.Context(), key)
			if err != nil {
				log.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				web.RespondError(w, log, apperr.Conflict("request with this Idempotency-Key was already processed"))
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if keep(ww.Status(), ww.Header()) {
				return
			}
			if err := store.Release(context.WithoutCancel(r.Context()), key); err != nil {
				log.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
