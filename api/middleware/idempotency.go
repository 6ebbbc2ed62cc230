package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"

	DefaultIdempotencyTTL = 24 * time.Hour
	maxIdempotencyKeyLen  = 200

	// reservationTTL bounds how long a crashed request can hold its key.
	reservationTTL    = 30 * time.Second
	maxIdempotentBody = 1 << 20
)

// replay is the stored outcome of a request. Body is base64 in JSON.
// A pending replay marks a key whose first request is still running.
type replay struct {
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Pending     bool   `json:"pending,omitempty"`
}

// Idempotency makes the wrapped route safe to retry. A request carrying an
// Idempotency-Key runs at most once per (cart session, user, route, key):
// the key is reserved before the handler runs, concurrent retries get 409
// until it finishes, later retries with the same body get the stored
// response and a different body gets 409. Requests without the header run
// normally. A 5xx outcome releases the key so the client can retry.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(clientKey) > maxIdempotencyKeyLen {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key must be at most 200 characters"))
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				msg := "unreadable request body"
				if errors.As(err, &tooLarge) {
					msg = "request body must be at most 1 MiB"
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := fingerprintOf(body)
			key := store.IdempotencyKey(idempotencyScope(r), clientKey)

			prior, err := lookupReplay(ctx, store, key)
			if errors.Is(err, errCorruptReplay) {
				warn(ctx, logg, "idempotency.corrupt_record", err)
				if err := store.Del(ctx, key); err != nil {
					warn(ctx, logg, "idempotency.drop_failed", err)
				}
				prior, err = nil, nil
			}
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency lookup"))
				return
			}
			if prior == nil {
				reserved, err := reserve(ctx, store, key, fingerprint)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency reserve"))
					return
				}
				if !reserved {
					// Lost the race; answer from whatever the winner stored.
					if prior, err = lookupReplay(ctx, store, key); err != nil || prior == nil {
						prior = &replay{Pending: true, Fingerprint: fingerprint}
					}
				}
			}
			if prior != nil {
				answerFrom(ctx, logg, w, prior, fingerprint)
				return
			}

			finished := false
			defer func() {
				if finished {
					return
				}
				if err := store.Del(context.WithoutCancel(ctx), key); err != nil {
					warn(ctx, logg, "idempotency.release_failed", err)
				}
			}()

			capture := &bodyCapture{statusRecorder: statusRecorder{ResponseWriter: w}}
			next.ServeHTTP(capture, r)
			if capture.code() >= http.StatusInternalServerError {
				return
			}
			finished = true
			outcome := replay{
				Status:      capture.code(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.buf.Bytes(),
				Fingerprint: fingerprint,
			}
			if err := saveReplay(ctx, store, key, outcome, ttl); err != nil {
				warn(ctx, logg, "idempotency.save_failed", err)
			}
		})
	}
}

func answerFrom(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, prior *replay, fingerprint string) {
	switch {
	case prior.Fingerprint != fingerprint:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case prior.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "a request with this idempotency key is still in progress"))
	default:
		prior.writeTo(w)
	}
}

var errCorruptReplay = errors.New("corrupt idempotency record")

// lookupReplay returns nil, nil when nothing is stored under key.
func lookupReplay(ctx context.Context, store pkgredis.IdempotencyStore, key string) (*replay, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out replay
	if err := json.Unmarshal([]byte(raw), &out); err != nil || (out.Status == 0 && !out.Pending) {
		return nil, errCorruptReplay
	}
	return &out, nil
}

// reserve claims key for the caller; false means another request holds it.
func reserve(ctx context.Context, store pkgredis.IdempotencyStore, key, fingerprint string) (bool, error) {
	payload, err := json.Marshal(replay{Pending: true, Fingerprint: fingerprint})
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, string(payload), reservationTTL)
}

// saveReplay replaces the reservation with the final outcome.
func saveReplay(ctx context.Context, store pkgredis.IdempotencyStore, key string, outcome replay, ttl time.Duration) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(payload), ttl)
}

func (rp *replay) writeTo(w http.ResponseWriter) {
	if rp.ContentType != "" {
		w.Header().Set("Content-Type", rp.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(rp.Status)
	_, _ = w.Write(rp.Body)
}

// idempotencyScope ties a key to the caller and the route so two carts never
// share a replay.
func idempotencyScope(r *http.Request) string {
	userID, _ := UserIDFromContext(r.Context())
	return strings.Join([]string{
		CartSessionFromContext(r.Context()),
		strconv.FormatUint(userID, 10),
		r.Method,
		routeOf(r),
	}, "|")
}

// routeOf returns the chi pattern without its trailing slash, or the raw path
// outside a router.
func routeOf(r *http.Request) string {
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rctx.RoutePattern()
	}
	if len(route) > 1 {
		route = strings.TrimSuffix(route, "/")
	}
	return route
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(body))
	return hex.EncodeToString(sum[:])
}

type bodyCapture struct {
	statusRecorder
	buf bytes.Buffer
}

func (c *bodyCapture) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.statusRecorder.Write(b)
}

func warn(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil {
		return
	}
	logg.Warn(logg.WithField(ctx, "error", err.Error()), msg)
}
