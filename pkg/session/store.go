package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound reports that no session exists under the given id
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Backend is the minimal key/value surface the store needs. Production uses
// Redis; tests supply a map-backed implementation. Keeping the handle explicit
// is what makes the auth flows testable without a server.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisBackend struct {
	rdb *redis.Client
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

func (b *redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

func (b *redisBackend) Del(ctx context.Context, key string) error {
	return b.rdb.Del(ctx, key).Err()
}

// Options configures the cookie that carries the session id
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Store keeps session snapshots server-side, referenced by an opaque uuid
// delivered in an HttpOnly cookie
type Store struct {
	backend Backend
	opts    Options
}

func NewStore(rdb *redis.Client, opts Options) *Store {
	return NewStoreWithBackend(&redisBackend{rdb: rdb}, opts)
}

func NewStoreWithBackend(backend Backend, opts Options) *Store {
	if opts.CookieName == "" {
		opts.CookieName = "session_id"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Store{backend: backend, opts: opts}
}

// Load returns the session referenced by the request cookie, or a fresh empty
// session when there is no cookie, the entry expired, or the payload is
// unreadable. Load never fails the request for a bad session.
func (s *Store) Load(ctx context.Context, r *http.Request) *Session {
	cookie, err := r.Cookie(s.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return s.newSession()
	}

	raw, err := s.backend.Get(ctx, keyPrefix+cookie.Value)
	if err != nil {
		return s.newSession()
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return s.newSession()
	}

	return &Session{ID: cookie.Value, Data: data, store: s}
}

// Save persists the session snapshot and (re)issues the id cookie
func (s *Store) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	raw, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.backend.Set(ctx, keyPrefix+sess.ID, string(raw), s.opts.TTL); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the server-side entry, clears the session values and
// expires the cookie in the past. Destroying an absent session is not an
// error.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess.ID != "" {
		if err := s.backend.Del(ctx, keyPrefix+sess.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	sess.ID = ""
	sess.Data = Data{}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Store) newSession() *Session {
	return &Session{store: s}
}
