package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/licensehub/console-gateway/internal/client"
)

// SessionStore keeps the console session in two keys:
//
//	console:<profile>:token  the raw bearer token
//	console:<profile>:user   the user as JSON
//
// Both keys expire with the token when it carries an exp claim.
type SessionStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

var _ client.SessionStore = (*SessionStore)(nil)

func NewSessionStore(rdb *redis.Client, profile string) *SessionStore {
	return &SessionStore{rdb: rdb, prefix: "console:" + profile, now: time.Now}
}

func (s *SessionStore) tokenKey() string { return s.prefix + ":token" }
func (s *SessionStore) userKey() string  { return s.prefix + ":user" }

func (s *SessionStore) Get(ctx context.Context) (*client.Session, error) {
	token, err := s.rdb.Get(ctx, s.tokenKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, client.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("get session token: %w", err)
	}

	sess := &client.Session{Token: token}
	raw, err := s.rdb.Get(ctx, s.userKey()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("get session user: %w", err)
	default:
		if err := json.Unmarshal(raw, &sess.User); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
	}
	return sess, nil
}

func (s *SessionStore) Set(ctx context.Context, sess client.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	ttl := s.ttl(sess)
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.tokenKey(), sess.Token, ttl)
		p.Set(ctx, s.userKey(), user, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ttl is the time left on the token, or 0 (no expiry) when it has no exp.
func (s *SessionStore) ttl(sess client.Session) time.Duration {
	exp, ok := sess.ExpiresAt()
	if !ok {
		return 0
	}
	left := exp.Sub(s.now())
	if left <= 0 {
		// Already expired; keep it briefly so the console can report it.
		return time.Second
	}
	return left
}
