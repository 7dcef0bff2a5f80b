package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chatdesk/internal/model"
)

var ErrSessionNotFound = errors.New("admin session not found")

// AdminSession is the server-side state for a logged-in back-office
// account. Admin sessions are a separate trust domain from user tokens.
type AdminSession struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	LoginTime time.Time  `json:"login_time"`
}

// kv is the slice of a key-value store the admin session needs. Keeping
// it narrow lets tests run against a map instead of a Redis server.
type kv interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
}

// AdminStore keeps admin sessions in a shared store keyed by opaque
// token, so any process instance can resolve a session. Expiry is
// enforced twice: by the store TTL and by a wall-clock check against
// LoginTime.
type AdminStore struct {
	store kv
	ttl   time.Duration
	now   func() time.Time
}

func NewAdminStore(client *redis.Client, ttl time.Duration) *AdminStore {
	return &AdminStore{
		store: redisKV{client: client},
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create opens a session for the admin and returns its opaque token.
func (s *AdminStore) Create(ctx context.Context, admin model.Admin) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	sess := AdminSession{
		ID:        admin.ID,
		Username:  admin.Username,
		Role:      model.RoleAdmin,
		LoginTime: s.now().UTC(),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := s.store.Set(ctx, sessionKey(token), payload, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token to its session. Expired or unknown tokens answer
// ErrSessionNotFound; expired ones are removed on the way.
func (s *AdminStore) Get(ctx context.Context, token string) (AdminSession, error) {
	if token == "" {
		return AdminSession{}, ErrSessionNotFound
	}

	payload, err := s.store.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return AdminSession{}, ErrSessionNotFound
		}
		return AdminSession{}, fmt.Errorf("load session: %w", err)
	}

	var sess AdminSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return AdminSession{}, fmt.Errorf("decode session: %w", err)
	}

	if s.now().Sub(sess.LoginTime) > s.ttl {
		_ = s.store.Del(ctx, sessionKey(token))
		return AdminSession{}, ErrSessionNotFound
	}
	if sess.Role != model.RoleAdmin {
		return AdminSession{}, ErrSessionNotFound
	}
	return sess, nil
}

// Delete revokes the session. Unknown tokens are not an error.
func (s *AdminStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return "admin_session:" + token
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// redisKV adapts a go-redis client to the kv interface.
type redisKV struct {
	client *redis.Client
}

func (r redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key).Bytes()
}

func (r redisKV) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
