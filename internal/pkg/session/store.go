package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "admin_session:"

// Record is what we persist per issued admin token. Sessions are keyed
// by the token's jti so a logout can revoke exactly one credential.
type Record struct {
	TokenID   string    `json:"token_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps admin sessions in Redis so tokens can be revoked before
// their JWT expiry. A token is live only while its session key exists.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl, logger: logger}
}

func sessionKey(tokenID string) string {
	return keyPrefix + tokenID
}

// Create registers a session for the given token id. The key expires
// together with the token so abandoned sessions clean themselves up.
func (s *Store) Create(ctx context.Context, tokenID, role string) error {
	key := sessionKey(tokenID)
	err := s.rdb.HSet(ctx, key, map[string]interface{}{
		"token_id":   tokenID,
		"role":       role,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}).Err()
	if err != nil {
		return fmt.Errorf("session create: %w", err)
	}
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("session expire: %w", err)
	}
	return nil
}

// Exists reports whether the session behind a token id is still live.
func (s *Store) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return n > 0, nil
}

// Get loads the session record, or redis.Nil-wrapped error when absent.
func (s *Store) Get(ctx context.Context, tokenID string) (*Record, error) {
	vals, err := s.rdb.HGetAll(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	rec := &Record{TokenID: vals["token_id"], Role: vals["role"]}
	if ts := vals["created_at"]; ts != "" {
		if t, perr := time.Parse(time.RFC3339, ts); perr == nil {
			rec.CreatedAt = t
		}
	}
	return rec, nil
}

// Revoke deletes the session, invalidating the matching token at once.
func (s *Store) Revoke(ctx context.Context, tokenID string) error {
	if err := s.rdb.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("admin session revoked", zap.String("token_id", tokenID))
	}
	return nil
}
