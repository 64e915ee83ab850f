package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangang/quill/internal/models"
	"github.com/redis/go-redis/v9"
)

const minRefreshTTL = time.Second

// KEYS[1] user key, KEYS[2] token key
// ARGV[1] token hash, ARGV[2] ttl ms, ARGV[3] token key prefix, ARGV[4] user id
const upsertRefreshScript = `
local old = redis.call("GET", KEYS[1])
if old and old ~= ARGV[1] then
  redis.call("DEL", ARGV[3] .. old)
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("SET", KEYS[2], ARGV[4], "PX", ARGV[2])
return 1
`

// KEYS[1] token key
// ARGV[1] user key prefix, ARGV[2] token hash
const deleteRefreshScript = `
local uid = redis.call("GET", KEYS[1])
if not uid then
  return 0
end
redis.call("DEL", KEYS[1])
local user_key = ARGV[1] .. uid
if redis.call("GET", user_key) == ARGV[2] then
  redis.call("DEL", user_key)
end
return 1
`

var (
	upsertRefreshLua = redis.NewScript(upsertRefreshScript)
	deleteRefreshLua = redis.NewScript(deleteRefreshScript)
)

// RedisRefreshTokenStore keeps the current refresh token hash of each user
// under <prefix>:user:<id> and a reverse index <prefix>:token:<hash> so
// logout can delete by token value. Both keys expire with the token, so
// DeleteExpired has nothing to do.
type RedisRefreshTokenStore struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRefreshTokenStore(client redis.UniversalClient, prefix string) *RedisRefreshTokenStore {
	if prefix == "" {
		prefix = "quill:refresh"
	}
	return &RedisRefreshTokenStore{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisRefreshTokenStore) userPrefix() string  { return s.prefix + ":user:" }
func (s *RedisRefreshTokenStore) tokenPrefix() string { return s.prefix + ":token:" }

func (s *RedisRefreshTokenStore) Upsert(ctx context.Context, userID, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl < minRefreshTTL {
		ttl = minRefreshTTL
	}

	hash := HashToken(token)
	keys := []string{s.userPrefix() + userID, s.tokenPrefix() + hash}
	if err := upsertRefreshLua.Run(ctx, s.redis, keys, hash, ttl.Milliseconds(), s.tokenPrefix(), userID).Err(); err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshTokenStore) FindByUserAndToken(ctx context.Context, userID, token string) (*models.RefreshToken, error) {
	key := s.userPrefix() + userID

	var getCmd *redis.StringCmd
	var ttlCmd *redis.DurationCmd
	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		getCmd = pipe.Get(ctx, key)
		ttlCmd = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	stored, err := getCmd.Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	hash := HashToken(token)
	if stored != hash {
		return nil, ErrNotFound
	}

	return &models.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(ttlCmd.Val()),
	}, nil
}

func (s *RedisRefreshTokenStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	hash := HashToken(token)
	keys := []string{s.tokenPrefix() + hash}
	if err := deleteRefreshLua.Run(ctx, s.redis, keys, s.userPrefix(), hash).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
