package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-resource-service/internal/domain/user"
)

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Generation returns the eviction generation of the user's entry.
	// Read it before loading the user from the database.
	Generation(ctx context.Context, id uuid.UUID) (string, error)

	// Set stores a user with the configured TTL unless the entry was
	// evicted after generation was read. It reports whether it stored.
	Set(ctx context.Context, user *domain.User, generation string) (bool, error)

	// Delete removes a user from cache by ID and starts a new generation.
	Delete(ctx context.Context, id uuid.UUID) error
}

// generationTTL outlives any fill that read the previous generation.
const generationTTL = time.Hour

// setIfGeneration writes KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation key reads as the empty string.
var setIfGeneration = redis.NewScript(`
	local current = redis.call('GET', KEYS[2])
	if current == false then
		current = ''
	end
	if current ~= ARGV[1] then
		return 0
	end
	local ttl = tonumber(ARGV[3])
	if ttl > 0 then
		redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
	else
		redis.call('SET', KEYS[1], ARGV[2])
	end
	return 1
`)

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// CacheKey returns the Redis key holding the user with the given ID.
func CacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// GenerationKey returns the Redis key counting evictions of the user's entry.
func GenerationKey(id uuid.UUID) string {
	return CacheKey(id) + ":gen"
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	data, err := c.client.Get(ctx, CacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.Stringer("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Stringer("user_id", id), zap.Error(err))
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.Stringer("user_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Stringer("user_id", id))
	return &user, nil
}

// Generation returns the current eviction generation, "" if the entry was never evicted.
func (c *RedisUserCache) Generation(ctx context.Context, id uuid.UUID) (string, error) {
	gen, err := c.client.Get(ctx, GenerationKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		c.log.Error("failed to read cache generation", zap.Stringer("user_id", id), zap.Error(err))
		return "", err
	}
	return gen, nil
}

// Set stores a user in Redis cache with TTL if no eviction happened since generation was read.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User, generation string) (bool, error) {
	if user == nil {
		return false, fmt.Errorf("cannot cache nil user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return false, err
	}

	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{CacheKey(user.ID), GenerationKey(user.ID)},
		generation, data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.log.Error("failed to set cache", zap.Stringer("user_id", user.ID), zap.Error(err))
		return false, err
	}

	if stored == 0 {
		c.log.Debug("skipped caching evicted user", zap.Stringer("user_id", user.ID))
		return false, nil
	}

	c.log.Debug("cached user", zap.Stringer("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return true, nil
}

// Delete removes a user from Redis cache and bumps its generation so that
// fills started before the eviction are discarded.
func (c *RedisUserCache) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, CacheKey(id))
		pipe.Incr(ctx, GenerationKey(id))
		pipe.Expire(ctx, GenerationKey(id), generationTTL)
		return nil
	})
	if err != nil {
		c.log.Error("failed to delete from cache", zap.Stringer("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Stringer("user_id", id))
	return nil
}
