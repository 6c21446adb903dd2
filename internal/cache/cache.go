// Package cache keeps each user's ordered board and bookmark lists in Redis.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

type backend interface {
	ListBoards(ctx context.Context, userID string) ([]model.Board, error)
	ListBookmarks(ctx context.Context, userID string) ([]model.Board, error)
}

// Cache is a read-through cache of board lists. Any board mutation must call
// Evict for the owner; cached lists are never patched in place.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// New creates a cache in front of base. A nil client disables caching.
func New(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("cache.New: base is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ListBoards returns userID's boards, highest position first
func (c *Cache) ListBoards(ctx context.Context, userID string) ([]model.Board, error) {
	return c.readThrough(ctx, userID, boardsKey, func() ([]model.Board, error) {
		return c.base.ListBoards(ctx, userID)
	})
}

// ListBookmarks returns userID's bookmarked boards, highest bookmark position first
func (c *Cache) ListBookmarks(ctx context.Context, userID string) ([]model.Board, error) {
	return c.readThrough(ctx, userID, bookmarksKey, func() ([]model.Board, error) {
		return c.base.ListBookmarks(ctx, userID)
	})
}

// Evict bumps userID's generation so both cached lists, and any load still
// in flight, are no longer read
func (c *Cache) Evict(ctx context.Context, userID string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Incr(ctx, genKey(userID)).Err(); err != nil {
		logger.Warn("Failed to evict board lists", logger.F("user", userID), logger.F("error", err.Error()))
	}
}

// readThrough reads the generation before loading, so a snapshot taken
// before an Evict is stored under a key that is never read again
func (c *Cache) readThrough(ctx context.Context, userID string, keyFn func(string, int64) string, load func() ([]model.Board, error)) ([]model.Board, error) {
	if c.redis == nil {
		return load()
	}

	gen, err := c.generation(ctx, userID)
	if err != nil {
		logger.Warn("Failed to read cache generation", logger.F("user", userID), logger.F("error", err.Error()))
		return load()
	}
	key := keyFn(userID, gen)

	if boards, ok := c.load(ctx, key); ok {
		return boards, nil
	}

	boards, err := load()
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, boards)
	return boards, nil
}

func (c *Cache) generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.redis.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Cache) load(ctx context.Context, key string) ([]model.Board, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read cached list", logger.F("key", key), logger.F("error", err.Error()))
			c.drop(ctx, key)
		}
		return nil, false
	}
	var boards []model.Board
	if err := sonic.Unmarshal(data, &boards); err != nil {
		logger.Warn("Dropping unreadable cached list", logger.F("key", key), logger.F("error", err.Error()))
		c.drop(ctx, key)
		return nil, false
	}
	return boards, true
}

func (c *Cache) store(ctx context.Context, key string, boards []model.Board) {
	if c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(boards)
	if err != nil {
		logger.Warn("Failed to encode board list", logger.F("key", key), logger.F("error", err.Error()))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Failed to cache board list", logger.F("key", key), logger.F("error", err.Error()))
	}
}

func (c *Cache) drop(ctx context.Context, key string) {
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		logger.Warn("Failed to drop cached list", logger.F("key", key), logger.F("error", err.Error()))
	}
}

func genKey(userID string) string {
	return "gen:" + userID
}

func boardsKey(userID string, gen int64) string {
	return "boards:" + userID + ":" + strconv.FormatInt(gen, 10)
}

func bookmarksKey(userID string, gen int64) string {
	return "bookmarks:" + userID + ":" + strconv.FormatInt(gen, 10)
}
