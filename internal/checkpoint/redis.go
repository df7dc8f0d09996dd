package checkpoint

import (
	"context"
	"errors"
	"fmt"

	"github.com/azhengyongqin/blockedby/internal/cache"
	"github.com/azhengyongqin/blockedby/internal/model"
)

// RedisStore 将快照保存为 blockedby:checkpoint:<name> 下的 JSON 值（不过期）
type RedisStore struct {
	cache *cache.RedisCache
	key   string
}

func NewRedisStore(c *cache.RedisCache, name string) *RedisStore {
	if name == "" {
		name = "default"
	}
	return &RedisStore{cache: c, key: cache.CacheKey("checkpoint", name)}
}

func (s *RedisStore) Load(ctx context.Context) (*model.CrawlState, error) {
	data, err := s.cache.GetBytes(ctx, s.key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNoCheckpoint
		}
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return Decode(data)
}

func (s *RedisStore) Save(ctx context.Context, st *model.CrawlState) error {
	if err := s.cache.Set(ctx, s.key, ToSnapshot(st), 0); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	ok, err := s.cache.Exists(ctx, s.key)
	if err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	if !ok {
		return ErrNoCheckpoint
	}
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.cache.Close()
}
