package checkpoint

import (
	"context"
	"fmt"

	"github.com/azhengyongqin/blockedby/internal/cache"
	"github.com/azhengyongqin/blockedby/internal/config"
	"github.com/azhengyongqin/blockedby/internal/model"
	"github.com/azhengyongqin/blockedby/internal/storage/postgres"
)

// Store 检查点后端
type Store interface {
	Load(ctx context.Context) (*model.CrawlState, error)
	Save(ctx context.Context, st *model.CrawlState) error
	// Delete 删除检查点，不存在时返回 ErrNoCheckpoint
	Delete(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// Open 按 STATE_BACKEND 打开检查点后端
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.State.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.State.File)
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.State.SQLitePath, cfg.State.Name)
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(c, cfg.State.Name), nil
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.Postgres.DSN, cfg.State.Name, postgres.DBConfig{
			MaxOpenConns:    int(cfg.DBPool.MaxConns),
			MaxIdleConns:    int(cfg.DBPool.MinConns),
			ConnMaxLifetime: cfg.DBPool.MaxConnLifetime,
			ConnMaxIdleTime: cfg.DBPool.MaxConnIdleTime,
		})
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}
