package checkpoint

import (
	"context"
	"errors"
	"fmt"

	"github.com/azhengyongqin/blockedby/internal/model"
	"github.com/azhengyongqin/blockedby/internal/repository"
	"github.com/azhengyongqin/blockedby/internal/storage/postgres"
)

// PostgresStore 通过 repository.CheckpointRepository 保存检查点（jsonb）
type PostgresStore struct {
	db   *postgres.DB
	repo repository.CheckpointRepository
	name string
}

// NewPostgresStore 执行迁移并打开 GORM 连接
func NewPostgresStore(ctx context.Context, dsn, name string, cfg postgres.DBConfig) (*PostgresStore, error) {
	if err := postgres.Migrate(ctx, dsn); err != nil {
		return nil, err
	}

	db, err := postgres.NewDBWithConfig(ctx, dsn, cfg)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "default"
	}
	return &PostgresStore{db: db, repo: repository.NewCheckpointRepo(db.DB), name: name}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*model.CrawlState, error) {
	c, err := s.repo.Get(ctx, s.name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCheckpoint
		}
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return Decode(c.Payload)
}

func (s *PostgresStore) Save(ctx context.Context, st *model.CrawlState) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	err = s.repo.Upsert(ctx, repository.Checkpoint{
		Name:         s.name,
		AccountID:    st.AuthenticatedUserID,
		Payload:      data,
		PendingCount: st.Pending.Len(),
		FailedCount:  len(st.Failed),
		BlockedCount: st.BlockedUsers.Len(),
	})
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoCheckpoint
		}
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
