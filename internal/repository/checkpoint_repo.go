package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckpointRepo struct {
	db *gorm.DB
}

func NewCheckpointRepo(db *gorm.DB) *CheckpointRepo {
	return &CheckpointRepo{db: db}
}

var _ CheckpointRepository = (*CheckpointRepo)(nil)

func (r *CheckpointRepo) Upsert(ctx context.Context, c Checkpoint) error {
	if c.Name == "" {
		return errors.New("checkpoint name 不能为空")
	}
	m := CheckpointToModel(c)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_id", "payload", "pending_count", "failed_count", "blocked_count", "updated_at",
		}),
	}).Create(&m).Error
}

func (r *CheckpointRepo) Get(ctx context.Context, name string) (*Checkpoint, error) {
	var m CheckpointModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := m.ToCheckpoint()
	return &c, nil
}

func (r *CheckpointRepo) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&CheckpointModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
