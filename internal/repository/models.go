package repository

import (
	"encoding/json"
	"time"
)

// CheckpointModel GORM 模型 - 对应 crawl_checkpoint 表
type CheckpointModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Name         string          `gorm:"column:name;uniqueIndex;type:text;not null"`
	AccountID    *string         `gorm:"column:account_id;type:text"`
	Payload      json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	PendingCount int             `gorm:"column:pending_count;default:0"`
	FailedCount  int             `gorm:"column:failed_count;default:0"`
	BlockedCount int             `gorm:"column:blocked_count;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime;index:idx_crawl_checkpoint_updated_at,sort:desc"`
}

// TableName 指定表名
func (CheckpointModel) TableName() string { return "crawl_checkpoint" }

// ToCheckpoint 转换为 Checkpoint 实体
func (m *CheckpointModel) ToCheckpoint() Checkpoint {
	c := Checkpoint{
		Name:         m.Name,
		Payload:      m.Payload,
		PendingCount: m.PendingCount,
		FailedCount:  m.FailedCount,
		BlockedCount: m.BlockedCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.AccountID != nil {
		c.AccountID = *m.AccountID
	}
	return c
}

// CheckpointToModel 从 Checkpoint 实体创建模型
func CheckpointToModel(c Checkpoint) CheckpointModel {
	m := CheckpointModel{
		Name:         c.Name,
		Payload:      c.Payload,
		PendingCount: c.PendingCount,
		FailedCount:  c.FailedCount,
		BlockedCount: c.BlockedCount,
	}
	if c.AccountID != "" {
		m.AccountID = &c.AccountID
	}
	return m
}
