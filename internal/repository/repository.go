package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// Checkpoint 检查点实体，Payload 为完整快照
type Checkpoint struct {
	Name         string          `json:"name"`
	AccountID    string          `json:"account_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
	PendingCount int             `json:"pending_count"`
	FailedCount  int             `json:"failed_count"`
	BlockedCount int             `json:"blocked_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CheckpointRepository 检查点仓储接口
type CheckpointRepository interface {
	// Upsert 按 name 创建或整体覆盖检查点
	Upsert(ctx context.Context, c Checkpoint) error

	// Get 根据 name 获取检查点，不存在时返回 ErrNotFound
	Get(ctx context.Context, name string) (*Checkpoint, error)

	// Delete 删除检查点，不存在时返回 ErrNotFound
	Delete(ctx context.Context, name string) error
}
