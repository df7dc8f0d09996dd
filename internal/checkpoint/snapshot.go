// Package checkpoint 负责 CrawlState 的完整快照持久化。
//
// 每处理完一个任务就整体覆盖写一次快照；任何后端都不做增量写入。
package checkpoint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/azhengyongqin/blockedby/internal/model"
	"github.com/azhengyongqin/blockedby/internal/queue"
)

const snapshotVersion = 1

var (
	// ErrNoCheckpoint 没有可用的检查点（首次运行）
	ErrNoCheckpoint = errors.New("checkpoint not found")
	// ErrCorruptCheckpoint 检查点存在但无法解析
	ErrCorruptCheckpoint = errors.New("checkpoint corrupt")
)

// Snapshot 检查点的持久化格式
type Snapshot struct {
	Version             int                 `json:"version"`
	AuthenticatedUserID string              `json:"authenticated_user_id"`
	BlockedUsers        []BlockedUserRecord `json:"blocked_users"`
	PendingTasks        model.TaskList      `json:"pending_tasks"`
	FailedTasks         model.TaskList      `json:"failed_tasks"`
	Distance1IDs        []string            `json:"distance1_ids"`
	Distance2IDs        []AdjacencyRecord   `json:"distance2_ids"`
}

// BlockedUserRecord 被拉黑用户记录
type BlockedUserRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Handle      string   `json:"handle"`
	Introducers []string `json:"introducers"`
}

// AdjacencyRecord 一度联系人及其关注/粉丝
type AdjacencyRecord struct {
	ID  string   `json:"id"`
	IDs []string `json:"ids"`
}

// ToSnapshot 将状态转换为快照（空集合编码为 []）
func ToSnapshot(st *model.CrawlState) Snapshot {
	snap := Snapshot{
		Version:             snapshotVersion,
		AuthenticatedUserID: st.AuthenticatedUserID,
		BlockedUsers:        make([]BlockedUserRecord, 0, st.BlockedUsers.Len()),
		PendingTasks:        model.TaskList(st.Pending.Items()),
		FailedTasks:         make(model.TaskList, 0, len(st.Failed)),
		Distance1IDs:        st.Distance1.Values(),
		Distance2IDs:        make([]AdjacencyRecord, 0, st.Distance2.Len()),
	}
	snap.FailedTasks = append(snap.FailedTasks, st.Failed...)

	st.BlockedUsers.Range(func(_ string, u *model.BlockedUser) bool {
		introducers := []string{}
		if u.Introducers != nil {
			introducers = u.Introducers.Values()
		}
		snap.BlockedUsers = append(snap.BlockedUsers, BlockedUserRecord{
			ID:          u.ID,
			Name:        u.Name,
			Handle:      u.Handle,
			Introducers: introducers,
		})
		return true
	})
	st.Distance2.Range(func(id string, ids *model.IDSet) bool {
		snap.Distance2IDs = append(snap.Distance2IDs, AdjacencyRecord{ID: id, IDs: ids.Values()})
		return true
	})
	return snap
}

// FromSnapshot 从快照重建状态，集合与顺序按快照还原
func FromSnapshot(snap Snapshot) (*model.CrawlState, error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	st := &model.CrawlState{
		AuthenticatedUserID: snap.AuthenticatedUserID,
		BlockedUsers:        model.NewOrderedMap[*model.BlockedUser](),
		Pending:             queue.New[model.Task](),
		Failed:              append([]model.Task{}, snap.FailedTasks...),
		Distance1:           model.NewIDSet(snap.Distance1IDs...),
		Distance2:           model.NewOrderedMap[*model.IDSet](),
	}
	st.Pending.PushBack(snap.PendingTasks...)

	for _, u := range snap.BlockedUsers {
		if u.ID == "" {
			return nil, errors.New("blocked user without id")
		}
		st.BlockedUsers.Set(u.ID, &model.BlockedUser{
			ID:          u.ID,
			Name:        u.Name,
			Handle:      u.Handle,
			Introducers: model.NewIDSet(u.Introducers...),
		})
	}
	for _, adj := range snap.Distance2IDs {
		if adj.ID == "" {
			return nil, errors.New("adjacency without id")
		}
		st.Distance2.Set(adj.ID, model.NewIDSet(adj.IDs...))
	}
	return st, nil
}

// Encode 编码状态为 JSON
func Encode(st *model.CrawlState) ([]byte, error) {
	b, err := json.MarshalIndent(ToSnapshot(st), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode 严格解码 JSON；任何解析失败都返回 ErrCorruptCheckpoint
func Decode(data []byte) (*model.CrawlState, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing content", ErrCorruptCheckpoint)
	}

	st, err := FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}
	return st, nil
}
