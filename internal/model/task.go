package model

import (
	"encoding/json"
	"fmt"
)

// TaskKind 任务类型枚举（用于调度节流/指标/持久化标签）。
// 约定：
// - verify_identity: 确认当前认证账号 ID
// - fetch_distance1: 分页拉取自己的关注/粉丝
// - fetch_distance2: 分页拉取某个一度联系人的关注/粉丝
// - end_fetch_users: 屏障，拉取完毕后切分待检查批次
// - check_blocked: 批量查询 blocked_by 状态
// - end_check_blocked: 屏障，为被拉黑用户计算介绍人
type TaskKind string

const (
	KindVerifyIdentity  TaskKind = "verify_identity"
	KindFetchDistance1  TaskKind = "fetch_distance1"
	KindFetchDistance2  TaskKind = "fetch_distance2"
	KindEndFetchUsers   TaskKind = "end_fetch_users"
	KindCheckBlocked    TaskKind = "check_blocked"
	KindEndCheckBlocked TaskKind = "end_check_blocked"
)

// Direction 关系方向：outgoing=关注，incoming=粉丝
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

func (d Direction) Valid() bool {
	return d == Outgoing || d == Incoming
}

const (
	// FirstCursor 开始一次分页
	FirstCursor = "-1"
	// LastCursor 服务端返回该游标表示没有更多页
	LastCursor = "0"
)

// Task 是封闭的任务变体集合，只有本包内的类型可以实现。
type Task interface {
	Kind() TaskKind
	isTask()
}

type VerifyIdentity struct{}

type FetchDistance1 struct {
	Direction Direction
	Cursor    string
}

type FetchDistance2 struct {
	Direction Direction
	SubjectID string
	Cursor    string
}

type EndFetchUsers struct{}

type CheckBlocked struct {
	IDs []string
}

type EndCheckBlocked struct{}

func (VerifyIdentity) Kind() TaskKind  { return KindVerifyIdentity }
func (FetchDistance1) Kind() TaskKind  { return KindFetchDistance1 }
func (FetchDistance2) Kind() TaskKind  { return KindFetchDistance2 }
func (EndFetchUsers) Kind() TaskKind   { return KindEndFetchUsers }
func (CheckBlocked) Kind() TaskKind    { return KindCheckBlocked }
func (EndCheckBlocked) Kind() TaskKind { return KindEndCheckBlocked }

func (VerifyIdentity) isTask()  {}
func (FetchDistance1) isTask()  {}
func (FetchDistance2) isTask()  {}
func (EndFetchUsers) isTask()   {}
func (CheckBlocked) isTask()    {}
func (EndCheckBlocked) isTask() {}

// taskEnvelope 任务的持久化格式（扁平对象 + type 标签）
type taskEnvelope struct {
	Type      TaskKind  `json:"type"`
	Direction Direction `json:"direction,omitempty"`
	SubjectID string    `json:"subject_id,omitempty"`
	Cursor    string    `json:"cursor,omitempty"`
	// IDs 只有 check_blocked 写入；空批次编码为 []
	IDs *[]string `json:"ids,omitempty"`
}

// EncodeTask 将任务编码为 JSON
func EncodeTask(t Task) ([]byte, error) {
	env := taskEnvelope{}
	switch v := t.(type) {
	case VerifyIdentity, EndFetchUsers, EndCheckBlocked:
		env.Type = v.Kind()
	case FetchDistance1:
		env = taskEnvelope{Type: v.Kind(), Direction: v.Direction, Cursor: v.Cursor}
	case FetchDistance2:
		env = taskEnvelope{Type: v.Kind(), Direction: v.Direction, SubjectID: v.SubjectID, Cursor: v.Cursor}
	case CheckBlocked:
		ids := v.IDs
		if ids == nil {
			ids = []string{}
		}
		env = taskEnvelope{Type: v.Kind(), IDs: &ids}
	default:
		return nil, fmt.Errorf("unknown task variant %T", t)
	}
	return json.Marshal(env)
}

// DecodeTask 从 JSON 解码任务，未知 type 返回错误
func DecodeTask(data []byte) (Task, error) {
	var env taskEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	switch env.Type {
	case KindVerifyIdentity:
		return VerifyIdentity{}, nil
	case KindFetchDistance1:
		if !env.Direction.Valid() {
			return nil, fmt.Errorf("task %s: invalid direction %q", env.Type, env.Direction)
		}
		return FetchDistance1{Direction: env.Direction, Cursor: env.Cursor}, nil
	case KindFetchDistance2:
		if !env.Direction.Valid() {
			return nil, fmt.Errorf("task %s: invalid direction %q", env.Type, env.Direction)
		}
		if env.SubjectID == "" {
			return nil, fmt.Errorf("task %s: subject_id is required", env.Type)
		}
		return FetchDistance2{Direction: env.Direction, SubjectID: env.SubjectID, Cursor: env.Cursor}, nil
	case KindEndFetchUsers:
		return EndFetchUsers{}, nil
	case KindCheckBlocked:
		ids := []string{}
		if env.IDs != nil && *env.IDs != nil {
			ids = *env.IDs
		}
		return CheckBlocked{IDs: ids}, nil
	case KindEndCheckBlocked:
		return EndCheckBlocked{}, nil
	default:
		return nil, fmt.Errorf("unknown task type %q", env.Type)
	}
}

// TaskList 可 JSON 序列化的任务序列
type TaskList []Task

func (l TaskList) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(l))
	for _, t := range l {
		b, err := EncodeTask(t)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(raw)
}

func (l *TaskList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TaskList, 0, len(raw))
	for i, r := range raw {
		t, err := DecodeTask(r)
		if err != nil {
			return fmt.Errorf("task[%d]: %w", i, err)
		}
		out = append(out, t)
	}
	*l = out
	return nil
}

// Describe 返回便于日志输出的任务描述
func Describe(t Task) string {
	switch v := t.(type) {
	case FetchDistance1:
		return fmt.Sprintf("%s(%s, cursor=%s)", v.Kind(), v.Direction, v.Cursor)
	case FetchDistance2:
		return fmt.Sprintf("%s(%s, subject=%s, cursor=%s)", v.Kind(), v.Direction, v.SubjectID, v.Cursor)
	case CheckBlocked:
		return fmt.Sprintf("%s(%d ids)", v.Kind(), len(v.IDs))
	default:
		return string(t.Kind())
	}
}
