// Package crawl 实现可恢复的单 worker 任务队列爬取引擎：
// 任务执行器、运行循环以及检查点恢复策略。
package crawl

import (
	"context"
	"errors"

	"github.com/azhengyongqin/blockedby/internal/model"
)

// BatchSize users/lookup 单次最多查询的 ID 数
const BatchSize = 100

var (
	// ErrIdentityMismatch 检查点属于另一个账号，不可重试
	ErrIdentityMismatch = errors.New("checkpoint belongs to a different account")
	// ErrNotAuthenticated 身份校验之前执行了依赖账号 ID 的任务
	ErrNotAuthenticated = errors.New("authenticated account id is not set")
	// ErrBarrierNotDrained 屏障任务执行时仍有拉取任务排队
	ErrBarrierNotDrained = errors.New("fetch tasks still pending at barrier")
	// ErrUnknownTask 无法识别的任务类型
	ErrUnknownTask = errors.New("unknown task")
)

// Client 社交网络 REST API
type Client interface {
	// VerifyIdentity 返回当前凭证对应的账号 ID
	VerifyIdentity(ctx context.Context) (string, error)
	// ListConnections 列出 subjectID 的关注(outgoing)或粉丝(incoming)中的一页
	ListConnections(ctx context.Context, dir model.Direction, subjectID, cursor string) (model.ConnectionPage, error)
	// LookupBlockedStatus 批量查询用户，并返回是否拉黑了当前账号
	LookupBlockedStatus(ctx context.Context, ids []string) ([]model.UserStatus, error)
}

// Store 检查点存储，每次保存为整体覆盖
type Store interface {
	Load(ctx context.Context) (*model.CrawlState, error)
	Save(ctx context.Context, st *model.CrawlState) error
}

// Observer 每个任务成功执行并保存后收到通知
type Observer interface {
	OnTaskDone(task model.Task, st *model.CrawlState)
}

// ObserverFunc 函数适配 Observer
type ObserverFunc func(task model.Task, st *model.CrawlState)

func (f ObserverFunc) OnTaskDone(task model.Task, st *model.CrawlState) { f(task, st) }

// IsFatal 是否为不可通过重试恢复的错误
func IsFatal(err error) bool {
	return errors.Is(err, ErrIdentityMismatch)
}
