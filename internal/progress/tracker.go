// Package progress 跟踪爬取进度，供日志和状态 API 读取。
package progress

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/model"
	"github.com/azhengyongqin/blockedby/internal/report"
)

// Phase 爬取阶段
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhaseFetching Phase = "fetching"
	PhaseChecking Phase = "checking"
	PhaseDone     Phase = "done"
)

// Snapshot 进度快照（副本，可在任意 goroutine 读取）
type Snapshot struct {
	RunID     string        `json:"run_id"`
	Phase     Phase         `json:"phase"`
	Processed int           `json:"processed"`
	LastTask  string        `json:"last_task"`
	UpdatedAt time.Time     `json:"updated_at"`
	Result    report.Result `json:"result"`
}

// Tracker 实现 crawl.Observer。
// OnTaskDone 在运行循环的 goroutine 中被调用，Snapshot 可被 HTTP handler 并发读取。
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	log  zerolog.Logger
	now  func() time.Time
}

func NewTracker(log zerolog.Logger) *Tracker {
	t := &Tracker{log: log, now: time.Now}
	t.snap = Snapshot{
		Phase:     PhaseStarting,
		UpdatedAt: t.now(),
		Result: report.Result{
			BlockedUsers: []report.BlockedUser{},
			FailedTasks:  []string{},
		},
	}
	return t
}

// Reset 开始新一次运行（bootstrap 之后调用）
func (t *Tracker) Reset(runID string, st *model.CrawlState) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = Snapshot{
		RunID:     runID,
		Phase:     phaseOf(st),
		UpdatedAt: now,
		Result:    report.FromState(st, now),
	}
}

// OnTaskDone 每个任务完成并保存检查点后更新进度
func (t *Tracker) OnTaskDone(task model.Task, st *model.CrawlState) {
	now := t.now()
	result := report.FromState(st, now)

	t.mu.Lock()
	t.snap.Processed++
	t.snap.LastTask = model.Describe(task)
	t.snap.Phase = phaseOf(st)
	t.snap.UpdatedAt = now
	t.snap.Result = result
	processed := t.snap.Processed
	t.mu.Unlock()

	t.log.Info().
		Str("task", model.Describe(task)).
		Int("processed", processed).
		Int("remaining", result.Remaining).
		Int("blocked", len(result.BlockedUsers)).
		Msg("进度")
}

// Snapshot 返回当前进度的副本
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := t.snap
	snap.Result.BlockedUsers = slices.Clone(t.snap.Result.BlockedUsers)
	snap.Result.FailedTasks = slices.Clone(t.snap.Result.FailedTasks)
	return snap
}

// phaseOf 根据队列中剩余的任务推断阶段
func phaseOf(st *model.CrawlState) Phase {
	if st.Pending.Len() == 0 {
		return PhaseDone
	}
	for _, task := range st.Pending.Items() {
		if task.Kind() == model.KindEndFetchUsers {
			return PhaseFetching
		}
	}
	return PhaseChecking
}
