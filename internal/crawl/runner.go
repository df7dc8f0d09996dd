package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/metrics"
	"github.com/azhengyongqin/blockedby/internal/model"
)

const (
	DefaultFetchDelay  = 60 * time.Second
	DefaultLookupDelay = time.Second
)

// Pacing 各类任务执行前的固定等待，用于遵守 API 限流
type Pacing struct {
	FetchDelay  time.Duration
	LookupDelay time.Duration
}

func DefaultPacing() Pacing {
	return Pacing{FetchDelay: DefaultFetchDelay, LookupDelay: DefaultLookupDelay}
}

// DelayFor 返回执行 kind 之前需要等待的时长
func (p Pacing) DelayFor(kind model.TaskKind) time.Duration {
	switch kind {
	case model.KindFetchDistance1, model.KindFetchDistance2:
		return p.FetchDelay
	case model.KindCheckBlocked:
		return p.LookupDelay
	default:
		return 0
	}
}

// Runner 逐个弹出任务执行，每个任务完成后保存检查点
type Runner struct {
	exec     *Executor
	store    Store
	pacing   Pacing
	observer Observer
	log      zerolog.Logger
	wait     func(ctx context.Context, d time.Duration) error
}

type Option func(*Runner)

func WithPacing(p Pacing) Option {
	return func(r *Runner) { r.pacing = p }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func NewRunner(client Client, store Store, opts ...Option) *Runner {
	r := &Runner{
		store:  store,
		pacing: DefaultPacing(),
		log:    zerolog.Nop(),
		wait:   sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.exec = NewExecutor(client, r.log)
	return r
}

// Run 处理队列直到为空。
// 执行或保存失败时直接返回错误，不保存检查点；检查点中仍保留该任务，
// 从检查点重新加载后会再次执行它。执行失败时任务同时被放回内存队列的队首。
func (r *Runner) Run(ctx context.Context, st *model.CrawlState) error {
	r.log.Info().
		Int("remaining", st.Pending.Len()).
		Bool("resumed", st.Resumed).
		Msg("开始处理任务队列")

	for {
		task, ok := st.Pending.PopFront()
		if !ok {
			break
		}
		if err := r.runOne(ctx, st, task); err != nil {
			return err
		}
	}

	r.log.Info().
		Int("blocked", st.BlockedUsers.Len()).
		Int("failed", len(st.Failed)).
		Msg("任务队列已清空")
	return nil
}

func (r *Runner) runOne(ctx context.Context, st *model.CrawlState, task model.Task) error {
	kind := task.Kind()
	log := r.log.With().Str("task_kind", string(kind)).Logger()

	if err := r.wait(ctx, r.pacing.DelayFor(kind)); err != nil {
		st.Pending.PushFront(task)
		return err
	}

	failedBefore := len(st.Failed)
	start := time.Now()
	err := r.exec.Execute(ctx, st, task)
	elapsed := time.Since(start)
	if err != nil {
		st.Pending.PushFront(task)
		metrics.RecordTask(string(kind), "error", elapsed.Seconds())
		metrics.RecordError("executor", string(kind))
		log.Error().Err(err).Str("task", model.Describe(task)).Msg("任务执行失败")
		return fmt.Errorf("%s: %w", model.Describe(task), err)
	}

	result := "success"
	if len(st.Failed) > failedBefore {
		result = "recorded_failure"
	}
	metrics.RecordTask(string(kind), result, elapsed.Seconds())

	saveStart := time.Now()
	if err := r.store.Save(ctx, st); err != nil {
		metrics.RecordError("checkpoint", "save")
		log.Error().Err(err).Msg("保存检查点失败")
		return fmt.Errorf("save checkpoint: %w", err)
	}
	metrics.RecordCheckpointSave(time.Since(saveStart).Seconds())
	metrics.UpdateCrawlStats(st.Pending.Len(), len(st.Failed), st.BlockedUsers.Len())

	log.Debug().
		Str("task", model.Describe(task)).
		Int("remaining", st.Pending.Len()).
		Dur("duration", elapsed).
		Msg("任务完成")

	if r.observer != nil {
		r.observer.OnTaskDone(task, st)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
