package crawl

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/model"
)

// Executor 执行单个任务：修改状态并把后续任务插入队首。
// 出错时不修改状态（FetchDistance2 的失败记录除外）。
type Executor struct {
	client Client
	log    zerolog.Logger
}

func NewExecutor(client Client, log zerolog.Logger) *Executor {
	return &Executor{client: client, log: log}
}

func (e *Executor) Execute(ctx context.Context, st *model.CrawlState, task model.Task) error {
	switch t := task.(type) {
	case model.VerifyIdentity:
		return e.verifyIdentity(ctx, st)
	case model.FetchDistance1:
		return e.fetchDistance1(ctx, st, t)
	case model.FetchDistance2:
		return e.fetchDistance2(ctx, st, t)
	case model.EndFetchUsers:
		return e.endFetchUsers(st)
	case model.CheckBlocked:
		return e.checkBlocked(ctx, st, t)
	case model.EndCheckBlocked:
		return e.endCheckBlocked(st)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownTask, task)
	}
}

func (e *Executor) verifyIdentity(ctx context.Context, st *model.CrawlState) error {
	id, err := e.client.VerifyIdentity(ctx)
	if err != nil {
		return fmt.Errorf("verify identity: %w", err)
	}
	if id == "" {
		return errors.New("verify identity: empty account id")
	}

	// 恢复的检查点必须属于同一账号，存储的 ID 为空也视为不一致
	if st.Resumed && st.AuthenticatedUserID != id {
		return fmt.Errorf("%w: checkpoint=%q credentials=%q", ErrIdentityMismatch, st.AuthenticatedUserID, id)
	}
	if st.AuthenticatedUserID != id {
		e.log.Info().Str("account_id", id).Msg("账号身份已确认")
	}
	st.AuthenticatedUserID = id
	return nil
}

func (e *Executor) fetchDistance1(ctx context.Context, st *model.CrawlState, t model.FetchDistance1) error {
	if st.AuthenticatedUserID == "" {
		return ErrNotAuthenticated
	}
	if !t.Direction.Valid() {
		return fmt.Errorf("fetch distance-1: invalid direction %q", t.Direction)
	}

	page, err := e.client.ListConnections(ctx, t.Direction, st.AuthenticatedUserID, t.Cursor)
	if err != nil {
		return fmt.Errorf("fetch distance-1 %s: %w", t.Direction, err)
	}
	st.Distance1.Add(page.IDs...)

	if !page.Last() {
		st.Pending.PushFront(model.FetchDistance1{Direction: t.Direction, Cursor: page.NextCursor})
		return nil
	}

	switch t.Direction {
	case model.Outgoing:
		st.Pending.PushFront(model.FetchDistance1{Direction: model.Incoming, Cursor: model.FirstCursor})
	case model.Incoming:
		ids := st.Distance1.Values()
		next := make([]model.Task, 0, len(ids))
		for _, id := range ids {
			next = append(next, model.FetchDistance2{Direction: model.Outgoing, SubjectID: id, Cursor: model.FirstCursor})
		}
		st.Pending.PushFront(next...)
		e.log.Info().Int("distance1", len(ids)).Msg("一度联系人拉取完成")
	}
	return nil
}

// fetchDistance2 单个联系人失败不影响整体：记录到 Failed 后继续。
// 只有上下文取消才向上返回。
func (e *Executor) fetchDistance2(ctx context.Context, st *model.CrawlState, t model.FetchDistance2) error {
	if st.AuthenticatedUserID == "" {
		return ErrNotAuthenticated
	}
	if !t.Direction.Valid() {
		return fmt.Errorf("fetch distance-2: invalid direction %q", t.Direction)
	}

	page, err := e.client.ListConnections(ctx, t.Direction, t.SubjectID, t.Cursor)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		st.Failed = append(st.Failed, t)
		if _, ok := st.Distance2.Get(t.SubjectID); ok {
			st.Distance2.Set(t.SubjectID, model.NewIDSet())
		}
		e.log.Warn().Err(err).Str("task", model.Describe(t)).Msg("二度联系人拉取失败，已记录")
		return nil
	}

	ids, ok := st.Distance2.Get(t.SubjectID)
	if !ok {
		ids = model.NewIDSet()
		st.Distance2.Set(t.SubjectID, ids)
	}
	ids.Add(page.IDs...)

	if !page.Last() {
		st.Pending.PushFront(model.FetchDistance2{Direction: t.Direction, SubjectID: t.SubjectID, Cursor: page.NextCursor})
		return nil
	}
	if t.Direction == model.Outgoing {
		st.Pending.PushFront(model.FetchDistance2{Direction: model.Incoming, SubjectID: t.SubjectID, Cursor: model.FirstCursor})
	}
	return nil
}

func (e *Executor) endFetchUsers(st *model.CrawlState) error {
	for _, task := range st.Pending.Items() {
		switch task.(type) {
		case model.FetchDistance1, model.FetchDistance2:
			return fmt.Errorf("%w: %s", ErrBarrierNotDrained, model.Describe(task))
		}
	}

	union := model.NewIDSet()
	st.Distance2.Range(func(_ string, ids *model.IDSet) bool {
		union.Add(ids.Values()...)
		return true
	})

	batches := Partition(union.Values(), BatchSize)
	next := make([]model.Task, 0, len(batches))
	for _, b := range batches {
		next = append(next, model.CheckBlocked{IDs: b})
	}
	st.Pending.PushFront(next...)

	e.log.Info().
		Int("distance2", union.Len()).
		Int("batches", len(batches)).
		Msg("二度联系人拉取完成，开始检查拉黑状态")
	return nil
}

func (e *Executor) checkBlocked(ctx context.Context, st *model.CrawlState, t model.CheckBlocked) error {
	if st.AuthenticatedUserID == "" {
		return ErrNotAuthenticated
	}
	if len(t.IDs) == 0 {
		return nil
	}

	users, err := e.client.LookupBlockedStatus(ctx, t.IDs)
	if err != nil {
		return fmt.Errorf("lookup %d users: %w", len(t.IDs), err)
	}

	for _, u := range users {
		if !u.BlockedByViewer {
			continue
		}
		st.BlockedUsers.Set(u.ID, &model.BlockedUser{
			ID:          u.ID,
			Name:        u.Name,
			Handle:      u.Handle,
			Introducers: model.NewIDSet(),
		})
		e.log.Info().Str("user_id", u.ID).Str("handle", u.Handle).Msg("发现拉黑用户")
	}
	return nil
}

// endCheckBlocked 从头重算每个拉黑用户的介绍人，可重复执行
func (e *Executor) endCheckBlocked(st *model.CrawlState) error {
	st.BlockedUsers.Range(func(_ string, u *model.BlockedUser) bool {
		introducers := model.NewIDSet()
		st.Distance2.Range(func(d1 string, ids *model.IDSet) bool {
			if ids.Has(u.ID) {
				introducers.Add(d1)
			}
			return true
		})
		u.Introducers = introducers
		return true
	})

	e.log.Info().Int("blocked", st.BlockedUsers.Len()).Int("failed", len(st.Failed)).Msg("拉黑检查完成")
	return nil
}

// Partition 按 size 切分 ids，保持顺序
func Partition(ids []string, size int) [][]string {
	if size <= 0 {
		size = BatchSize
	}
	out := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batch := make([]string, end-start)
		copy(batch, ids[start:end])
		out = append(out, batch)
	}
	return out
}
