package crawl

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/checkpoint"
	"github.com/azhengyongqin/blockedby/internal/model"
)

// Bootstrap 加载检查点，没有或已损坏时从头开始。
// 每次启动都在队首放一个 VerifyIdentity，用于确认凭证与检查点属于同一账号。
// 后端不可用等其它错误直接返回，避免用全新状态覆盖已有检查点。
func Bootstrap(ctx context.Context, store Store, log zerolog.Logger) (*model.CrawlState, error) {
	st, err := store.Load(ctx)
	switch {
	case err == nil:
		st.Resumed = true
		log.Info().
			Str("account_id", st.AuthenticatedUserID).
			Int("remaining", st.Pending.Len()).
			Int("blocked", st.BlockedUsers.Len()).
			Msg("从检查点恢复")
	case errors.Is(err, checkpoint.ErrNoCheckpoint):
		st = model.NewCrawlState()
		log.Info().Msg("未找到检查点，开始新的爬取")
	case errors.Is(err, checkpoint.ErrCorruptCheckpoint):
		st = model.NewCrawlState()
		log.Warn().Err(err).Msg("检查点已损坏，开始新的爬取")
	default:
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	if head, ok := st.Pending.Peek(); !ok || head.Kind() != model.KindVerifyIdentity {
		st.Pending.PushFront(model.VerifyIdentity{})
	}
	return st, nil
}
