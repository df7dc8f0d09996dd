// Package supervisor 在出错时按退避时间重启一次完整的运行。
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/metrics"
)

// RetryConfig 重启配置
type RetryConfig struct {
	Backoff       time.Duration // 首次重启前等待，默认 60秒
	MaxBackoff    time.Duration // 最大等待，默认与 Backoff 相同
	BackoffFactor float64       // 退避因子，默认 1.0（固定间隔）
	MaxRestarts   int           // 最大重启次数，0 表示不限
	// MinDelay 错误自带的最短等待（例如限流重置时间），大于退避时间时以它为准
	MinDelay func(err error) time.Duration
}

// DefaultRetryConfig 固定 60 秒、无限次重启
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Backoff:       60 * time.Second,
		BackoffFactor: 1.0,
	}
}

// Attempt 一次运行；runID 用于串联同一次运行的日志
type Attempt func(ctx context.Context, runID string) error

// Supervisor 重启循环
type Supervisor struct {
	cfg   RetryConfig
	fatal func(error) bool
	log   zerolog.Logger
	wait  func(ctx context.Context, d time.Duration) error
}

// New fatal 返回 true 的错误不再重启
func New(cfg RetryConfig, fatal func(error) bool, log zerolog.Logger) *Supervisor {
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = 1
	}
	if cfg.MaxBackoff < cfg.Backoff {
		cfg.MaxBackoff = cfg.Backoff
	}
	if fatal == nil {
		fatal = func(error) bool { return false }
	}
	return &Supervisor{cfg: cfg, fatal: fatal, log: log, wait: wait}
}

// Run 反复执行 attempt 直到成功、遇到致命错误、超过重启次数或 ctx 取消
func (s *Supervisor) Run(ctx context.Context, attempt Attempt) error {
	backoff := s.cfg.Backoff

	for restarts := 0; ; restarts++ {
		runID := uuid.NewString()
		err := attempt(ctx, runID)
		if err == nil {
			if restarts > 0 {
				s.log.Info().Str("run_id", runID).Int("restarts", restarts).Msg("重启后运行成功")
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		if s.fatal(err) {
			metrics.RecordError("supervisor", "fatal")
			s.log.Error().Err(err).Str("run_id", runID).Msg("致命错误，停止运行")
			return err
		}
		if s.cfg.MaxRestarts > 0 && restarts >= s.cfg.MaxRestarts {
			return fmt.Errorf("已达最大重启次数 %d: %w", s.cfg.MaxRestarts, err)
		}

		delay := backoff
		if s.cfg.MinDelay != nil {
			delay = max(delay, s.cfg.MinDelay(err))
		}

		metrics.RecordRestart()
		s.log.Warn().
			Err(err).
			Str("run_id", runID).
			Int("restarts", restarts+1).
			Dur("backoff", delay).
			Msg("运行出错，等待后重启")

		if err := s.wait(ctx, delay); err != nil {
			return err
		}

		backoff = time.Duration(float64(backoff) * s.cfg.BackoffFactor)
		if backoff > s.cfg.MaxBackoff {
			backoff = s.cfg.MaxBackoff
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
