package supervisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ShutdownManager 优雅关闭管理器，按添加的逆序执行钩子
type ShutdownManager struct {
	timeout time.Duration
	hooks   []namedHook
	log     zerolog.Logger
	mu      sync.Mutex
}

type namedHook struct {
	name string
	fn   func(context.Context) error
}

func NewShutdownManager(timeout time.Duration, log zerolog.Logger) *ShutdownManager {
	return &ShutdownManager{timeout: timeout, log: log}
}

// AddHook 添加关闭钩子
func (g *ShutdownManager) AddHook(name string, hook func(context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, namedHook{name: name, fn: hook})
}

// Shutdown 执行全部钩子，单个失败不影响其余钩子
func (g *ShutdownManager) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.mu.Lock()
	hooks := make([]namedHook, len(g.hooks))
	copy(hooks, g.hooks)
	g.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if err := h.fn(ctx); err != nil {
			g.log.Error().Err(err).Str("hook", h.name).Msg("关闭钩子执行失败")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
