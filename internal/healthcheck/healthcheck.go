package healthcheck

import (
	"context"
	"sync"
	"time"
)

// Pinger 可做连通性检查的依赖（检查点后端等）
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc 函数适配 Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthChecker 健康检查器
type HealthChecker struct {
	version string
	timeout time.Duration

	mu     sync.RWMutex
	names  []string
	checks map[string]Pinger
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version: version,
		timeout: 2 * time.Second,
		checks:  map[string]Pinger{},
	}
}

// Register 注册就绪检查项，同名覆盖
func (h *HealthChecker) Register(name string, p Pinger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.checks[name]; !ok {
		h.names = append(h.names, name)
	}
	h.checks[name] = p
}

// CheckResult 健康检查结果
type CheckResult struct {
	Status  string            `json:"status"` // "ok" or "error"
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}

// LivenessCheck 存活检查（快速返回，不检查依赖）
func (h *HealthChecker) LivenessCheck() CheckResult {
	return CheckResult{
		Status:  "ok",
		Checks:  map[string]string{"service": "running"},
		Version: h.version,
	}
}

// ReadinessCheck 就绪检查（检查所有已注册依赖）
func (h *HealthChecker) ReadinessCheck(ctx context.Context) CheckResult {
	if ctx == nil {
		ctx = context.Background()
	}

	h.mu.RLock()
	names := append([]string(nil), h.names...)
	checks := make(map[string]Pinger, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()

	result := CheckResult{
		Status:  "ok",
		Checks:  make(map[string]string, len(names)),
		Version: h.version,
	}
	for _, name := range names {
		if err := h.ping(ctx, checks[name]); err != nil {
			result.Checks[name] = "error: " + err.Error()
			result.Status = "error"
		} else {
			result.Checks[name] = "ok"
		}
	}
	return result
}

func (h *HealthChecker) ping(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return p.Ping(ctx)
}
