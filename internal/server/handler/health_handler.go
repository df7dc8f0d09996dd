package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azhengyongqin/blockedby/internal/healthcheck"
)

// HealthHandler 健康检查 Handler，结果中附带当前运行阶段
type HealthHandler struct {
	healthChecker *healthcheck.HealthChecker
	progress      ProgressSource
}

// NewHealthHandler 创建 HealthHandler；progress 可为 nil
func NewHealthHandler(healthChecker *healthcheck.HealthChecker, progress ProgressSource) *HealthHandler {
	return &HealthHandler{
		healthChecker: healthChecker,
		progress:      progress,
	}
}

// Liveness godoc
// @Summary Liveness 检查
// @Description 进程存活检查，附带当前运行 ID 和爬取阶段
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.CheckResult
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	result := healthcheck.CheckResult{Status: "ok", Checks: map[string]string{"service": "running"}}
	if h.healthChecker != nil {
		result = h.healthChecker.LivenessCheck()
	}
	h.withPhase(result)
	c.JSON(http.StatusOK, result)
}

// Readiness godoc
// @Summary Readiness 检查
// @Description 检查点后端连通性检查，不可达时返回 503
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.CheckResult
// @Failure 503 {object} healthcheck.CheckResult
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := healthcheck.CheckResult{Status: "ok", Checks: map[string]string{}}
	if h.healthChecker != nil {
		result = h.healthChecker.ReadinessCheck(c.Request.Context())
	}
	h.withPhase(result)

	status := http.StatusOK
	if result.Status == "error" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}

// withPhase checks 是 map，直接写入即可
func (h *HealthHandler) withPhase(result healthcheck.CheckResult) {
	if h.progress == nil {
		return
	}
	snap := h.progress.Snapshot()
	result.Checks["phase"] = string(snap.Phase)
	if snap.RunID != "" {
		result.Checks["run_id"] = snap.RunID
	}
}
