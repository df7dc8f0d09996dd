package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockedby_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockedby_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 任务指标
	TasksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockedby_tasks_processed_total",
			Help: "Total number of crawl tasks processed",
		},
		[]string{"kind", "result"},
	)

	TaskExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockedby_task_execution_duration_seconds",
			Help:    "Crawl task execution duration in seconds (pacing excluded)",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// 队列与结果指标
	PendingTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockedby_pending_tasks",
			Help: "Number of tasks left in the queue",
		},
	)

	FailedTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockedby_failed_tasks",
			Help: "Number of distance-2 fetches recorded as failed",
		},
	)

	BlockedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockedby_blocked_users",
			Help: "Number of distance-2 users that block the account",
		},
	)

	// 检查点指标
	CheckpointSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockedby_checkpoint_save_duration_seconds",
			Help:    "Checkpoint save latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// 重启指标
	RunRestartsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockedby_run_restarts_total",
			Help: "Total number of crawl restarts after an error",
		},
	)

	// 错误指标
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockedby_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "type"},
	)
)

// RecordHTTPRequest 记录 HTTP 请求
func RecordHTTPRequest(method, path string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordTask 记录任务执行结果
func RecordTask(kind, result string, duration float64) {
	TasksProcessedTotal.WithLabelValues(kind, result).Inc()
	if duration > 0 {
		TaskExecutionDuration.WithLabelValues(kind).Observe(duration)
	}
}

// UpdateCrawlStats 更新队列与结果统计
func UpdateCrawlStats(pending, failed, blocked int) {
	PendingTasks.Set(float64(pending))
	FailedTasks.Set(float64(failed))
	BlockedUsers.Set(float64(blocked))
}

// RecordCheckpointSave 记录检查点写入耗时
func RecordCheckpointSave(duration float64) {
	CheckpointSaveDuration.Observe(duration)
}

// RecordRestart 记录一次重启
func RecordRestart() {
	RunRestartsTotal.Inc()
}

// RecordError 记录错误
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// statusClass 将 HTTP 状态码转为类别
func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
