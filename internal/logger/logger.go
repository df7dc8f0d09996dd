package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// L 全局 logger
	L zerolog.Logger = zerolog.Nop()
)

// Init 初始化日志器
func Init(production bool) error {
	return InitWithWriter(production, os.Stdout)
}

// InitWithWriter 初始化日志器并指定输出（测试中可传入 buffer）
func InitWithWriter(production bool, out io.Writer) error {
	// 设置时间格式
	zerolog.TimeFieldFormat = time.RFC3339

	if production {
		// 生产环境：JSON 格式输出
		L = zerolog.New(out).
			With().
			Timestamp().
			Caller().
			Logger()
	} else {
		// 开发环境：控制台友好格式
		output := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			// 自定义字段输出顺序
			FieldsOrder: []string{
				"run_id",       // 1. 运行 ID
				"task_kind",    // 2. 任务类型
				"task",         // 3. 任务描述
				"remaining",    // 4. 剩余任务数
				"duration(ms)", // 5. 耗时
				"method",       // 6. HTTP 方法
				"path",         // 7. 请求路径
				"status",       // 8. 状态码
				"errors",       // 9. 错误信息
			},
		}
		L = zerolog.New(output).
			With().
			Timestamp().
			Caller().
			Logger()
	}

	// 设置全局日志级别
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return nil
}

// Sync zerolog 不需要显式 sync，保留接口兼容性
func Sync() {
	// zerolog 不需要显式 sync
}

// SetLevel 设置日志级别
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// WithRequestID 添加 request_id
func WithRequestID(requestID string) zerolog.Logger {
	return L.With().Str("request_id", requestID).Logger()
}

// WithRunID 添加 run_id（每次 supervisor 重启生成一个）
func WithRunID(runID string) zerolog.Logger {
	return L.With().Str("run_id", runID).Logger()
}

// WithComponent 添加 component
func WithComponent(component string) zerolog.Logger {
	return L.With().Str("component", component).Logger()
}

// Info 输出 info 级别日志
func Info() *zerolog.Event {
	return L.Info()
}

// Warn 输出 warn 级别日志
func Warn() *zerolog.Event {
	return L.Warn()
}

// Error 输出 error 级别日志
func Error() *zerolog.Event {
	return L.Error()
}

// Fatal 输出 fatal 级别日志并退出
func Fatal() *zerolog.Event {
	return L.Fatal()
}
