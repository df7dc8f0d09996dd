package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/azhengyongqin/blockedby/internal/storage/postgres"
)

// 支持的检查点后端
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config 应用配置
type Config struct {
	Credentials CredentialsConfig
	API         APIConfig
	State       StateConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	DBPool      DBPoolConfig
	Crawl       CrawlConfig
	HTTP        HTTPConfig
	Monitoring  MonitoringConfig
	Log         LogConfig
	Report      ReportConfig
}

// CredentialsConfig OAuth1 用户凭据
type CredentialsConfig struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// APIConfig REST API 配置
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StateConfig 检查点配置
type StateConfig struct {
	Backend    string
	File       string
	Name       string
	SQLitePath string
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr string
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	DSN string
}

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// CrawlConfig 调度节流配置
type CrawlConfig struct {
	FetchDelay     time.Duration // 拉取关注/粉丝前的等待
	LookupDelay    time.Duration // 批量查询前的等待
	RestartBackoff time.Duration // 出错后重启前的等待
}

// HTTPConfig 状态 API 配置
type HTTPConfig struct {
	Addr string
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Enabled bool
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	Production bool
}

// ReportConfig 结果报告配置
type ReportConfig struct {
	File string
}

// Load 加载配置
func Load() (*Config, error) {
	// .env 中的凭据写入进程环境变量（已存在的环境变量优先）
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// 允许从环境变量读取（优先级最高）
	v.AutomaticEnv()

	cfg := &Config{}

	// 凭据
	cfg.Credentials.ConsumerKey = v.GetString("CONSUMER_KEY")
	cfg.Credentials.ConsumerSecret = v.GetString("CONSUMER_SECRET")
	cfg.Credentials.AccessToken = v.GetString("ACCESS_TOKEN")
	cfg.Credentials.AccessTokenSecret = v.GetString("ACCESS_TOKEN_SECRET")

	// API 配置
	cfg.API.BaseURL = strings.TrimRight(v.GetString("API_BASE_URL"), "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.twitter.com/1.1"
	}
	cfg.API.Timeout = v.GetDuration("API_TIMEOUT")
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}

	// 检查点配置
	cfg.State.Backend = strings.ToLower(v.GetString("STATE_BACKEND"))
	if cfg.State.Backend == "" {
		cfg.State.Backend = BackendFile
	}
	cfg.State.File = v.GetString("STATE_FILE")
	if cfg.State.File == "" {
		cfg.State.File = "data.json"
	}
	cfg.State.Name = v.GetString("STATE_NAME")
	if cfg.State.Name == "" {
		cfg.State.Name = "default"
	}
	cfg.State.SQLitePath = v.GetString("SQLITE_PATH")
	if cfg.State.SQLitePath == "" {
		cfg.State.SQLitePath = "blockedby.db"
	}

	// Redis 配置
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "redis://localhost:6379/0"
	}

	// PostgreSQL 配置（仅 postgres 后端需要）
	cfg.Postgres.DSN = v.GetString("POSTGRES_DSN")

	// 数据库连接池配置
	cfg.DBPool.MaxConns = int32(v.GetInt("DB_MAX_CONNS"))
	if cfg.DBPool.MaxConns == 0 {
		cfg.DBPool.MaxConns = 4
	}
	cfg.DBPool.MinConns = int32(v.GetInt("DB_MIN_CONNS"))
	if cfg.DBPool.MinConns == 0 {
		cfg.DBPool.MinConns = 1
	}
	cfg.DBPool.MaxConnLifetime = v.GetDuration("DB_MAX_CONN_LIFETIME")
	if cfg.DBPool.MaxConnLifetime == 0 {
		cfg.DBPool.MaxConnLifetime = 30 * time.Minute
	}
	cfg.DBPool.MaxConnIdleTime = v.GetDuration("DB_MAX_CONN_IDLE_TIME")
	if cfg.DBPool.MaxConnIdleTime == 0 {
		cfg.DBPool.MaxConnIdleTime = 5 * time.Minute
	}

	// 节流配置：0 表示未设置，负数不允许
	cfg.Crawl.FetchDelay = durationOr(v, "FETCH_DELAY", 60*time.Second)
	cfg.Crawl.LookupDelay = durationOr(v, "LOOKUP_DELAY", 1*time.Second)
	cfg.Crawl.RestartBackoff = durationOr(v, "RESTART_BACKOFF", 60*time.Second)

	// HTTP 配置
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":28081"
	}

	// 监控配置
	cfg.Monitoring.Enabled = v.GetBool("MONITORING_ENABLED")

	// 日志配置
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Production = v.GetBool("LOG_PRODUCTION")

	cfg.Report.File = v.GetString("REPORT_FILE")

	return cfg, nil
}

// durationOr 读取时长；未设置时使用默认值，显式设置为 "0s" 也视为 0
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	return v.GetDuration(key)
}

// Validate 验证运行爬取所需的全部配置
func (c *Config) Validate() error {
	if c.Credentials.ConsumerKey == "" || c.Credentials.ConsumerSecret == "" {
		return fmt.Errorf("CONSUMER_KEY and CONSUMER_SECRET are required")
	}
	if c.Credentials.AccessToken == "" || c.Credentials.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN and ACCESS_TOKEN_SECRET are required")
	}
	if c.Crawl.FetchDelay < 0 || c.Crawl.LookupDelay < 0 || c.Crawl.RestartBackoff < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return c.ValidateState()
}

// ValidateState 只验证检查点后端配置（report 子命令不需要凭据）
func (c *Config) ValidateState() error {
	switch c.State.Backend {
	case BackendFile:
		if c.State.File == "" {
			return fmt.Errorf("STATE_FILE is required for file backend")
		}
	case BackendSQLite:
		if c.State.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis backend")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for postgres backend")
		}
		if err := postgres.ValidateDSN(c.Postgres.DSN); err != nil {
			return fmt.Errorf("POSTGRES_DSN: %w", err)
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.State.Backend)
	}
	return nil
}

// loadEnvFile 从当前目录向上查找第一个存在的 .env 文件并加载
func loadEnvFile() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}

	// 没有 .env 文件时只使用环境变量
	return nil
}
