package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/azhengyongqin/blockedby/internal/checkpoint"
	"github.com/azhengyongqin/blockedby/internal/config"
	"github.com/azhengyongqin/blockedby/internal/crawl"
	"github.com/azhengyongqin/blockedby/internal/healthcheck"
	"github.com/azhengyongqin/blockedby/internal/logger"
	"github.com/azhengyongqin/blockedby/internal/model"
	"github.com/azhengyongqin/blockedby/internal/progress"
	"github.com/azhengyongqin/blockedby/internal/report"
	httpserver "github.com/azhengyongqin/blockedby/internal/server"
	"github.com/azhengyongqin/blockedby/internal/supervisor"
	"github.com/azhengyongqin/blockedby/internal/twitter"
)

const shutdownTimeout = 10 * time.Second

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "运行或从检查点恢复爬取（默认命令）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// runCrawl 加载配置、打开检查点后端，在 supervisor 下运行爬取；
// 开启监控时同时启动状态 API。
func runCrawl(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Init(cfg.Log.Production); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetLevel(cfg.Log.Level)
	defer logger.Sync()

	logger.L.Info().
		Str("backend", cfg.State.Backend).
		Dur("fetch_delay", cfg.Crawl.FetchDelay).
		Dur("lookup_delay", cfg.Crawl.LookupDelay).
		Bool("monitoring", cfg.Monitoring.Enabled).
		Msg("启动")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := checkpoint.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open checkpoint: %w", err)
	}

	shutdown := supervisor.NewShutdownManager(shutdownTimeout, logger.WithComponent("shutdown"))
	shutdown.AddHook("checkpoint", func(context.Context) error { return store.Close() })

	client := twitter.New(ctx, cfg.API.BaseURL, twitter.Credentials{
		ConsumerKey:       cfg.Credentials.ConsumerKey,
		ConsumerSecret:    cfg.Credentials.ConsumerSecret,
		AccessToken:       cfg.Credentials.AccessToken,
		AccessTokenSecret: cfg.Credentials.AccessTokenSecret,
	}, twitter.WithLogger(logger.WithComponent("twitter")), twitter.WithTimeout(cfg.API.Timeout))

	tracker := progress.NewTracker(logger.WithComponent("progress"))

	app := &crawlApp{
		store:   store,
		client:  client,
		tracker: tracker,
		pacing: crawl.Pacing{
			FetchDelay:  cfg.Crawl.FetchDelay,
			LookupDelay: cfg.Crawl.LookupDelay,
		},
		retry: supervisor.RetryConfig{
			Backoff:       cfg.Crawl.RestartBackoff,
			BackoffFactor: 1,
			// 限流时至少等到窗口重置
			MinDelay: func(err error) time.Duration {
				return twitter.RetryAfter(err, time.Now())
			},
		},
		reportFile: cfg.Report.File,
		out:        out,
		log:        logger.WithComponent("crawl"),
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Monitoring.Enabled {
		healthChecker := healthcheck.NewHealthChecker(getVersion())
		healthChecker.Register("checkpoint", store)

		httpSrv := &http.Server{
			Addr: cfg.HTTP.Addr,
			Handler: httpserver.NewRouter(httpserver.Deps{
				Progress:      tracker,
				HealthChecker: healthChecker,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		shutdown.AddHook("http", httpSrv.Shutdown)

		g.Go(func() error {
			logger.L.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP 服务监听")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			if err := shutdown.Shutdown(context.Background()); err != nil {
				logger.L.Warn().Err(err).Msg("关闭时出错")
			}
		}()
		return app.run(gctx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.L.Info().Msg("收到退出信号，进度已保存到检查点")
		return nil
	}
	if errors.Is(err, crawl.ErrIdentityMismatch) {
		logger.L.Error().Err(err).Msg("检查点属于另一个账号，请执行 blockedby reset 或更换凭据")
	}
	return err
}

// crawlApp 一次完整爬取：supervisor 重启循环 + 完成后的报告输出
type crawlApp struct {
	store      crawl.Store
	client     crawl.Client
	tracker    *progress.Tracker
	pacing     crawl.Pacing
	retry      supervisor.RetryConfig
	reportFile string
	out        io.Writer
	log        zerolog.Logger
}

func (a *crawlApp) run(ctx context.Context) error {
	sup := supervisor.New(a.retry, crawl.IsFatal, a.log)

	var final *model.CrawlState
	err := sup.Run(ctx, func(ctx context.Context, runID string) error {
		log := a.log.With().Str("run_id", runID).Logger()

		// 每次重启都从检查点重新加载，丢弃内存中未保存的修改
		st, err := crawl.Bootstrap(ctx, a.store, log)
		if err != nil {
			return err
		}
		a.tracker.Reset(runID, st)

		runner := crawl.NewRunner(a.client, a.store,
			crawl.WithPacing(a.pacing),
			crawl.WithObserver(a.tracker),
			crawl.WithLogger(log),
		)
		if err := runner.Run(ctx, st); err != nil {
			return err
		}
		final = st
		return nil
	})
	if err != nil {
		return err
	}

	result := report.FromState(final, time.Now())
	a.log.Info().
		Int("blocked", len(result.BlockedUsers)).
		Int("failed", len(result.FailedTasks)).
		Int("distance2", result.Distance2).
		Msg("爬取完成")

	if a.out != nil {
		if err := report.WriteMarkdown(a.out, result); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if a.reportFile != "" {
		if err := report.WriteFile(a.reportFile, result); err != nil {
			return err
		}
		a.log.Info().Str("file", a.reportFile).Msg("报告已写入")
	}
	return nil
}
