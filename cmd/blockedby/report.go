package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/azhengyongqin/blockedby/internal/checkpoint"
	"github.com/azhengyongqin/blockedby/internal/config"
	"github.com/azhengyongqin/blockedby/internal/report"
)

func NewReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "从检查点输出 Markdown 结果报告",
		Long:  `读取检查点并输出当前结果；爬取未完成时介绍人列表可能不完整。不需要 API 凭据。`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.ValidateState(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return printReport(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func printReport(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := checkpoint.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open checkpoint: %w", err)
	}
	defer store.Close()

	st, err := store.Load(ctx)
	if errors.Is(err, checkpoint.ErrNoCheckpoint) {
		return fmt.Errorf("no checkpoint found, run the crawl first")
	}
	if err != nil {
		return err
	}
	return report.WriteMarkdown(out, report.FromState(st, time.Now()))
}
