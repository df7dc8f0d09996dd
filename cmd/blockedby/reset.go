package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/azhengyongqin/blockedby/internal/checkpoint"
	"github.com/azhengyongqin/blockedby/internal/config"
)

func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "删除检查点，下次运行从头开始",
		Long:  `删除当前 STATE_BACKEND 下的检查点。检查点属于另一个账号时，需要先执行此命令。不需要 API 凭据。`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.ValidateState(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return resetCheckpoint(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func resetCheckpoint(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := checkpoint.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open checkpoint: %w", err)
	}
	defer store.Close()

	err = store.Delete(ctx)
	if errors.Is(err, checkpoint.ErrNoCheckpoint) {
		fmt.Fprintf(out, "no checkpoint found (%s backend)\n", cfg.State.Backend)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "checkpoint deleted (%s backend)\n", cfg.State.Backend)
	return nil
}
