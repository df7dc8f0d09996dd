package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd 根命令，不带子命令时执行爬取
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blockedby",
		Short: "查找拉黑了当前账号的二度联系人",
		Long: `blockedby 拉取当前账号的关注与粉丝（一度联系人）以及他们的关注与粉丝（二度联系人），
再批量查询哪些二度联系人拉黑了当前账号。

每个任务完成后都会保存检查点，进程中断或出错后从检查点继续。`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewResetCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute 执行根命令，出错时以状态码 1 退出
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
