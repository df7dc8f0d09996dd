// Package main 是 blockedby 命令行入口。
//
// 用法：
//
//	blockedby            运行（或从检查点恢复）爬取
//	blockedby report     从检查点输出结果报告
//	blockedby reset      删除检查点
//	blockedby version    输出版本信息
//
// 配置全部来自环境变量或 .env 文件。
package main

func main() {
	Execute()
}
