package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azhengyongqin/blockedby/internal/progress"
	"github.com/azhengyongqin/blockedby/internal/server/dto"
)

// ProgressSource 进度快照来源
type ProgressSource interface {
	Snapshot() progress.Snapshot
}

// CrawlHandler 爬取状态 API Handler（只读）
type CrawlHandler struct {
	source ProgressSource
}

// NewCrawlHandler 创建 CrawlHandler
func NewCrawlHandler(source ProgressSource) *CrawlHandler {
	return &CrawlHandler{source: source}
}

// Progress godoc
// @Summary 查询爬取进度
// @Description 返回当前运行的阶段、已处理与剩余任务数以及结果统计
// @Tags Crawl
// @Produce json
// @Success 200 {object} dto.ProgressResponse
// @Router /progress [get]
func (h *CrawlHandler) Progress(c *gin.Context) {
	snap := h.source.Snapshot()
	c.JSON(http.StatusOK, dto.ProgressResponse{
		RunID:     snap.RunID,
		Phase:     string(snap.Phase),
		AccountID: snap.Result.AccountID,
		Processed: snap.Processed,
		Remaining: snap.Result.Remaining,
		Distance1: snap.Result.Distance1,
		Distance2: snap.Result.Distance2,
		Blocked:   len(snap.Result.BlockedUsers),
		Failed:    len(snap.Result.FailedTasks),
		Complete:  snap.Result.Complete,
		LastTask:  snap.LastTask,
		UpdatedAt: snap.UpdatedAt,
	})
}

// BlockedUsers godoc
// @Summary 查询拉黑用户
// @Description 分页返回已发现的拉黑用户及其介绍人（介绍人在检查阶段结束后才完整）
// @Tags Crawl
// @Produce json
// @Param limit query int false "每页数量 (1-1000)" default(100)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} dto.BlockedUsersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /blocked-users [get]
func (h *CrawlHandler) BlockedUsers(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	users := h.source.Snapshot().Result.BlockedUsers
	start, end := q.Window(len(users))
	items := make([]dto.BlockedUserItem, 0, end-start)
	for _, u := range users[start:end] {
		items = append(items, dto.BlockedUserItem{
			ID:          u.ID,
			Name:        u.Name,
			Handle:      u.Handle,
			Introducers: u.Introducers,
		})
	}
	c.JSON(http.StatusOK, dto.BlockedUsersResponse{Total: len(users), Items: items})
}

// FailedTasks godoc
// @Summary 查询失败任务
// @Description 分页返回拉取失败并被跳过的二度任务
// @Tags Crawl
// @Produce json
// @Param limit query int false "每页数量 (1-1000)" default(100)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} dto.FailedTasksResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /failed-tasks [get]
func (h *CrawlHandler) FailedTasks(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	failed := h.source.Snapshot().Result.FailedTasks
	start, end := q.Window(len(failed))
	items := append([]string{}, failed[start:end]...)
	c.JSON(http.StatusOK, dto.FailedTasksResponse{Total: len(failed), Items: items})
}
