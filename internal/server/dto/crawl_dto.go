package dto

import "time"

// ProgressResponse 爬取进度
type ProgressResponse struct {
	RunID     string    `json:"run_id" example:"4f0c2a4e-8a37-4c44-9a4b-2f51f0b3c1de"`
	Phase     string    `json:"phase" example:"fetching"`
	AccountID string    `json:"account_id" example:"12345"`
	Processed int       `json:"processed" example:"42"`
	Remaining int       `json:"remaining" example:"17"`
	Distance1 int       `json:"distance1" example:"300"`
	Distance2 int       `json:"distance2" example:"85000"`
	Blocked   int       `json:"blocked" example:"3"`
	Failed    int       `json:"failed" example:"1"`
	Complete  bool      `json:"complete" example:"false"`
	LastTask  string    `json:"last_task" example:"fetch_distance2(outgoing, subject=42, cursor=-1)"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlockedUserItem 拉黑用户
type BlockedUserItem struct {
	ID          string   `json:"id" example:"987"`
	Name        string   `json:"name" example:"Someone"`
	Handle      string   `json:"handle" example:"someone"`
	Introducers []string `json:"introducers"`
}

// BlockedUsersResponse 拉黑用户列表
type BlockedUsersResponse struct {
	Total int               `json:"total" example:"3"`
	Items []BlockedUserItem `json:"items"`
}

// FailedTasksResponse 失败任务列表
type FailedTasksResponse struct {
	Total int      `json:"total" example:"1"`
	Items []string `json:"items"`
}
