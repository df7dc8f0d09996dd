package model

// ConnectionPage 一页关注/粉丝 ID
type ConnectionPage struct {
	IDs        []string
	NextCursor string
}

// Last 是否为最后一页（空游标同样视为结束，避免从第一页重新开始）
func (p ConnectionPage) Last() bool {
	return p.NextCursor == LastCursor || p.NextCursor == ""
}

// UserStatus users/lookup 返回的单个用户
type UserStatus struct {
	ID              string
	Name            string
	Handle          string
	BlockedByViewer bool
}
