package dto

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error" example:"错误信息"`
}

// PageQuery 分页查询参数
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=1000" example:"100"`
	Offset int `form:"offset" binding:"omitempty,min=0" example:"0"`
}

// Window 返回 [start, end) 区间，limit 为 0 时使用默认值
func (q PageQuery) Window(total int) (int, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	start := min(q.Offset, total)
	end := min(start+limit, total)
	return start, end
}
