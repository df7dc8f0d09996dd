package model

import "github.com/azhengyongqin/blockedby/internal/queue"

// BlockedUser 拉黑了当前账号的二度用户
type BlockedUser struct {
	ID          string
	Name        string
	Handle      string
	Introducers *IDSet // 关系中包含该用户的一度联系人
}

// CrawlState 一次爬取的全部可变状态。
// 只由 Runner/Executor 在单个 goroutine 中修改，不做加锁。
type CrawlState struct {
	AuthenticatedUserID string
	BlockedUsers        *OrderedMap[*BlockedUser]
	Pending             *queue.Deque[Task]
	Failed              []Task
	Distance1           *IDSet
	Distance2           *OrderedMap[*IDSet] // 一度联系人 ID -> 其关注/粉丝
	// Resumed 由检查点加载时置为 true，不参与持久化
	Resumed bool
}

// NewCrawlState 创建全新状态，队列中预置三个种子任务。
// 两个屏障任务排在最前面的拉取任务之后；拉取任务的后续任务都插入队首，
// 因此屏障会一直等到整棵拉取子树执行完毕。
func NewCrawlState() *CrawlState {
	st := &CrawlState{
		BlockedUsers: NewOrderedMap[*BlockedUser](),
		Pending:      queue.New[Task](),
		Failed:       []Task{},
		Distance1:    NewIDSet(),
		Distance2:    NewOrderedMap[*IDSet](),
	}
	st.Pending.PushFront(
		FetchDistance1{Direction: Outgoing, Cursor: FirstCursor},
		EndFetchUsers{},
		EndCheckBlocked{},
	)
	return st
}

// Distance2Count 所有二度集合的并集大小
func (s *CrawlState) Distance2Count() int {
	union := NewIDSet()
	s.Distance2.Range(func(_ string, ids *IDSet) bool {
		union.Add(ids.order...)
		return true
	})
	return union.Len()
}
