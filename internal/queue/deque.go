// Package queue 提供爬取引擎使用的任务队列。
package queue

// Deque 队首插入、队首弹出的任务队列。
// 新发现的任务总是插到最前面，先于更早入队但尚未开始的任务执行。
// 非并发安全：由单个 Runner 独占。
type Deque[T any] struct {
	items []T
}

func New[T any]() *Deque[T] {
	return &Deque[T]{}
}

// PushFront 将 items 按给定顺序放到队首（items[0] 成为新的队首）
func (q *Deque[T]) PushFront(items ...T) {
	if len(items) == 0 {
		return
	}
	next := make([]T, 0, len(items)+len(q.items))
	next = append(next, items...)
	next = append(next, q.items...)
	q.items = next
}

// PushBack 追加到队尾（仅用于从检查点恢复队列）
func (q *Deque[T]) PushBack(items ...T) {
	q.items = append(q.items, items...)
}

// PopFront 弹出队首，队列为空时返回 false
func (q *Deque[T]) PopFront() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return v, true
}

// Peek 查看队首但不弹出
func (q *Deque[T]) Peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

func (q *Deque[T]) Len() int {
	return len(q.items)
}

// Items 返回从队首到队尾的副本
func (q *Deque[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
