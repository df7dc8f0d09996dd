package model

// IDSet 按插入顺序保存的字符串集合
type IDSet struct {
	order []string
	index map[string]struct{}
}

func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{
		order: make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	s.Add(ids...)
	return s
}

// Add 添加 id，已存在的 id 保持原位置
func (s *IDSet) Add(ids ...string) {
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

func (s *IDSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *IDSet) Len() int {
	return len(s.order)
}

// Values 返回按插入顺序排列的副本
func (s *IDSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// OrderedMap 按 key 插入顺序遍历的 map
type OrderedMap[V any] struct {
	keys  []string
	items map[string]V
}

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{items: map[string]V{}}
}

// Set 写入或覆盖，覆盖时不改变 key 的位置
func (m *OrderedMap[V]) Set(key string, v V) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys 返回按插入顺序排列的 key 副本
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range 按插入顺序遍历，fn 返回 false 时停止
func (m *OrderedMap[V]) Range(fn func(key string, v V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.items[k]) {
			return
		}
	}
}
