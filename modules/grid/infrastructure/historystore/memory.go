package historystore

import (
	"context"
	"sync"

	"github.com/iota-uz/dora-register/modules/grid/domain/history"
)

type stacks struct {
	undo []history.Entry
	redo []history.Entry
}

// MemoryStore keeps history in process. It is lost on restart and not
// shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	depth int
	data  map[string]*stacks
}

func NewMemoryStore(depth int) *MemoryStore {
	if depth <= 0 {
		depth = history.DefaultDepth
	}
	return &MemoryStore{depth: depth, data: map[string]*stacks{}}
}

func (m *MemoryStore) get(key string) *stacks {
	st, ok := m.data[key]
	if !ok {
		st = &stacks{}
		m.data[key] = st
	}
	return st
}

func (st *stacks) stack(s history.Stack) *[]history.Entry {
	if s == history.StackRedo {
		return &st.redo
	}
	return &st.undo
}

func (m *MemoryStore) push(st *stacks, s history.Stack, e history.Entry) {
	list := st.stack(s)
	*list = append(*list, e)
	if over := len(*list) - m.depth; over > 0 {
		*list = append([]history.Entry(nil), (*list)[over:]...)
	}
}

func (m *MemoryStore) Record(ctx context.Context, key string, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.get(key)
	m.push(st, history.StackUndo, e)
	st.redo = nil
	return nil
}

func (m *MemoryStore) Push(ctx context.Context, key string, s history.Stack, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.push(m.get(key), s, e)
	return nil
}

func (m *MemoryStore) Pop(ctx context.Context, key string, s history.Stack) (history.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.get(key).stack(s)
	if len(*list) == 0 {
		return history.Entry{}, false, nil
	}
	last := (*list)[len(*list)-1]
	*list = (*list)[:len(*list)-1]
	return last, true, nil
}

func (m *MemoryStore) List(ctx context.Context, key string, s history.Stack) ([]history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := *m.get(key).stack(s)
	out := make([]history.Entry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
