package storage

import (
	"context"
	"slices"
	"sync"
)

type memRepo struct {
	mu   sync.Mutex
	last map[string][]byte
	subs map[string][]chan []byte
}

// NewMemoryRepo 进程内实现，未配置 Redis 时使用
func NewMemoryRepo() SnapshotRepo {
	return &memRepo{
		last: make(map[string][]byte),
		subs: make(map[string][]chan []byte),
	}
}

func (m *memRepo) Publish(ctx context.Context, roomID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[roomID] = slices.Clone(payload)
	for _, ch := range m.subs[roomID] {
		// 订阅者跟不上就丢，下一份会覆盖
		select {
		case ch <- slices.Clone(payload):
		default:
		}
	}
	return nil
}

func (m *memRepo) Last(ctx context.Context, roomID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.last[roomID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return slices.Clone(p), nil
}

func (m *memRepo) Subscribe(ctx context.Context, roomID string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 16)
	m.mu.Lock()
	m.subs[roomID] = append(m.subs[roomID], ch)
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.subs[roomID] = slices.DeleteFunc(m.subs[roomID], func(c chan []byte) bool { return c == ch })
			close(ch)
		})
	}
	return ch, cancel, nil
}
