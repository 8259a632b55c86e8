package kvstore

import (
	"context"
	"sync"
)

// MemSlot 进程内槽位，用于测试与无持久化的临时运行
type MemSlot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func NewMemSlot() *MemSlot { return &MemSlot{} }

func (s *MemSlot) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, false, nil
	}
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return cp, true, nil
}

func (s *MemSlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

func (s *MemSlot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data, s.set = nil, false
	return nil
}
