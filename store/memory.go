package store

import (
	"context"
	"sync"
)

// MemoryStore 进程内存储，可选字节配额
type MemoryStore struct {
	mutex sync.RWMutex
	data  map[string]string
	quota int
}

// NewMemoryStore quota<=0 表示不限制
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{data: make(map[string]string), quota: quota}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) SetMany(_ context.Context, pairs map[string]string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.quota > 0 {
		size := 0
		for k, v := range s.data {
			if _, replaced := pairs[k]; !replaced {
				size += len(k) + len(v)
			}
		}
		for k, v := range pairs {
			size += len(k) + len(v)
		}
		if size > s.quota {
			return ErrQuotaExceeded
		}
	}

	for k, v := range pairs {
		s.data[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
