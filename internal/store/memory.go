package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	reply     []byte
	expiresAt time.Time
}

// MemoryCache 进程内回复缓存
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	sets    int
}

// purgeEvery 每写入多少次清理一次过期项
const purgeEvery = 128

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	reply := make([]byte, len(e.reply))
	copy(reply, e.reply)
	return reply, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, reply []byte, ttl time.Duration) error {
	buf := make([]byte, len(reply))
	copy(buf, reply)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[key] = entry{reply: buf, expiresAt: now.Add(ttl)}
	m.sets++
	if m.sets%purgeEvery == 0 {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	return nil
}

// Len 返回当前缓存项数量（含未清理的过期项）
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}
