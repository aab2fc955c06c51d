package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"resume-extract-go/internal/constants"
)

// Memory 基于 go-cache 的进程内缓存
type Memory struct {
	cache *gocache.Cache
}

// NewMemory 创建内存缓存，ttl<=0 时默认 24 小时
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &Memory{cache: gocache.New(ttl, 10*time.Minute)}
}

// Get 获取缓存内容
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if value, found := m.cache.Get(key); found {
		b, ok := value.([]byte)
		if !ok {
			return nil, false, nil
		}
		return append([]byte(nil), b...), true, nil
	}
	return nil, false, nil
}

// Set 设置缓存内容，ttl 为 0 时使用默认过期时间
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Close 清空缓存
func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}
