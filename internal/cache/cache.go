// Package cache 按文档内容缓存抽取结果，支持内存（go-cache）与 Redis 两种实现。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/types"
)

// Cache 字节值缓存
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Entry 一次抽取的可缓存结果
type Entry struct {
	RunID      string            `json:"run_id"`
	Resume     *types.Resume     `json:"resume"`
	Transcript *types.Transcript `json:"transcript,omitempty"`
}

// Key 文档指纹：sha256(format + 0x00 + data)
func Key(format string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GetEntry 读取并反序列化缓存结果
func GetEntry(ctx context.Context, c Cache, key string) (*Entry, bool, error) {
	raw, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("解析缓存结果失败: %w", err)
	}
	if e.Resume == nil {
		return nil, false, nil
	}
	return &e, true, nil
}

// PutEntry 序列化并写入缓存结果
func PutEntry(ctx context.Context, c Cache, key string, e *Entry, ttl time.Duration) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("序列化缓存结果失败: %w", err)
	}
	return c.Set(ctx, key, raw, ttl)
}

// New 按 cache.type 创建缓存：memory（默认）、redis、none
func New(cfg *config.Config) (Cache, error) {
	ttl := config.GetDuration(cfg.Cache.TTL, constants.DefaultCacheTTL)
	switch cfg.Cache.Type {
	case "", "memory":
		return NewMemory(ttl), nil
	case "redis":
		return NewRedis(&cfg.Redis, ttl)
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("未知的缓存类型: %s", cfg.Cache.Type)
	}
}

// Nop 不缓存任何内容（cache.type=none）
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Close() error { return nil }
