package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/tracing"
)

var redisTracer = otel.Tracer("resume-extract/cache/redis")

// Redis 基于 go-redis 的结果缓存
type Redis struct {
	Client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedis 创建 Redis 连接并挂上 OpenTelemetry 钩子
func NewRedis(cfg *config.RedisConfig, ttl time.Duration) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries: cfg.MaxRetries,
	})

	// 记录所有 Redis 操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return NewRedisFromClient(client, cfg.KeyPrefix, ttl), nil
}

// NewRedisFromClient 使用已有的客户端
func NewRedisFromClient(client *redis.Client, keyPrefix string, ttl time.Duration) *Redis {
	return &Redis{Client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *Redis) key(k string) string {
	return r.keyPrefix + k
}

// Get 获取缓存内容；键不存在不是错误
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := redisTracer.Start(ctx, "cache.Redis.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", tracing.SafeCacheKey(key)))

	val, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, false, nil
	}
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeCache)
		return nil, false, fmt.Errorf("读取缓存失败: %w", err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("cache.value_length", len(val)))
	span.SetStatus(codes.Ok, "")
	return val, true, nil
}

// Set 设置缓存内容，ttl 为 0 时使用默认过期时间
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := redisTracer.Start(ctx, "cache.Redis.Set", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("cache.key", tracing.SafeCacheKey(key)),
		attribute.Int("cache.value_length", len(value)),
	)

	if ttl == 0 {
		ttl = r.ttl
	}
	if err := r.Client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeCache)
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
