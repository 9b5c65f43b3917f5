// Package store 缓存已经生成的被动回复。
//
// 微信在 5 秒内收不到回复会重试三次，重试请求的 MsgId 相同。
// 处理器把每条消息的回复按消息 ID 缓存起来，重试时直接返回。
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/config"
)

// ReplyCache 回复缓存
type ReplyCache interface {
	// Get 返回缓存的回复，不存在时 ok 为 false
	Get(ctx context.Context, key string) (reply []byte, ok bool, err error)
	// Set 缓存回复，ttl 后过期
	Set(ctx context.Context, key string, reply []byte, ttl time.Duration) error
	Close() error
}

// New 按配置创建缓存。Redis 连接失败时退回内存缓存
func New(cfg config.CacheConfig, logger *zap.Logger) ReplyCache {
	if cfg.Driver != "redis" {
		return NewMemoryCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis 连接失败，使用内存缓存", zap.String("addr", cfg.Redis.Address), zap.Error(err))
		_ = client.Close()
		return NewMemoryCache()
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Redis.Address))
	return NewRedisCache(client, "")
}

// RedisCache 基于 Redis 的回复缓存，适合多实例部署
type RedisCache struct {
	client *redis.Client
	prefix string
}

// DefaultPrefix Redis 键前缀
const DefaultPrefix = "wechat:reply:"

// NewRedisCache 创建 Redis 缓存，prefix 为空时使用 DefaultPrefix
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	reply, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取回复缓存失败: %w", err)
	}
	return reply, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, reply []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, reply, ttl).Err(); err != nil {
		return fmt.Errorf("写入回复缓存失败: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
