package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-planner/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// backend 指标标签
const backend = "redis"

// Config Redis 配置
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client Redis 客户端封装
type Client struct {
	*redis.Client
}

// NewClient 创建 Redis 客户端并检查连通性
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}

	return &Client{Client: rdb}, nil
}

// Wrap 包装已有的 go-redis 客户端
func Wrap(rdb *redis.Client) *Client {
	return &Client{Client: rdb}
}

// IsNil 判断是否为 key 不存在
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// GetBytes 获取原始值，key 不存在时返回 redis.Nil
func (c *Client) GetBytes(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	result, err := c.Get(ctx, key).Bytes()
	metrics.DefaultStoreMetrics.RecordOperation(backend, "GET", err == nil || IsNil(err), time.Since(start))
	return result, err
}

// SetWithTTL 设置键值对，带过期时间
func (c *Client) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.Set(ctx, key, value, ttl).Err()
	metrics.DefaultStoreMetrics.RecordOperation(backend, "SET", err == nil, time.Since(start))
	return err
}

// Healthy 健康检查
func (c *Client) Healthy(ctx context.Context) error {
	start := time.Now()
	err := c.Ping(ctx).Err()
	metrics.DefaultStoreMetrics.RecordOperation(backend, "PING", err == nil, time.Since(start))
	return err
}

// RecordPoolStats 上报连接池状态
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()
	metrics.DefaultStoreMetrics.RecordRedisPoolStats(int(stats.TotalConns), int(stats.IdleConns), int(stats.StaleConns))
}
