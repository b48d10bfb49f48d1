// Package sessioncache 缓存 session token 对应的身份信息，避免每次页面请求都访问身份服务。
package sessioncache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
)

// Identity 描述缓存的登录身份。
type Identity struct {
	IdentityID   string
	Email        string
	SessionToken string
}

type entry struct {
	value     Identity
	expiresAt time.Time
}

// Cache 线程安全的身份缓存。
type Cache struct {
	ttl     time.Duration
	metrics *metrics.LoginMetrics
	logger  log.Logger
	clock   func() time.Time
	mu      sync.Mutex
	store   map[string]*entry
}

// New 返回默认 Cache 实例。
func New(ttl time.Duration, m *metrics.LoginMetrics, logger log.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if m == nil {
		m = metrics.DefaultLoginMetrics
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Cache{
		ttl:     ttl,
		metrics: m,
		logger:  logger.With("component", "identity_cache"),
		clock:   time.Now,
		store:   make(map[string]*entry),
	}
}

// Get 返回缓存的 Identity，命中时刷新 TTL。
func (c *Cache) Get(ctx context.Context, token string) (Identity, bool) {
	service := metrics.GetServiceName()
	if token == "" {
		c.metrics.IncCacheMiss(service)
		return Identity{}, false
	}
	key := hashToken(token)

	c.mu.Lock()
	value, ok := c.store[key]
	if !ok {
		c.mu.Unlock()
		c.metrics.IncCacheMiss(service)
		c.logger.DebugContext(ctx, "identity cache miss", log.String("token_hash", key))
		return Identity{}, false
	}

	now := c.clock()
	if now.After(value.expiresAt) {
		delete(c.store, key)
		c.mu.Unlock()
		c.metrics.IncCacheEvicted(service, "expired")
		c.logger.DebugContext(ctx, "identity cache expired", log.String("token_hash", key))
		return Identity{}, false
	}

	value.expiresAt = now.Add(c.ttl)
	identity := value.value
	c.mu.Unlock()

	c.metrics.IncCacheHit(service)
	return identity, true
}

// Set 写入或刷新 Identity。
func (c *Cache) Set(ctx context.Context, identity Identity) {
	if identity.SessionToken == "" {
		return
	}
	key := hashToken(identity.SessionToken)
	c.mu.Lock()
	c.store[key] = &entry{
		value:     identity,
		expiresAt: c.clock().Add(c.ttl),
	}
	c.mu.Unlock()
	c.logger.DebugContext(ctx, "identity cache updated", log.String("token_hash", key))
}

// Delete 主动剔除缓存（例如 logout / session 失效）。
func (c *Cache) Delete(ctx context.Context, token, reason string) {
	if token == "" {
		return
	}
	key := hashToken(token)
	c.mu.Lock()
	_, ok := c.store[key]
	delete(c.store, key)
	c.mu.Unlock()

	if ok {
		c.metrics.IncCacheEvicted(metrics.GetServiceName(), reason)
		c.logger.InfoContext(ctx, "identity cache evicted",
			log.String("reason", reason),
			log.String("token_hash", key))
	}
}

// Sweep 清理所有过期条目，返回清理数量。由定时任务调用。
func (c *Cache) Sweep(ctx context.Context) int {
	now := c.clock()
	removed := 0

	c.mu.Lock()
	for key, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		service := metrics.GetServiceName()
		for i := 0; i < removed; i++ {
			c.metrics.IncCacheEvicted(service, "swept")
		}
		c.logger.DebugContext(ctx, "identity cache swept", log.Int("removed", removed))
	}
	return removed
}

// Len 当前缓存条目数
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])[:16]
}
