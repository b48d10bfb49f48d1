package nats

import (
	"context"
	"errors"
	"sync"
	"time"

	"trip-planner/internal/pkg/log"

	"github.com/nats-io/nats.go"
)

// ErrDisconnected NATS 连接不可用
var ErrDisconnected = errors.New("nats disconnected")

// Conn 健康检查所需的连接状态，*nats.Conn 满足该接口
type Conn interface {
	IsConnected() bool
	IsClosed() bool
}

var _ Conn = (*nats.Conn)(nil)

// HealthChecker NATS连接健康检查器
// 定期采样连接状态，状态变化时记录日志；/health 读取最近一次结果
type HealthChecker struct {
	conn      Conn
	logger    log.Logger
	isHealthy bool
	mutex     sync.RWMutex
	stopOnce  sync.Once
	stopCh    chan struct{}
	interval  time.Duration
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(conn Conn, checkInterval time.Duration, logger log.Logger) *HealthChecker {
	if checkInterval <= 0 {
		checkInterval = 10 * time.Second // 默认10秒检查一次
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	hc := &HealthChecker{
		conn:     conn,
		logger:   logger.With("component", "nats_health"),
		stopCh:   make(chan struct{}),
		interval: checkInterval,
	}
	hc.checkHealth()
	return hc
}

// Start 启动健康检查，阻塞直到 ctx 结束或 Stop
func (hc *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hc.stopCh:
			return
		case <-ticker.C:
			hc.checkHealth()
		}
	}
}

// Stop 停止健康检查，可重复调用
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stopCh) })
}

// IsHealthy 检查连接是否健康
func (hc *HealthChecker) IsHealthy() bool {
	hc.mutex.RLock()
	defer hc.mutex.RUnlock()
	return hc.isHealthy
}

// Check 供 /health 使用
func (hc *HealthChecker) Check(context.Context) error {
	if !hc.IsHealthy() {
		return ErrDisconnected
	}
	return nil
}

// checkHealth 执行健康检查
func (hc *HealthChecker) checkHealth() {
	healthy := hc.conn.IsConnected() && !hc.conn.IsClosed()

	hc.mutex.Lock()
	changed := healthy != hc.isHealthy
	hc.isHealthy = healthy
	hc.mutex.Unlock()

	if !changed {
		return
	}
	if healthy {
		hc.logger.Info("NATS 连接已恢复")
	} else {
		hc.logger.Warn("NATS 连接不可用，事件发布将失败")
	}
}
