// File: internal/pkg/metrics/store_metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics 行程上下文存储 (memory/redis) 的操作指标
type StoreMetrics struct {
	Operations        *prometheus.CounterVec   // 操作总数（按后端、操作、结果）
	OperationDuration *prometheus.HistogramVec // 操作延迟
	Contexts          *prometheus.GaugeVec     // 当前保存的会话上下文数量（仅内存后端）
	Swept             *prometheus.CounterVec   // 过期清理数量
	Conflicts         *prometheus.CounterVec   // 乐观锁冲突重试次数（redis）

	RedisConnectionPool *prometheus.GaugeVec // Redis 连接池状态
}

var (
	// DefaultStoreMetrics 默认的存储指标实例
	DefaultStoreMetrics *StoreMetrics
)

// StoreOperationBuckets 内存与 Redis 操作延迟 (秒)
var StoreOperationBuckets = []float64{
	0.0001, // 100µs
	0.001,  // 1ms
	0.005,  // 5ms
	0.01,   // 10ms
	0.025,  // 25ms
	0.05,   // 50ms
	0.1,    // 100ms
	0.5,    // 500ms
	1,      // 1s
}

func init() {
	DefaultStoreMetrics = NewStoreMetrics(Namespace)
}

// NewStoreMetrics 创建新的存储指标收集器
func NewStoreMetrics(namespace string) *StoreMetrics {
	return NewStoreMetricsWithRegistry(namespace, GetRegisterer())
}

// NewStoreMetricsWithRegistry 创建新的存储指标收集器（使用自定义注册表）
func NewStoreMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *StoreMetrics {
	factory := promauto.With(registerer)

	return &StoreMetrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Trip context store operations by backend, operation and result",
			},
			[]string{"backend", "operation", "result", "service"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Trip context store operation latency by backend and operation",
				Buckets:   StoreOperationBuckets,
			},
			[]string{"backend", "operation", "service"},
		),

		Contexts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "contexts",
				Help:      "Number of session trip contexts currently held",
			},
			[]string{"backend", "service"},
		),

		Swept: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "swept_total",
				Help:      "Expired trip contexts removed by the sweeper",
			},
			[]string{"backend", "service"},
		),

		Conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "conflicts_total",
				Help:      "Optimistic transaction conflicts that caused a retry",
			},
			[]string{"backend", "service"},
		),

		RedisConnectionPool: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "connection_pool",
				Help:      "Redis connection pool status (total/idle/stale/active)",
			},
			[]string{"state", "service"},
		),
	}
}

// RecordOperation 记录一次存储操作
func (m *StoreMetrics) RecordOperation(backend, operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	service := GetServiceName()
	result := "success"
	if !success {
		result = "error"
	}

	m.Operations.WithLabelValues(backend, operation, result, service).Inc()
	m.OperationDuration.WithLabelValues(backend, operation, service).Observe(duration.Seconds())
}

// SetContexts 设置当前上下文数量
func (m *StoreMetrics) SetContexts(backend string, n int) {
	if m == nil {
		return
	}
	m.Contexts.WithLabelValues(backend, GetServiceName()).Set(float64(n))
}

// AddSwept 记录清理数量
func (m *StoreMetrics) AddSwept(backend string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Swept.WithLabelValues(backend, GetServiceName()).Add(float64(n))
}

// IncConflict 记录一次乐观锁冲突
func (m *StoreMetrics) IncConflict(backend string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(backend, GetServiceName()).Inc()
}

// RecordRedisPoolStats 记录 Redis 连接池统计信息
func (m *StoreMetrics) RecordRedisPoolStats(totalConns, idleConns, staleConns int) {
	if m == nil {
		return
	}
	service := GetServiceName()
	m.RedisConnectionPool.WithLabelValues("total", service).Set(float64(totalConns))
	m.RedisConnectionPool.WithLabelValues("idle", service).Set(float64(idleConns))
	m.RedisConnectionPool.WithLabelValues("stale", service).Set(float64(staleConns))
	m.RedisConnectionPool.WithLabelValues("active", service).Set(float64(totalConns - idleConns))
}
