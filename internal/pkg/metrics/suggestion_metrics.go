// File: internal/pkg/metrics/suggestion_metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 行程建议调用结果
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// SuggestionMetrics 行程建议接口的调用指标
type SuggestionMetrics struct {
	// 调用总数（按结果分组：success/failure/stale）
	RequestsTotal *prometheus.CounterVec

	// 上游调用耗时
	Duration *prometheus.HistogramVec

	// 当前进行中的上游调用
	InFlight *prometheus.GaugeVec
}

var (
	// DefaultSuggestionMetrics 默认的建议指标实例
	DefaultSuggestionMetrics *SuggestionMetrics
)

// SuggestionBuckets 上游生成行程通常需要数秒到一两分钟 (秒)
var SuggestionBuckets = []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120}

func init() {
	DefaultSuggestionMetrics = NewSuggestionMetrics(Namespace)
}

// NewSuggestionMetrics 创建新的建议指标收集器
func NewSuggestionMetrics(namespace string) *SuggestionMetrics {
	return NewSuggestionMetricsWithRegistry(namespace, GetRegisterer())
}

// NewSuggestionMetricsWithRegistry 创建新的建议指标收集器（使用自定义注册表）
func NewSuggestionMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *SuggestionMetrics {
	factory := promauto.With(registerer)

	return &SuggestionMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "suggestion",
				Name:      "requests_total",
				Help:      "Suggestion API calls by outcome (success/failure/stale)",
			},
			[]string{"service", "outcome"},
		),

		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "suggestion",
				Name:      "duration_seconds",
				Help:      "Suggestion API call latency",
				Buckets:   SuggestionBuckets,
			},
			[]string{"service", "outcome"},
		),

		InFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "suggestion",
				Name:      "in_flight",
				Help:      "Suggestion API calls currently waiting for a response",
			},
			[]string{"service"},
		),
	}
}

// Started 标记一次上游调用开始
func (m *SuggestionMetrics) Started(service string) {
	if m == nil {
		return
	}
	m.InFlight.WithLabelValues(normalizeServiceName(service)).Inc()
}

// Finished 记录一次上游调用的结果与耗时
func (m *SuggestionMetrics) Finished(service, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	service = normalizeServiceName(service)
	m.InFlight.WithLabelValues(service).Dec()
	m.RequestsTotal.WithLabelValues(service, outcome).Inc()
	m.Duration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}
