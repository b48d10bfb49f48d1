package metrics

import (
	"strconv"

	"trip-planner/internal/pkg/xerrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 错误的呈现方式
const (
	SurfacePage = "page" // 渲染错误页
	SurfaceAPI  = "api"  // JSON 信封
)

// ErrorMetrics 返回给用户的错误，按错误码与呈现方式统计
type ErrorMetrics struct {
	Errors *prometheus.CounterVec

	// 按 HTTP 状态码
	Statuses *prometheus.CounterVec

	// LevelCritical 级别的错误
	Critical *prometheus.CounterVec
}

// DefaultErrorMetrics 默认的错误指标实例
var DefaultErrorMetrics = NewErrorMetrics(Namespace)

// NewErrorMetrics 在默认注册表上创建错误指标
func NewErrorMetrics(namespace string) *ErrorMetrics {
	return NewErrorMetricsWithRegistry(namespace, GetRegisterer())
}

// NewErrorMetricsWithRegistry 使用指定注册表创建错误指标
func NewErrorMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ErrorMetrics {
	factory := promauto.With(registerer)

	return &ErrorMetrics{
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_errors_total",
			Help:      "Errors returned to users by code, category and surface (page or api)",
		}, []string{"service", "surface", "code", "category", "level"}),

		Statuses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_error_status_total",
			Help:      "Errors returned to users by HTTP status code",
		}, []string{"service", "surface", "status_code"}),

		Critical: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "critical_errors_total",
			Help:      "Critical errors by code",
		}, []string{"service", "code"}),
	}
}

// RecordError 记录一次返回给用户的错误
func (m *ErrorMetrics) RecordError(appErr *xerrors.AppError, statusCode int, surface string) {
	if m == nil || appErr == nil {
		return
	}
	if surface == "" {
		surface = SurfaceAPI
	}

	service := GetServiceName()
	code := strconv.Itoa(appErr.Code.ToInt())
	category := appErr.Category
	if category == "" {
		category = "unknown"
	}

	m.Errors.WithLabelValues(service, surface, code, category, appErr.Level.String()).Inc()
	m.Statuses.WithLabelValues(service, surface, strconv.Itoa(statusCode)).Inc()

	if appErr.IsCritical() {
		m.Critical.WithLabelValues(service, code).Inc()
	}
}
