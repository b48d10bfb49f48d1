package metrics

import (
	"strconv"
	"testing"
	"time"

	"trip-planner/internal/pkg/xerrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSuggestionMetrics(t *testing.T) {
	withServiceName(t, "web")
	reg := prometheus.NewRegistry()
	m := NewSuggestionMetricsWithRegistry("test", reg)

	m.Started("")
	m.Started("")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.InFlight.WithLabelValues("web")))

	m.Finished("", OutcomeSuccess, 3*time.Second)
	m.Finished("", OutcomeStale, time.Second)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlight.WithLabelValues("web")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("web", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("web", OutcomeStale)))

	var nilMetrics *SuggestionMetrics
	assert.NotPanics(t, func() {
		nilMetrics.Started("web")
		nilMetrics.Finished("web", OutcomeFailure, time.Second)
	})
}

func TestStoreMetrics(t *testing.T) {
	withServiceName(t, "web")
	reg := prometheus.NewRegistry()
	m := NewStoreMetricsWithRegistry("test", reg)

	m.RecordOperation("memory", "load", true, time.Millisecond)
	m.RecordOperation("redis", "update", false, 2*time.Millisecond)
	m.SetContexts("memory", 3)
	m.AddSwept("memory", 2)
	m.AddSwept("memory", 0)
	m.IncConflict("redis")
	m.RecordRedisPoolStats(10, 4, 1)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Operations.WithLabelValues("memory", "load", "success", "web")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Operations.WithLabelValues("redis", "update", "error", "web")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Contexts.WithLabelValues("memory", "web")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Swept.WithLabelValues("memory", "web")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Conflicts.WithLabelValues("redis", "web")))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.RedisConnectionPool.WithLabelValues("active", "web")))
}

func TestLoginMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoginMetricsWithRegistry("test", reg)

	m.ObserveDuration("web", "", 100*time.Millisecond)
	m.IncCacheHit("web")
	m.IncCacheMiss("web")
	m.IncCacheEvicted("web", "")

	count, err := testutil.GatherAndCount(reg, "test_login_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHit.WithLabelValues("web")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheEvict.WithLabelValues("web", "unknown")))
}

func TestWithRegistererSwitchesGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	WithRegisterer(reg, func() {
		assert.Equal(t, prometheus.Registerer(reg), GetRegisterer())
		assert.Equal(t, prometheus.Gatherer(reg), GetGatherer())
	})
	assert.Equal(t, prometheus.DefaultRegisterer, GetRegisterer())
}

func TestErrorMetrics_RecordError(t *testing.T) {
	withServiceName(t, "web")
	reg := prometheus.NewRegistry()
	m := NewErrorMetricsWithRegistry("test", reg)

	external := xerrors.FromCode(xerrors.CodeExternalServiceError)
	m.RecordError(external, 502, SurfacePage)
	m.RecordError(xerrors.FromCode(xerrors.CodeInvalidParams), 400, "")

	code := strconv.Itoa(xerrors.CodeExternalServiceError.ToInt())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Statuses.WithLabelValues("web", SurfacePage, "502")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Statuses.WithLabelValues("web", SurfaceAPI, "400")))
	// 外部服务错误为 critical，参数错误不是
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Critical.WithLabelValues("web", code)))
	invalid := strconv.Itoa(xerrors.CodeInvalidParams.ToInt())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Critical.WithLabelValues("web", invalid)))

	count, err := testutil.GatherAndCount(reg, "test_user_errors_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	var nilMetrics *ErrorMetrics
	assert.NotPanics(t, func() { nilMetrics.RecordError(external, 500, SurfaceAPI) })
}
