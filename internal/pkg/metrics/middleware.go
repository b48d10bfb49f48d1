// File: internal/pkg/metrics/middleware.go
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HeaderRoutePattern 回写命中的路由模板，便于排查指标标签
const HeaderRoutePattern = "X-Route-Pattern"

// pathLimitTracker 限制 route 标签的基数
var pathLimitTracker = NewPathLimitTracker(100)

// Middleware Echo 中间件 - 按路由模板记录 HTTP 请求指标
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if IsHealthCheckEndpoint(req.URL.Path) {
				return next(c)
			}

			m := DefaultHTTPMetrics
			service := GetServiceName()
			m.IncInProgress(service)
			defer m.DecInProgress(service)

			// 路由在进入中间件链前已匹配，c.Path() 即路由模板
			route := pathLimitTracker.TrackPath(NormalizeRoute(c.Path()))
			c.Response().Header().Set(HeaderRoutePattern, route)

			start := time.Now()
			err := next(c)

			m.RecordRequest(service, route, req.Method, statusOf(c, err), time.Since(start))
			return err
		}
	}
}

// statusOf 取最终响应状态码，错误尚未写出时按错误推断
func statusOf(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Handler 返回 Prometheus metrics HTTP 处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(GetGatherer(), promhttp.HandlerOpts{})
}

// EchoHandler Echo 框架的 Prometheus metrics 处理器
func EchoHandler() echo.HandlerFunc {
	h := Handler()
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	}
}
