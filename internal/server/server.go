// Package server 组装 Echo 实例：中间件链、页面渲染、健康检查与运维路由。
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "trip-planner/docs/web" // Swagger 生成的文档
	custommiddleware "trip-planner/internal/middleware"
	"trip-planner/internal/pkg/config"
	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/response"
	"trip-planner/internal/pkg/trace"
	"trip-planner/internal/pkg/validator"
	"trip-planner/internal/web"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// healthCheckTimeout 单个依赖检查的超时
const healthCheckTimeout = 2 * time.Second

// RouteRegistrar 业务模块注册路由
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

// HealthCheck 依赖健康检查，Check 返回 nil 表示健康
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Options Server 依赖
type Options struct {
	Config     config.Config
	Logger     log.Logger
	RespWriter response.Writer
	// Identity 解析登录用户的中间件，为空时所有请求按未登录处理
	Identity     echo.MiddlewareFunc
	HealthChecks []HealthCheck
}

// Server HTTP 服务
type Server struct {
	echo   *echo.Echo
	config config.Config
	logger log.Logger
	checks []HealthCheck
}

// New 创建 Echo 实例并配置中间件
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	cfg := opts.Config

	respWriter := opts.RespWriter
	if respWriter == nil {
		respWriter = response.NewResponseHandler(logger, cfg.Environment)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.Renderer = renderer

	// ========== 中间件配置（顺序很重要！） ==========

	// 1. TraceID 中间件 - 最先执行，生成或提取 TraceID
	e.Use(trace.Middleware())

	// 2. Metrics 中间件 - 记录 HTTP 请求指标
	e.Use(metrics.Middleware())

	// 3. i18n 中间件 - 语言检测和设置
	e.Use(i18n.Middleware())

	// 4. Logging 中间件 - 记录请求日志（依赖 TraceID）
	loggingConfig := custommiddleware.DefaultLoggingConfig()
	if !cfg.IsProduction() {
		loggingConfig.DetailedLog = true
		loggingConfig.LogRequestBody = true
	}
	e.Use(custommiddleware.LoggingMiddlewareWithConfig(logger, loggingConfig))

	// 5. Error 中间件 - 统一错误处理（页面渲染错误页，/api 输出 JSON）
	e.Use(custommiddleware.ErrorMiddleware(respWriter, web.ErrorPageRenderer(), logger))

	// 6. Recovery 中间件 - panic 转为 AppError 交给 Error 中间件
	e.Use(custommiddleware.RecoveryMiddleware(logger))

	// 7. 安全响应头、/api 跨域与 CSRF
	e.Use(custommiddleware.SecurityMiddleware(cfg.Session.Secure))
	e.Use(custommiddleware.CORSMiddleware(nil))
	e.Use(custommiddleware.CSRFMiddleware(cfg.Session.Secure))

	// 8. 浏览器会话与登录身份
	e.Use(custommiddleware.SessionMiddleware(custommiddleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		MaxAge:     cfg.Store.TTL.Std(),
	}, logger))
	if opts.Identity != nil {
		e.Use(opts.Identity)
	}

	// 9. 限流
	e.Use(custommiddleware.RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst))

	s := &Server{
		echo:   e,
		config: cfg,
		logger: logger,
		checks: opts.HealthChecks,
	}
	s.registerInfraRoutes()

	return s, nil
}

func (s *Server) registerInfraRoutes() {
	s.echo.GET("/static/*", echo.WrapHandler(web.StaticHandler()))

	// Swagger UI
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health check
	s.echo.GET("/health", s.health)

	// Prometheus metrics endpoint
	s.echo.GET("/metrics", metrics.EchoHandler())
}

// HealthResponse 健康检查结果
type HealthResponse struct {
	Status     string            `json:"status" example:"ok"`
	Service    string            `json:"service" example:"trip-planner"`
	Components map[string]string `json:"components,omitempty"`
}

// health 健康检查
// @Summary 健康检查
// @Description 返回服务及 Redis / NATS 等依赖的状态，任一依赖异常时返回 503
// @Tags 运维
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (s *Server) health(c echo.Context) error {
	resp := HealthResponse{
		Status:     "ok",
		Service:    metrics.GetServiceName(),
		Components: make(map[string]string, len(s.checks)),
	}

	for _, check := range s.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		err := check.Check(ctx)
		cancel()
		if err != nil {
			resp.Status = "degraded"
			resp.Components[check.Name] = err.Error()
			s.logger.WarnContext(c.Request().Context(), "依赖健康检查失败",
				log.String("component", check.Name), log.Any("error", err))
			continue
		}
		resp.Components[check.Name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}

// Mount 注册业务模块路由
func (s *Server) Mount(modules ...RouteRegistrar) {
	for _, m := range modules {
		m.RegisterRoutes(s.echo)
	}
}

// Echo 返回底层 Echo 实例
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start 启动 HTTP 服务，阻塞直到服务关闭
func (s *Server) Start() error {
	s.logger.Info("启动 HTTP 服务器", log.String("addr", s.config.Server.Addr))
	if err := s.echo.Start(s.config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭 HTTP 服务
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
