// Package auth 登录模块：Kratos 身份服务、身份缓存与登录页面。
package auth

import (
	"trip-planner/internal/middleware"
	"trip-planner/internal/modules/auth/client"
	"trip-planner/internal/modules/auth/handler"
	"trip-planner/internal/modules/auth/service"
	"trip-planner/internal/modules/trip/tasks"
	"trip-planner/internal/pkg/config"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/sessioncache"

	"github.com/labstack/echo/v4"
)

// Deps 模块依赖
type Deps struct {
	Config config.Config
	Logger log.Logger
	// Provider 为空时使用 Kratos 客户端
	Provider  client.IdentityProvider
	SweepTask *tasks.SweepTask
}

// Module 登录模块
type Module struct {
	config  config.Config
	logger  log.Logger
	cache   *sessioncache.Cache
	service *service.AuthService
	handler *handler.LoginHandler
}

// NewModule 组装身份服务客户端、缓存与 Handler
func NewModule(deps Deps) *Module {
	logger := deps.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	cfg := deps.Config

	provider := deps.Provider
	if provider == nil {
		provider = client.NewKratosClient(cfg.Kratos.PublicURL, 0)
	}

	cache := sessioncache.New(cfg.Session.IdentityCacheTTL.Std(), metrics.DefaultLoginMetrics, logger)
	if deps.SweepTask != nil {
		deps.SweepTask.Add("identity_cache", cache)
	}

	svc := service.NewAuthService(provider, cache, service.Options{
		Metrics: metrics.DefaultLoginMetrics,
		Logger:  logger,
	})

	logger.Info("登录模块初始化完成", log.String("kratos_public_url", cfg.Kratos.PublicURL))

	return &Module{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: svc,
		handler: handler.NewLoginHandler(svc, handler.CookieConfig{
			Name:   cfg.Session.IdentityCookieName,
			Secure: cfg.Session.Secure,
		}, logger),
	}
}

// IdentityMiddleware 解析身份 cookie 的中间件
func (m *Module) IdentityMiddleware() echo.MiddlewareFunc {
	return middleware.IdentityMiddleware(m.service, m.config.Session.IdentityCookieName, m.config.Session.Secure, m.logger)
}

// RegisterRoutes 注册登录路由
func (m *Module) RegisterRoutes(e *echo.Echo) {
	handler.RegisterRoutes(e, m.handler)
}

// Service 认证服务
func (m *Module) Service() *service.AuthService {
	return m.service
}
